package engine

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
)

func TestRandomQuestionPick(t *testing.T) {
	h := newHarness(t, gridDoc(), WithRand(&seqRand{seq: []int{2}}))
	h.nextUntil(t, StageRoundTable)

	h.clock.fire(t)

	snap := h.e.Snapshot()
	if !reflect.DeepEqual(snap.History, []Coordinate{{1, 0}}) {
		t.Fatalf("expected (1,0) to be picked, got %v", snap.History)
	}
	if snap.Stage != StageQuestion {
		t.Fatalf("expected %s, got %s", StageQuestion, snap.Stage)
	}
}

func TestTimerReplaysForward(t *testing.T) {
	h := newHarness(t, gridDoc(), WithRand(&seqRand{seq: []int{2}}))
	h.nextUntil(t, StageRoundTable)
	_ = h.e.SelectQuestion(0, 1)
	_, _, _ = h.e.MoveBack()

	h.clock.fire(t)

	if got := h.e.Snapshot().History; !reflect.DeepEqual(got, []Coordinate{{0, 1}}) {
		t.Fatalf("timer should redo the undone selection, got %v", got)
	}
}

func TestRemovedQuestionIsNotReplayed(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)
	_ = h.e.SelectQuestion(0, 1)
	_, _, _ = h.e.MoveBack()

	if _, ok := h.e.RemoveQuestion(0, 1); !ok {
		t.Fatal("undone question should be removable")
	}
	if snap := h.e.Snapshot(); len(snap.Forward) != 0 {
		t.Fatalf("removed question should leave forward, got %v", snap.Forward)
	}
	if h.e.CanNext() {
		t.Fatal("nothing is left to replay")
	}

	h.clock.fire(t)

	snap := h.e.Snapshot()
	if !reflect.DeepEqual(snap.History, []Coordinate{{0, 0}}) {
		t.Fatalf("expected a fresh pick of (0,0), got history %v", snap.History)
	}
	if !reflect.DeepEqual(snap.Remaining, []Coordinate{{1, 0}}) {
		t.Fatalf("unexpected remaining %v", snap.Remaining)
	}
	if h.rec.count("selected (0,1) simple") != 1 {
		t.Fatalf("removed question must not be played again: %v", h.rec.events)
	}
}

func TestStaleTimerIsIgnored(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)
	stale := h.clock.pending()
	if stale == nil {
		t.Fatal("round table should arm a timer")
	}

	_ = h.e.SelectQuestion(0, 0)
	if !stale.stopped {
		t.Fatal("stage change should stop the pending timer")
	}
	before := h.e.Snapshot()
	stale.f()
	if after := h.e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("stale timer changed state: %+v -> %+v", before, after)
	}
}

func TestEveryWaitingStageArmsTimer(t *testing.T) {
	doc := gridDoc()
	doc.Rounds = append(doc.Rounds, finalDoc(finalTheme("F0"), finalTheme("F1"), finalTheme("F2")).Rounds[0])
	h := newHarness(t, doc)
	h.next(t)

	seen := map[Stage]bool{}
	for i := 0; i < 200 && h.e.Stage() != StageEnd; i++ {
		seen[h.e.Stage()] = true
		h.clock.fire(t)
	}
	if h.e.Stage() != StageEnd {
		t.Fatalf("game did not finish on timers alone, stuck in %s", h.e.Stage())
	}
	if h.clock.pending() != nil {
		t.Fatal("no timer should be pending at the end")
	}
	for _, s := range []Stage{StageRoundTable, StageQuestion, StageWaitDelete, StageAfterDelete, StageFinalQuestion, StageScore} {
		if !seen[s] {
			t.Fatalf("expected to pass through %s", s)
		}
	}
	if !h.rec.has("gameEnded") {
		t.Fatalf("expected game end, got %v", h.rec.events)
	}
}

func TestClose(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)
	pending := h.clock.pending()

	h.e.Close()

	if !pending.stopped {
		t.Fatal("close should stop the pending timer")
	}
	if err := h.e.MoveNext(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := h.e.SelectQuestion(0, 0); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := h.e.SelectTheme(0); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, _, err := h.e.MoveBack(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, _, err := h.e.OnReady(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := h.e.SetTimeout(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, ok := h.e.RemoveQuestion(0, 0); ok {
		t.Fatal("remove should fail after close")
	}
	if h.e.MoveNextRound() || h.e.CanNext() || h.e.CanSelectQuestion() {
		t.Fatal("closed engine should refuse navigation")
	}

	before := h.rec.events
	pending.f()
	if len(h.rec.events) != len(before) {
		t.Fatal("timer fired after close")
	}
	if !h.e.Snapshot().Closed {
		t.Fatal("snapshot should report closed")
	}
}

type endSignal struct {
	NopNotifier
	done chan struct{}
}

func (s *endSignal) OnGameEnded() { close(s.done) }

func TestConcurrentCommandsWithRealTimers(t *testing.T) {
	doc := gridDoc()
	doc.Rounds = append(doc.Rounds, finalDoc(finalTheme("F0"), finalTheme("F1")).Rounds[0])
	sig := &endSignal{done: make(chan struct{})}
	e, err := New(doc, WithNotifier(sig), WithPacing(Pacing{}))
	if err != nil {
		t.Fatalf("should create engine: %v", err)
	}
	defer e.Close()

	if err := e.MoveNext(); err != nil {
		t.Fatalf("MoveNext failed: %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = e.Snapshot()
				_ = e.SelectQuestion(i%2, i/2)
				_ = e.SelectTheme(i % 2)
				_, _, _ = e.OnReady()
			}
		}(i)
	}

	select {
	case <-sig.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("game did not finish, stage %s", e.Stage())
	}
	close(stop)
	wg.Wait()

	if e.Stage() != StageEnd {
		t.Fatalf("expected %s, got %s", StageEnd, e.Stage())
	}
}

func TestContentDelay(t *testing.T) {
	p := DefaultPacing()
	if got := p.contentDelay(""); got != p.ContentMin {
		t.Fatalf("expected minimum %v, got %v", p.ContentMin, got)
	}
	if got := p.contentDelay("привет мир, как дела?"); got != 21*p.ContentPerChar {
		t.Fatalf("expected delay per rune, got %v", got)
	}
	if got := p.atomDelay(pkgdoc.Atom{Type: pkgdoc.AtomAudio, Text: "clip.mp3", Duration: 12}); got != 12*time.Second {
		t.Fatalf("expected media duration, got %v", got)
	}
	if got := p.atomDelay(pkgdoc.Atom{Type: pkgdoc.AtomImage, Text: "a-very-long-image-file-name.png"}); got != p.ContentMin {
		t.Fatalf("expected minimum for media without duration, got %v", got)
	}
}

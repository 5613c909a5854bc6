package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
)

type recorder struct {
	NopNotifier
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) OnPackage(doc *pkgdoc.Document, _ string) { r.add("package %s", doc.Name) }
func (r *recorder) OnGameThemes(themes []string)             { r.add("gameThemes %v", themes) }
func (r *recorder) OnRound(index int, _ *pkgdoc.Round)       { r.add("round %d", index) }
func (r *recorder) OnRoundThemes(t []*pkgdoc.Theme)          { r.add("roundThemes %d", len(t)) }
func (r *recorder) OnQuestionSelected(c Coordinate, _ *pkgdoc.Theme, _ *pkgdoc.Question, typeName string) {
	r.add("selected %v %s", c, typeName)
}
func (r *recorder) OnMoveToQuestion(final bool) { r.add("moveToQuestion %v", final) }
func (r *recorder) OnQuestionAtom(_ *pkgdoc.Question, a pkgdoc.Atom, last bool) {
	r.add("atom %s %v", a.Text, last)
}
func (r *recorder) OnQuestionFinished()             { r.add("questionFinished") }
func (r *recorder) OnSimpleAnswer(answer string)    { r.add("answer %s", answer) }
func (r *recorder) OnQuestionPostInfo()             { r.add("postInfo") }
func (r *recorder) OnEndQuestion(c Coordinate)      { r.add("endQuestion %v", c) }
func (r *recorder) OnNextQuestion()                 { r.add("nextQuestion") }
func (r *recorder) OnRoundTimeout()                 { r.add("roundTimeout") }
func (r *recorder) OnFinalThemes(t []*pkgdoc.Theme) { r.add("finalThemes %d", len(t)) }
func (r *recorder) OnWaitDelete()                   { r.add("waitDelete") }
func (r *recorder) OnThemeEliminated(public int)    { r.add("eliminated %d", public) }
func (r *recorder) OnPrepareFinalQuestion(t *pkgdoc.Theme, _ *pkgdoc.Question) {
	r.add("prepareFinal %s", t.Name)
}
func (r *recorder) OnFinalThink(*pkgdoc.Question) { r.add("finalThink") }
func (r *recorder) OnRoundEnded(index int)        { r.add("roundEnded %d", index) }
func (r *recorder) OnGameEnded()                  { r.add("gameEnded") }

func (r *recorder) has(event string) bool {
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeClock collects armed timers; tests fire them by hand.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) schedule(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) pending() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.timers) - 1; i >= 0; i-- {
		if !c.timers[i].stopped {
			return c.timers[i]
		}
	}
	return nil
}

func (c *fakeClock) fire(t *testing.T) {
	t.Helper()
	tm := c.pending()
	if tm == nil {
		t.Fatal("no pending timer")
	}
	tm.stopped = true
	tm.f()
}

type seqRand struct {
	seq []int
	n   int
}

func (r *seqRand) Intn(n int) int {
	v := r.seq[r.n%len(r.seq)]
	r.n++
	return v % n
}

func question(price int) *pkgdoc.Question {
	return &pkgdoc.Question{
		Price: price,
		Atoms: []pkgdoc.Atom{{Type: pkgdoc.AtomText, Text: "question"}},
		Right: []string{"answer"},
	}
}

// gridDoc is one classic round: T0 (100, 200) and T1 (100, invalid).
func gridDoc() *pkgdoc.Document {
	return &pkgdoc.Document{Name: "grid", Rounds: []*pkgdoc.Round{
		{Name: "R1", Themes: []*pkgdoc.Theme{
			{Name: "T0", Questions: []*pkgdoc.Question{question(100), question(200)}},
			{Name: "T1", Questions: []*pkgdoc.Question{question(100), question(pkgdoc.InvalidPrice)}},
		}},
	}}
}

type harness struct {
	e     *Engine
	rec   *recorder
	clock *fakeClock
}

func newHarness(t *testing.T, doc *pkgdoc.Document, opts ...Option) *harness {
	t.Helper()
	h := &harness{rec: &recorder{}, clock: &fakeClock{}}
	all := append([]Option{
		WithNotifier(h.rec),
		WithScheduler(h.clock.schedule),
		WithRand(&seqRand{seq: []int{0}}),
	}, opts...)
	e, err := New(doc, all...)
	if err != nil {
		t.Fatalf("should create engine: %v", err)
	}
	h.e = e
	return h
}

func (h *harness) next(t *testing.T) {
	t.Helper()
	if err := h.e.MoveNext(); err != nil {
		t.Fatalf("MoveNext failed: %v", err)
	}
}

func (h *harness) nextUntil(t *testing.T, stage Stage) {
	t.Helper()
	for i := 0; i < 50; i++ {
		if h.e.Stage() == stage {
			return
		}
		h.next(t)
	}
	t.Fatalf("stage %s not reached, stuck in %s", stage, h.e.Stage())
}

func TestNewRejectsEmptyDocument(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("nil document should be rejected")
	}
	if _, err := New(&pkgdoc.Document{}); !errors.Is(err, pkgdoc.ErrNoRounds) {
		t.Fatalf("expected ErrNoRounds, got %v", err)
	}
}

func TestStageHandlersAreExhaustive(t *testing.T) {
	h := newHarness(t, gridDoc())
	for _, s := range Stages {
		if h.e.handlers[s] == nil {
			t.Fatalf("stage %s has no handler", s)
		}
	}
	if len(h.e.handlers) != len(Stages) {
		t.Fatalf("expected %d handlers, got %d", len(Stages), len(h.e.handlers))
	}
}

func TestOpeningSequence(t *testing.T) {
	doc := gridDoc()
	doc.Rounds = append(doc.Rounds, &pkgdoc.Round{Name: "F", Type: pkgdoc.RoundFinal, Themes: []*pkgdoc.Theme{
		{Name: "Final", Questions: []*pkgdoc.Question{question(0)}},
	}})
	h := newHarness(t, doc)

	h.next(t)
	if h.e.Stage() != StageGameThemes {
		t.Fatalf("expected %s, got %s", StageGameThemes, h.e.Stage())
	}
	h.next(t)
	if h.e.Stage() != StageRound {
		t.Fatalf("expected %s, got %s", StageRound, h.e.Stage())
	}
	h.next(t)
	if h.e.Stage() != StageRoundThemes {
		t.Fatalf("expected %s, got %s", StageRoundThemes, h.e.Stage())
	}
	h.next(t)
	if h.e.Stage() != StageRoundTable {
		t.Fatalf("expected %s, got %s", StageRoundTable, h.e.Stage())
	}

	want := []string{"package grid", "gameThemes [T0 T1]", "round 0", "roundThemes 2"}
	if !reflect.DeepEqual(h.rec.events, want) {
		t.Fatalf("expected events %v, got %v", want, h.rec.events)
	}
}

func TestRoundThemesBuildsQuestionTable(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)

	want := []Coordinate{{0, 0}, {0, 1}, {1, 0}}
	if got := h.e.Snapshot().Remaining; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected remaining %v, got %v", want, got)
	}
}

func TestSelectAndMoveBack(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)

	if err := h.e.SelectQuestion(0, 1); err != nil {
		t.Fatalf("should select question: %v", err)
	}
	snap := h.e.Snapshot()
	if !reflect.DeepEqual(snap.Remaining, []Coordinate{{0, 0}, {1, 0}}) {
		t.Fatalf("unexpected remaining after select: %v", snap.Remaining)
	}
	if !reflect.DeepEqual(snap.History, []Coordinate{{0, 1}}) {
		t.Fatalf("unexpected history after select: %v", snap.History)
	}
	if snap.Stage != StageQuestion {
		t.Fatalf("expected %s, got %s", StageQuestion, snap.Stage)
	}

	c, price, err := h.e.MoveBack()
	if err != nil {
		t.Fatalf("should move back: %v", err)
	}
	if c != (Coordinate{0, 1}) || price != 200 {
		t.Fatalf("expected (0,1) 200, got %v %d", c, price)
	}
	snap = h.e.Snapshot()
	if !reflect.DeepEqual(snap.Remaining, []Coordinate{{0, 0}, {0, 1}, {1, 0}}) {
		t.Fatalf("unexpected remaining after move back: %v", snap.Remaining)
	}
	if len(snap.History) != 0 {
		t.Fatalf("history should be empty, got %v", snap.History)
	}
	if !reflect.DeepEqual(snap.Forward, []Coordinate{{0, 1}}) {
		t.Fatalf("unexpected forward: %v", snap.Forward)
	}
	if snap.Stage != StageRoundTable {
		t.Fatalf("expected %s, got %s", StageRoundTable, snap.Stage)
	}
}

func TestForwardReplaysSelection(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)

	if err := h.e.SelectQuestion(0, 1); err != nil {
		t.Fatalf("should select question: %v", err)
	}
	if _, _, err := h.e.MoveBack(); err != nil {
		t.Fatalf("should move back: %v", err)
	}
	if !h.e.CanNext() {
		t.Fatal("round table with forward entries should allow next")
	}
	h.next(t)

	if n := h.rec.count("selected (0,1) simple"); n != 2 {
		t.Fatalf("expected the selection to be notified twice, got %d", n)
	}
	snap := h.e.Snapshot()
	if snap.Stage != StageQuestion {
		t.Fatalf("expected %s, got %s", StageQuestion, snap.Stage)
	}
	if !reflect.DeepEqual(snap.History, []Coordinate{{0, 1}}) || len(snap.Forward) != 0 {
		t.Fatalf("unexpected stacks: history %v forward %v", snap.History, snap.Forward)
	}
}

func TestSelectQuestionClearsForward(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)

	_ = h.e.SelectQuestion(0, 1)
	_, _, _ = h.e.MoveBack()
	if err := h.e.SelectQuestion(1, 0); err != nil {
		t.Fatalf("should select question: %v", err)
	}
	if snap := h.e.Snapshot(); len(snap.Forward) != 0 {
		t.Fatalf("forward should be cleared, got %v", snap.Forward)
	}
}

func TestRejectedCommands(t *testing.T) {
	h := newHarness(t, gridDoc())

	if err := h.e.SelectQuestion(0, 0); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage before the table, got %v", err)
	}
	if _, _, err := h.e.MoveBack(); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
	if err := h.e.SelectTheme(0); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage for theme selection, got %v", err)
	}

	h.nextUntil(t, StageRoundTable)
	before := h.e.Snapshot()
	tests := []struct {
		name     string
		theme    int
		question int
	}{
		{"invalid price", 1, 1},
		{"theme out of range", 5, 0},
		{"question out of range", 0, 7},
		{"negative", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.e.SelectQuestion(tt.theme, tt.question)
			if !errors.Is(err, ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
			if !errors.Is(err, ErrInvalidOperation) {
				t.Fatalf("expected error kind ErrInvalidOperation, got %v", err)
			}
		})
	}
	if after := h.e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected commands changed state: %+v -> %+v", before, after)
	}

	_ = h.e.SelectQuestion(0, 0)
	if err := h.e.SelectQuestion(0, 1); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage while a question plays, got %v", err)
	}
}

func TestQuestionPlaysToNextQuestion(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)
	_ = h.e.SelectQuestion(0, 0)
	h.rec.events = nil

	h.next(t) // reveal the only atom
	h.next(t) // content exhausted, answer shown
	if h.e.Stage() != StageQuestionPostInfo {
		t.Fatalf("expected %s, got %s", StageQuestionPostInfo, h.e.Stage())
	}
	h.next(t)
	if h.e.Stage() != StageEndQuestion {
		t.Fatalf("expected %s, got %s", StageEndQuestion, h.e.Stage())
	}
	h.next(t)
	if h.e.Stage() != StageRoundTable {
		t.Fatalf("expected %s, got %s", StageRoundTable, h.e.Stage())
	}

	want := []string{
		"atom question true",
		"questionFinished",
		"answer answer",
		"postInfo",
		"endQuestion (0,0)",
		"nextQuestion",
	}
	if !reflect.DeepEqual(h.rec.events, want) {
		t.Fatalf("expected %v, got %v", want, h.rec.events)
	}
}

func playQuestion(t *testing.T, h *harness, theme, q int) {
	t.Helper()
	if err := h.e.SelectQuestion(theme, q); err != nil {
		t.Fatalf("should select (%d,%d): %v", theme, q, err)
	}
	for i := 0; i < 10; i++ {
		h.next(t)
		if s := h.e.Stage(); s != StageQuestion && s != StageRightAnswer && s != StageRightAnswerProceed &&
			s != StageQuestionPostInfo && s != StageEndQuestion {
			return
		}
	}
	t.Fatalf("question (%d,%d) did not finish", theme, q)
}

func TestLastQuestionEndsGame(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)

	playQuestion(t, h, 0, 0)
	playQuestion(t, h, 0, 1)
	playQuestion(t, h, 1, 0)

	if h.e.Stage() != StageEnd {
		t.Fatalf("expected %s, got %s", StageEnd, h.e.Stage())
	}
	if !h.rec.has("roundEnded 0") || !h.rec.has("gameEnded") {
		t.Fatalf("expected round and game end events, got %v", h.rec.events)
	}
	if h.e.CanNext() {
		t.Fatal("end stage should not allow next")
	}
}

func TestRoundTimeoutFinishesRound(t *testing.T) {
	doc := gridDoc()
	doc.Rounds = append(doc.Rounds, &pkgdoc.Round{Name: "R2", Themes: []*pkgdoc.Theme{
		{Name: "T2", Questions: []*pkgdoc.Question{question(300)}},
	}})
	h := newHarness(t, doc)
	h.nextUntil(t, StageRoundTable)

	if err := h.e.SetTimeout(); err != nil {
		t.Fatalf("should set timeout: %v", err)
	}
	playQuestion(t, h, 0, 0)

	if h.e.Stage() != StageScore {
		t.Fatalf("expected %s, got %s", StageScore, h.e.Stage())
	}
	if !h.rec.has("roundTimeout") {
		t.Fatalf("expected round timeout event, got %v", h.rec.events)
	}

	h.next(t) // Score -> Round
	h.next(t) // Round resets the timeout flag
	if h.e.Snapshot().Timeout {
		t.Fatal("timeout flag should reset with the new round")
	}
	h.next(t)
	if got := h.e.Snapshot().Remaining; !reflect.DeepEqual(got, []Coordinate{{0, 0}}) {
		t.Fatalf("expected second round table, got %v", got)
	}
}

func TestSpecialQuestionDowngrade(t *testing.T) {
	doc := gridDoc()
	special := doc.Rounds[0].Themes[0].Questions[0]
	special.Type = pkgdoc.QuestionCat

	tests := []struct {
		name     string
		specials bool
		want     string
		delay    time.Duration
	}{
		{"specials disabled", false, pkgdoc.QuestionSimple, DefaultPacing().ReadyWait},
		{"specials enabled", true, pkgdoc.QuestionCat, DefaultPacing().SpecialLeadIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, doc, WithOptions(StaticOptions(Options{ShowRightAnswer: true, PlaySpecials: tt.specials})))
			h.nextUntil(t, StageRoundTable)
			_ = h.e.SelectQuestion(0, 0)

			if !h.rec.has("selected (0,0) " + tt.want) {
				t.Fatalf("expected selection as %s, got %v", tt.want, h.rec.events)
			}
			if got := h.e.Snapshot().QuestionType; got != tt.want {
				t.Fatalf("expected active type %s, got %s", tt.want, got)
			}
			if got := h.clock.pending().d; got != tt.delay {
				t.Fatalf("expected delay %v, got %v", tt.delay, got)
			}
		})
	}
	if special.Type != pkgdoc.QuestionCat {
		t.Fatal("document must not be modified")
	}
}

func TestAnswerReveal(t *testing.T) {
	marked := func() *pkgdoc.Question {
		return &pkgdoc.Question{Price: 100, Atoms: []pkgdoc.Atom{
			{Type: pkgdoc.AtomText, Text: "q1"},
			{Type: pkgdoc.AtomText, Text: "q2"},
			{Type: pkgdoc.AtomMarker},
			{Type: pkgdoc.AtomImage, Text: "a.png"},
		}, Right: []string{"answer"}}
	}
	tests := []struct {
		name      string
		q         *pkgdoc.Question
		showRight bool
		want      []string
	}{
		{"text answer", question(100), true, []string{"atom question true", "questionFinished", "answer answer", "postInfo"}},
		{"hidden answer", question(100), false, []string{"atom question true", "questionFinished", "postInfo"}},
		{"marker answer", marked(), false, []string{"atom q1 false", "atom q2 true", "questionFinished", "atom a.png true", "questionFinished", "postInfo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &pkgdoc.Document{Name: "a", Rounds: []*pkgdoc.Round{{Themes: []*pkgdoc.Theme{
				{Name: "T", Questions: []*pkgdoc.Question{tt.q, question(200)}},
			}}}}
			h := newHarness(t, doc, WithOptions(StaticOptions(Options{ShowRightAnswer: tt.showRight})))
			h.nextUntil(t, StageRoundTable)
			_ = h.e.SelectQuestion(0, 0)
			h.rec.events = nil
			h.nextUntil(t, StageEndQuestion)
			if !reflect.DeepEqual(h.rec.events, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, h.rec.events)
			}
		})
	}
}

type stepEngine struct{ steps int }

func (s *stepEngine) PlayNext() bool {
	s.steps--
	return s.steps > 0
}

func TestQuestionEngineDelegation(t *testing.T) {
	qe := &stepEngine{steps: 3}
	h := newHarness(t, gridDoc(), WithQuestionEngines(func(*pkgdoc.Theme, *pkgdoc.Question) QuestionEngine {
		return qe
	}))
	h.nextUntil(t, StageRoundTable)
	_ = h.e.SelectQuestion(0, 0)

	h.next(t)
	h.next(t)
	if h.e.Stage() != StageQuestion {
		t.Fatalf("expected to stay in %s while content remains, got %s", StageQuestion, h.e.Stage())
	}
	h.next(t)
	if h.e.Stage() != StageQuestionPostInfo {
		t.Fatalf("expected %s, got %s", StageQuestionPostInfo, h.e.Stage())
	}
	if h.rec.count("questionFinished") != 1 {
		t.Fatalf("expected one finish event, got %v", h.rec.events)
	}
	for _, ev := range h.rec.events {
		if len(ev) > 4 && ev[:4] == "atom" {
			t.Fatalf("atoms must not be played directly when a question engine is present: %v", h.rec.events)
		}
	}
}

func TestOnReadyAdvancesSimpleQuestion(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)
	_ = h.e.SelectQuestion(0, 0)

	idx, more, err := h.e.OnReady()
	if err != nil || idx != -1 || more {
		t.Fatalf("unexpected OnReady result %d %v %v", idx, more, err)
	}
	if !h.rec.has("atom question true") {
		t.Fatalf("OnReady should advance the simple question, got %v", h.rec.events)
	}
}

func TestRemoveAndRestoreQuestion(t *testing.T) {
	h := newHarness(t, gridDoc())
	if _, ok := h.e.RestoreQuestion(0, 0); ok {
		t.Fatal("restore without an active round should fail")
	}
	h.nextUntil(t, StageRoundTable)

	tests := []struct {
		name     string
		theme    int
		question int
	}{
		{"invalid price", 1, 1},
		{"theme out of range", 2, 0},
		{"question out of range", 0, 2},
		{"negative question", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := h.e.RestoreQuestion(tt.theme, tt.question); ok {
				t.Fatal("restore should report not found")
			}
			if _, ok := h.e.RemoveQuestion(tt.theme, tt.question); ok {
				t.Fatal("remove should report not found")
			}
		})
	}

	price, ok := h.e.RemoveQuestion(0, 1)
	if !ok || price != 200 {
		t.Fatalf("expected removal of 200, got %d %v", price, ok)
	}
	if _, ok := h.e.RemoveQuestion(0, 1); ok {
		t.Fatal("second removal should fail")
	}
	if err := h.e.SelectQuestion(0, 1); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("removed question should not be selectable, got %v", err)
	}
	price, ok = h.e.RestoreQuestion(0, 1)
	if !ok || price != 200 {
		t.Fatalf("expected restore of 200, got %d %v", price, ok)
	}
	if err := h.e.SelectQuestion(0, 1); err != nil {
		t.Fatalf("restored question should be selectable: %v", err)
	}
}

func TestTableEditsOutsideTheRoundTable(t *testing.T) {
	doc := gridDoc()
	doc.Rounds = append(doc.Rounds, &pkgdoc.Round{Name: "R2", Themes: []*pkgdoc.Theme{
		{Name: "T2", Questions: []*pkgdoc.Question{question(300)}},
	}})
	h := newHarness(t, doc)
	h.nextUntil(t, StageRoundTable)
	_ = h.e.SetTimeout()
	playQuestion(t, h, 0, 1)
	if h.e.Stage() != StageScore {
		t.Fatalf("expected %s, got %s", StageScore, h.e.Stage())
	}

	if _, ok := h.e.RemoveQuestion(0, 0); ok {
		t.Fatal("remove should fail between rounds")
	}
	if _, ok := h.e.RestoreQuestion(0, 1); ok {
		t.Fatal("restore should fail between rounds")
	}
	h.next(t) // Score -> Round 1
	if _, ok := h.e.RemoveQuestion(0, 0); ok {
		t.Fatal("remove should fail before the new table is built")
	}
	h.next(t)
	if _, ok := h.e.RemoveQuestion(0, 0); ok {
		t.Fatal("remove should fail while themes are announced")
	}
	h.nextUntil(t, StageRoundTable)
	if got := h.e.Snapshot().Remaining; !reflect.DeepEqual(got, []Coordinate{{0, 0}}) {
		t.Fatalf("expected the fresh table of round 1, got %v", got)
	}
}

func TestRemovingLastQuestionFinishesRound(t *testing.T) {
	h := newHarness(t, gridDoc())
	h.nextUntil(t, StageRoundTable)

	h.e.RemoveQuestion(0, 0)
	h.e.RemoveQuestion(0, 1)
	if h.e.Stage() != StageRoundTable {
		t.Fatalf("expected %s, got %s", StageRoundTable, h.e.Stage())
	}
	h.e.RemoveQuestion(1, 0)
	if h.e.Stage() != StageEnd {
		t.Fatalf("expected %s after emptying the table, got %s", StageEnd, h.e.Stage())
	}
}

func TestRoundNavigationClearsHistory(t *testing.T) {
	doc := gridDoc()
	doc.Rounds = append(doc.Rounds, &pkgdoc.Round{Name: "R2", Themes: []*pkgdoc.Theme{
		{Name: "T2", Questions: []*pkgdoc.Question{question(300)}},
	}})
	h := newHarness(t, doc)
	h.nextUntil(t, StageRoundTable)
	_ = h.e.SelectQuestion(0, 0)

	if h.e.CanMoveBackRound() {
		t.Fatal("first round has no previous round")
	}
	if !h.e.MoveNextRound() {
		t.Fatal("should move to the next round")
	}
	snap := h.e.Snapshot()
	if snap.Stage != StageRound || snap.RoundIndex != 1 || len(snap.History) != 0 {
		t.Fatalf("unexpected state after MoveNextRound: %+v", snap)
	}
	if h.e.MoveNextRound() {
		t.Fatal("last round has no next round")
	}
	if !h.e.MoveBackRound() {
		t.Fatal("should move back a round")
	}
	if h.e.MoveToRound(2) || h.e.MoveToRound(-1) {
		t.Fatal("out of range rounds should be rejected")
	}
	if !h.e.MoveToRound(1) {
		t.Fatal("should move to round 1")
	}
	if h.e.Snapshot().RoundIndex != 1 {
		t.Fatalf("expected round 1, got %d", h.e.Snapshot().RoundIndex)
	}
}

// Package engine implements the classic-rules game flow: a stage machine that
// walks a question package round by round, tracks which questions and final
// themes remain, supports undo/redo of question selection and picks at random
// when nobody acts before a timer fires.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
	"github.com/rs/zerolog"
)

// Engine is safe for concurrent use. Commands and timer callbacks are serialised
// by a single mutex.
type Engine struct {
	mu sync.Mutex

	doc             *pkgdoc.Document
	notify          Notifier
	options         OptionsProvider
	questionEngines QuestionEngineFactory
	rand            Rand
	schedule        Scheduler
	pacing          Pacing
	log             zerolog.Logger

	stage    Stage
	handlers map[Stage]func()

	roundIndex    int
	themeIndex    int
	questionIndex int

	activeRound    *pkgdoc.Round
	activeTheme    *pkgdoc.Theme
	activeQuestion *pkgdoc.Question
	activeType     string

	questionEngine  QuestionEngine
	atomIndex       int
	useAnswerMarker bool

	questions coordSet
	themes    themeSet
	finalMap  []int
	history   coordStack
	forward   coordStack
	timeout   bool

	timer    Timer
	timerGen uint64
	closed   bool
}

// New creates an engine positioned at StageBegin. Call MoveNext to start.
func New(doc *pkgdoc.Document, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		doc:        doc,
		notify:     NopNotifier{},
		options:    StaticOptions(Options{ShowRightAnswer: true, PlaySpecials: true}),
		rand:       defaultRand(),
		schedule:   realScheduler,
		pacing:     DefaultPacing(),
		log:        zerolog.Nop(),
		stage:      StageBegin,
		roundIndex: -1,
		questions:  coordSet{},
		themes:     themeSet{},
	}
	for _, o := range opts {
		o(e)
	}
	e.handlers = map[Stage]func(){
		StageBegin:              e.onBegin,
		StageGameThemes:         e.onGameThemes,
		StageRound:              e.onRound,
		StageRoundThemes:        e.onRoundThemes,
		StageRoundTable:         e.onRoundTable,
		StageScore:              e.onScore,
		StageQuestion:           e.onQuestion,
		StageRightAnswer:        e.onRightAnswer,
		StageRightAnswerProceed: e.onRightAnswerProceed,
		StageQuestionPostInfo:   e.onQuestionPostInfo,
		StageEndQuestion:        e.onEndQuestion,
		StageFinalThemes:        e.onFinalThemes,
		StageWaitDelete:         e.onWaitDelete,
		StageAfterDelete:        e.onAfterDelete,
		StageFinalQuestion:      e.onFinalQuestion,
		StageFinalThink:         e.onFinalThink,
		StageRightFinalAnswer:   e.onRightFinalAnswer,
		StageAfterFinalThink:    e.onAfterFinalThink,
		StageEnd:                func() {},
	}
	return e, nil
}

// Document returns the package the engine plays.
func (e *Engine) Document() *pkgdoc.Document {
	return e.doc
}

// Stage returns the current stage.
func (e *Engine) Stage() Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage
}

// MoveNext performs the actions of the current stage.
func (e *Engine) MoveNext() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.moveNext()
	return nil
}

// SetTimeout marks the round time budget as spent. The round ends after the
// current question.
func (e *Engine) SetTimeout() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.timeout = true
	return nil
}

// Close stops pending timers. Every later command returns ErrClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.cancelTimer()
}

// CanSelectQuestion reports whether the round table waits for a pick.
func (e *Engine) CanSelectQuestion() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canSelectQuestion()
}

// CanSelectTheme reports whether a final theme can be eliminated now.
func (e *Engine) CanSelectTheme() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canSelectTheme()
}

// CanNext reports whether MoveNext would advance. The round table advances
// only when a selection waits on Forward.
func (e *Engine) CanNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canNext()
}

// CanMoveBack reports whether there is a selection to undo.
func (e *Engine) CanMoveBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && e.history.len() > 0
}

func (e *Engine) canSelectQuestion() bool {
	return !e.closed && e.stage == StageRoundTable && len(e.questions) > 0
}

func (e *Engine) canSelectTheme() bool {
	return !e.closed && e.stage == StageWaitDelete && len(e.themes) > 1
}

func (e *Engine) canNext() bool {
	if e.closed || e.stage == StageEnd || e.stage == StageWaitDelete {
		return false
	}
	return e.stage != StageRoundTable || e.forward.len() > 0
}

func (e *Engine) moveNext() {
	h, ok := e.handlers[e.stage]
	if !ok {
		e.log.Error().Str("stage", e.stage.String()).Msg("no handler for stage")
		return
	}
	h()
}

func (e *Engine) setStage(s Stage) {
	if s != e.stage {
		e.log.Debug().Str("from", e.stage.String()).Str("to", s.String()).Msg("stage")
	}
	e.stage = s
	e.cancelTimer()
}

// autoNext arms the single engine timer. Any previously armed timer is
// invalidated.
func (e *Engine) autoNext(d time.Duration) {
	e.cancelTimer()
	if e.closed {
		return
	}
	gen := e.timerGen
	e.timer = e.schedule(d, func() { e.fire(gen) })
}

func (e *Engine) cancelTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}

func (e *Engine) fire(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.timerGen {
		return
	}
	e.timer = nil
	e.onTimer()
}

// onTimer advances when the stage can advance on its own, otherwise makes the
// choice nobody made in time.
func (e *Engine) onTimer() {
	switch {
	case e.canNext():
		e.moveNext()
	case e.canSelectQuestion():
		items := e.questions.sorted()
		c := items[e.rand.Intn(len(items))]
		e.log.Debug().Stringer("coord", c).Msg("random question pick")
		e.selectQuestion(c)
	case e.canSelectTheme():
		items := e.themes.sorted()
		idx := items[e.rand.Intn(len(items))]
		e.log.Debug().Int("theme", idx).Msg("random theme pick")
		e.selectTheme(e.publicIndex(idx))
	}
}

func (e *Engine) setActiveRound() {
	e.activeRound = e.doc.Rounds[e.roundIndex]
}

func (e *Engine) setActiveThemeQuestion() {
	e.activeTheme = e.activeRound.Themes[e.themeIndex]
	e.activeQuestion = e.activeTheme.Questions[e.questionIndex]
}

func (e *Engine) current() Coordinate {
	return Coordinate{Theme: e.themeIndex, Question: e.questionIndex}
}

func (e *Engine) isFinalRound() bool {
	return e.activeRound != nil && e.activeRound.IsFinal()
}

package engine

import (
	"math/rand"
	"time"

	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
	"github.com/rs/zerolog"
)

// Options are the rule toggles read on every decision that depends on them.
type Options struct {
	ShowRightAnswer bool `json:"showRightAnswer"`
	PlaySpecials    bool `json:"playSpecials"`
}

// OptionsProvider returns the current rule toggles. It may return different
// values over the lifetime of a game.
type OptionsProvider func() Options

// StaticOptions returns a provider that always yields o.
func StaticOptions(o Options) OptionsProvider {
	return func() Options { return o }
}

// QuestionEngine plays a question's content one step at a time. PlayNext
// reports whether more content remains.
type QuestionEngine interface {
	PlayNext() bool
}

// QuestionEngineFactory creates a playback engine for a question, or returns nil
// to let the engine play the atoms itself.
type QuestionEngineFactory func(theme *pkgdoc.Theme, question *pkgdoc.Question) QuestionEngine

// Rand is the source for autonomous picks. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Timer is a cancellable pending callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler arms timers. The default wraps time.AfterFunc.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Pacing holds presentation delays between autonomous steps.
type Pacing struct {
	PackageIntro      time.Duration `env:"PACKAGE_INTRO" envDefault:"1s"`
	GameThemesBase    time.Duration `env:"GAME_THEMES_BASE" envDefault:"1s"`
	GameThemesPerItem time.Duration `env:"GAME_THEMES_PER_ITEM" envDefault:"833ms"`
	RoundIntro        time.Duration `env:"ROUND_INTRO" envDefault:"7s"`
	RoundThemesBase   time.Duration `env:"ROUND_THEMES_BASE" envDefault:"4s"`
	RoundThemesPer    time.Duration `env:"ROUND_THEMES_PER_THEME" envDefault:"1700ms"`
	SelectWait        time.Duration `env:"SELECT_WAIT" envDefault:"3s"`
	SpecialLeadIn     time.Duration `env:"SPECIAL_LEAD_IN" envDefault:"6s"`
	ReadyWait         time.Duration `env:"READY_WAIT" envDefault:"3s"`
	ContentPerChar    time.Duration `env:"CONTENT_PER_CHAR" envDefault:"50ms"`
	ContentMin        time.Duration `env:"CONTENT_MIN" envDefault:"1s"`
	QuestionThink     time.Duration `env:"QUESTION_THINK" envDefault:"5s"`
	AnswerReveal      time.Duration `env:"ANSWER_REVEAL" envDefault:"4s"`
	AnswerProceed     time.Duration `env:"ANSWER_PROCEED" envDefault:"4s"`
	PostInfo          time.Duration `env:"POST_INFO" envDefault:"3s"`
	Score             time.Duration `env:"SCORE" envDefault:"5s"`
	NextRound         time.Duration `env:"NEXT_ROUND" envDefault:"2s"`
	FinalThemesWait   time.Duration `env:"FINAL_THEMES_WAIT" envDefault:"2s"`
	DeleteWait        time.Duration `env:"DELETE_WAIT" envDefault:"4s"`
	FinalPrepare      time.Duration `env:"FINAL_PREPARE" envDefault:"4s"`
	FinalThink        time.Duration `env:"FINAL_THINK" envDefault:"38s"`
}

// DefaultPacing mirrors the envDefault tags above.
func DefaultPacing() Pacing {
	return Pacing{
		PackageIntro:      time.Second,
		GameThemesBase:    time.Second,
		GameThemesPerItem: 833 * time.Millisecond,
		RoundIntro:        7 * time.Second,
		RoundThemesBase:   4 * time.Second,
		RoundThemesPer:    1700 * time.Millisecond,
		SelectWait:        3 * time.Second,
		SpecialLeadIn:     6 * time.Second,
		ReadyWait:         3 * time.Second,
		ContentPerChar:    50 * time.Millisecond,
		ContentMin:        time.Second,
		QuestionThink:     5 * time.Second,
		AnswerReveal:      4 * time.Second,
		AnswerProceed:     4 * time.Second,
		PostInfo:          3 * time.Second,
		Score:             5 * time.Second,
		NextRound:         2 * time.Second,
		FinalThemesWait:   2 * time.Second,
		DeleteWait:        4 * time.Second,
		FinalPrepare:      4 * time.Second,
		FinalThink:        38 * time.Second,
	}
}

// contentDelay is the reveal time for a piece of question text.
func (p Pacing) contentDelay(text string) time.Duration {
	d := time.Duration(len([]rune(text))) * p.ContentPerChar
	if d < p.ContentMin {
		return p.ContentMin
	}
	return d
}

// atomDelay is the reveal time for one atom. Media atoms use their declared
// duration when present.
func (p Pacing) atomDelay(a pkgdoc.Atom) time.Duration {
	if a.IsText() {
		return p.contentDelay(a.Text)
	}
	if a.Duration > 0 {
		return time.Duration(a.Duration) * time.Second
	}
	return p.ContentMin
}

// Option configures an Engine.
type Option func(*Engine)

func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notify = n
		}
	}
}

func WithOptions(p OptionsProvider) Option {
	return func(e *Engine) {
		if p != nil {
			e.options = p
		}
	}
}

func WithQuestionEngines(f QuestionEngineFactory) Option {
	return func(e *Engine) { e.questionEngines = f }
}

func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rand = r
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.schedule = s
		}
	}
}

func WithPacing(p Pacing) Option {
	return func(e *Engine) { e.pacing = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func defaultRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

package engine

import "github.com/kiliankoe/tvquiz/internal/pkgdoc"

// Notifier receives one-way game events. Methods are called synchronously while
// the engine holds its lock, so implementations must not call back into the
// engine and should hand slow work off to another goroutine.
type Notifier interface {
	OnPackage(doc *pkgdoc.Document, logo string)
	OnGameThemes(themes []string)
	OnRound(index int, round *pkgdoc.Round)
	OnRoundThemes(themes []*pkgdoc.Theme)
	OnQuestionSelected(c Coordinate, theme *pkgdoc.Theme, question *pkgdoc.Question, typeName string)
	OnMoveToQuestion(final bool)
	OnQuestionAtom(question *pkgdoc.Question, atom pkgdoc.Atom, last bool)
	OnQuestionFinished()
	OnSimpleAnswer(answer string)
	OnQuestionPostInfo()
	OnEndQuestion(c Coordinate)
	OnNextQuestion()
	OnRoundTimeout()
	OnFinalThemes(themes []*pkgdoc.Theme)
	OnWaitDelete()
	OnThemeEliminated(publicIndex int)
	OnPrepareFinalQuestion(theme *pkgdoc.Theme, question *pkgdoc.Question)
	OnFinalThink(question *pkgdoc.Question)
	OnRoundEnded(index int)
	OnGameEnded()
}

// NopNotifier ignores every event. Embed it to implement only the events you need.
type NopNotifier struct{}

func (NopNotifier) OnPackage(*pkgdoc.Document, string)                                     {}
func (NopNotifier) OnGameThemes([]string)                                                  {}
func (NopNotifier) OnRound(int, *pkgdoc.Round)                                             {}
func (NopNotifier) OnRoundThemes([]*pkgdoc.Theme)                                          {}
func (NopNotifier) OnQuestionSelected(Coordinate, *pkgdoc.Theme, *pkgdoc.Question, string) {}
func (NopNotifier) OnMoveToQuestion(bool)                                                  {}
func (NopNotifier) OnQuestionAtom(*pkgdoc.Question, pkgdoc.Atom, bool)                     {}
func (NopNotifier) OnQuestionFinished()                                                    {}
func (NopNotifier) OnSimpleAnswer(string)                                                  {}
func (NopNotifier) OnQuestionPostInfo()                                                    {}
func (NopNotifier) OnEndQuestion(Coordinate)                                               {}
func (NopNotifier) OnNextQuestion()                                                        {}
func (NopNotifier) OnRoundTimeout()                                                        {}
func (NopNotifier) OnFinalThemes([]*pkgdoc.Theme)                                          {}
func (NopNotifier) OnWaitDelete()                                                          {}
func (NopNotifier) OnThemeEliminated(int)                                                  {}
func (NopNotifier) OnPrepareFinalQuestion(*pkgdoc.Theme, *pkgdoc.Question)                 {}
func (NopNotifier) OnFinalThink(*pkgdoc.Question)                                          {}
func (NopNotifier) OnRoundEnded(int)                                                       {}
func (NopNotifier) OnGameEnded()                                                           {}

package game

import (
	"github.com/kiliankoe/tvquiz/internal/engine"
	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
)

// sessionNotifier turns engine callbacks into journal events.
type sessionNotifier struct {
	s *SessionCtx
}

var _ engine.Notifier = sessionNotifier{}

func (n sessionNotifier) OnPackage(doc *pkgdoc.Document, logo string) {
	n.s.record(EventPackage, map[string]any{"name": doc.Name, "author": doc.Author, "logo": logo, "rounds": len(doc.Rounds)})
}

func (n sessionNotifier) OnGameThemes(themes []string) {
	n.s.record(EventGameThemes, map[string]any{"themes": themes})
}

func (n sessionNotifier) OnRound(index int, round *pkgdoc.Round) {
	if !round.IsFinal() {
		n.s.startRoundTimer()
	}
	n.s.record(EventRound, RoundPayload{Index: index, Name: round.Name, Final: round.IsFinal()})
}

func (n sessionNotifier) OnRoundThemes(themes []*pkgdoc.Theme) {
	n.s.record(EventRoundThemes, map[string]any{"themes": themeBoard(themes)})
}

func (n sessionNotifier) OnQuestionSelected(c engine.Coordinate, theme *pkgdoc.Theme, q *pkgdoc.Question, typeName string) {
	n.s.record(EventQuestionSelected, QuestionPayload{
		Theme:     c.Theme,
		Question:  c.Question,
		ThemeName: theme.Name,
		Price:     q.Price,
		Type:      typeName,
	})
}

func (n sessionNotifier) OnMoveToQuestion(final bool) {
	n.s.record(EventMoveToQuestion, map[string]any{"final": final})
}

func (n sessionNotifier) OnQuestionAtom(_ *pkgdoc.Question, atom pkgdoc.Atom, last bool) {
	typ := string(atom.Type)
	if atom.IsText() {
		typ = string(pkgdoc.AtomText)
	}
	n.s.record(EventQuestionAtom, AtomPayload{Type: typ, Text: atom.Text, Duration: atom.Duration, Last: last})
}

func (n sessionNotifier) OnQuestionFinished() { n.s.record(EventQuestionFinished, nil) }

func (n sessionNotifier) OnSimpleAnswer(answer string) {
	n.s.record(EventSimpleAnswer, map[string]any{"answer": answer})
}

func (n sessionNotifier) OnQuestionPostInfo() { n.s.record(EventQuestionPostInfo, nil) }

func (n sessionNotifier) OnEndQuestion(c engine.Coordinate) {
	n.s.record(EventEndQuestion, QuestionPayload{Theme: c.Theme, Question: c.Question})
}

func (n sessionNotifier) OnNextQuestion() { n.s.record(EventNextQuestion, nil) }
func (n sessionNotifier) OnRoundTimeout() { n.s.record(EventRoundTimeout, nil) }

func (n sessionNotifier) OnFinalThemes(themes []*pkgdoc.Theme) {
	names := make([]string, 0, len(themes))
	for _, t := range themes {
		names = append(names, t.Name)
	}
	n.s.record(EventFinalThemes, map[string]any{"themes": names})
}

func (n sessionNotifier) OnWaitDelete() { n.s.record(EventWaitDelete, nil) }

func (n sessionNotifier) OnThemeEliminated(publicIndex int) {
	n.s.record(EventThemeEliminated, map[string]any{"theme": publicIndex})
}

func (n sessionNotifier) OnPrepareFinalQuestion(theme *pkgdoc.Theme, q *pkgdoc.Question) {
	n.s.record(EventPrepareFinal, QuestionPayload{ThemeName: theme.Name, Price: q.Price, Type: q.TypeName()})
}

func (n sessionNotifier) OnFinalThink(*pkgdoc.Question) { n.s.record(EventFinalThink, nil) }

func (n sessionNotifier) OnRoundEnded(index int) {
	n.s.mu.Lock()
	n.s.stopRoundTimer()
	n.s.mu.Unlock()
	n.s.record(EventRoundEnded, map[string]any{"index": index})
}

func (n sessionNotifier) OnGameEnded() { n.s.record(EventGameEnded, nil) }

type boardTheme struct {
	Name   string `json:"name"`
	Prices []int  `json:"prices"`
}

// themeBoard lists the price grid of a round. Unplayable slots keep their
// position with pkgdoc.InvalidPrice.
func themeBoard(themes []*pkgdoc.Theme) []boardTheme {
	out := make([]boardTheme, 0, len(themes))
	for _, t := range themes {
		bt := boardTheme{Name: t.Name, Prices: make([]int, 0, len(t.Questions))}
		for _, q := range t.Questions {
			bt.Prices = append(bt.Prices, q.Price)
		}
		out = append(out, bt)
	}
	return out
}

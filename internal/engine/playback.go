package engine

import "github.com/kiliankoe/tvquiz/internal/pkgdoc"

// PlayMode is the result of one direct playback step.
type PlayMode int

const (
	MoreContent PlayMode = iota
	JustFinished
	AlreadyFinished
)

func (m PlayMode) String() string {
	switch m {
	case MoreContent:
		return "MoreContent"
	case JustFinished:
		return "JustFinished"
	case AlreadyFinished:
		return "AlreadyFinished"
	}
	return "PlayMode(?)"
}

// playQuestionAtom reveals the next atom of the active question. The first
// marker atom ends the question part; atoms after it are the right answer and
// are played by the answer stages.
func (e *Engine) playQuestionAtom() (PlayMode, pkgdoc.Atom) {
	atoms := e.activeQuestion.Atoms
	for e.atomIndex < len(atoms) && atoms[e.atomIndex].Type == pkgdoc.AtomMarker {
		e.atomIndex++
		if !e.useAnswerMarker {
			e.useAnswerMarker = true
			return AlreadyFinished, pkgdoc.Atom{}
		}
	}
	if e.atomIndex >= len(atoms) {
		return AlreadyFinished, pkgdoc.Atom{}
	}

	atom := atoms[e.atomIndex]
	e.atomIndex++
	last := e.atomIndex >= len(atoms) ||
		(!e.useAnswerMarker && atoms[e.atomIndex].Type == pkgdoc.AtomMarker)
	e.notify.OnQuestionAtom(e.activeQuestion, atom, last)
	if last {
		return JustFinished, atom
	}
	return MoreContent, atom
}

// resetPlayback prepares playback of the active question.
func (e *Engine) resetPlayback() {
	e.atomIndex = 0
	e.useAnswerMarker = false
	e.questionEngine = nil
	if e.questionEngines != nil {
		e.questionEngine = e.questionEngines(e.activeTheme, e.activeQuestion)
	}
}

package engine

import (
	"sort"
	"time"

	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
)

func (e *Engine) onBegin() {
	e.setStage(StageGameThemes)
	e.notify.OnPackage(e.doc, e.doc.Logo)
	e.autoNext(e.pacing.PackageIntro)
}

func (e *Engine) onGameThemes() {
	themes := []string{}
	for _, r := range e.doc.Rounds {
		if r.IsFinal() {
			continue
		}
		for _, t := range r.Themes {
			if t.HasQuestions() {
				themes = append(themes, t.Name)
			}
		}
	}
	sort.Strings(themes)
	e.notify.OnGameThemes(themes)

	if !e.moveNextRound() {
		e.endGame()
		return
	}
	e.autoNext(e.pacing.GameThemesBase + time.Duration(max(3, len(themes)))*e.pacing.GameThemesPerItem)
}

func (e *Engine) onRound() {
	e.history.clear()
	e.timeout = false
	e.notify.OnRound(e.roundIndex, e.activeRound)

	if e.activeRound.IsFinal() {
		e.setStage(StageFinalThemes)
	} else {
		e.setStage(StageRoundThemes)
	}
	e.autoNext(e.pacing.RoundIntro)
}

func (e *Engine) onRoundThemes() {
	e.questions.clear()
	for i, t := range e.activeRound.Themes {
		for j, q := range t.Questions {
			if q.IsValid() {
				e.questions.add(Coordinate{Theme: i, Question: j})
			}
		}
	}
	e.notify.OnRoundThemes(e.activeRound.Themes)

	if len(e.questions) == 0 {
		e.finishRound()
		return
	}
	e.setStage(StageRoundTable)
	e.autoNext(e.pacing.RoundThemesBase + time.Duration(len(e.activeRound.Themes))*e.pacing.RoundThemesPer)
}

// onRoundTable replays a selection undone by MoveBack. Without one the stage
// waits for SelectQuestion.
func (e *Engine) onRoundTable() {
	c, ok := e.forward.pop()
	if !ok {
		return
	}
	e.themeIndex, e.questionIndex = c.Theme, c.Question
	e.onQuestionSelected()
}

func (e *Engine) onScore() {
	if !e.moveNextRound() {
		e.endGame()
		return
	}
	e.autoNext(e.pacing.NextRound)
}

func (e *Engine) onQuestion() {
	if e.questionEngine != nil {
		if e.questionEngine.PlayNext() {
			e.autoNext(e.pacing.contentDelay(e.activeQuestion.ScenarioText()))
			return
		}
		e.notify.OnQuestionFinished()
		e.setStage(StageRightAnswer)
		e.moveNext()
		return
	}

	mode, atom := e.playQuestionAtom()
	switch mode {
	case AlreadyFinished:
		e.notify.OnQuestionFinished()
		e.setStage(StageRightAnswer)
		e.moveNext()
	case JustFinished:
		e.autoNext(e.pacing.QuestionThink)
	default:
		e.autoNext(e.pacing.atomDelay(atom))
	}
}

func (e *Engine) onRightAnswer() {
	if e.useAnswerMarker {
		e.proceedAnswer()
		return
	}
	if e.options().ShowRightAnswer {
		e.notify.OnSimpleAnswer(firstRight(e.activeQuestion))
		e.setStage(StageQuestionPostInfo)
		e.autoNext(e.pacing.AnswerReveal)
		return
	}
	e.setStage(StageQuestionPostInfo)
	e.moveNext()
}

func (e *Engine) onRightAnswerProceed() {
	e.proceedAnswer()
}

// proceedAnswer plays the answer atoms that follow the marker, one per call.
func (e *Engine) proceedAnswer() {
	mode, _ := e.playQuestionAtom()
	if mode == AlreadyFinished {
		e.notify.OnQuestionFinished()
		e.setStage(StageQuestionPostInfo)
		e.moveNext()
		return
	}
	e.setStage(StageRightAnswerProceed)
	e.autoNext(e.pacing.AnswerProceed)
}

func (e *Engine) onQuestionPostInfo() {
	e.notify.OnQuestionPostInfo()
	if e.isFinalRound() {
		e.setStage(StageAfterFinalThink)
	} else {
		e.setStage(StageEndQuestion)
	}
	e.autoNext(e.pacing.PostInfo)
}

func (e *Engine) onEndQuestion() {
	e.notify.OnEndQuestion(e.current())

	switch {
	case e.timeout:
		e.notify.OnRoundTimeout()
		e.finishRound()
	case len(e.questions) > 0:
		e.setStage(StageRoundTable)
		e.notify.OnNextQuestion()
		e.autoNext(e.pacing.SelectWait)
	default:
		e.finishRound()
	}
}

// finishRound closes the active round. The game ends when it was the last one.
func (e *Engine) finishRound() {
	e.notify.OnRoundEnded(e.roundIndex)
	if e.roundIndex+1 >= len(e.doc.Rounds) {
		e.endGame()
		return
	}
	e.setStage(StageScore)
	e.autoNext(e.pacing.Score)
}

func (e *Engine) endGame() {
	e.setStage(StageEnd)
	e.notify.OnGameEnded()
}

func firstRight(q *pkgdoc.Question) string {
	if len(q.Right) > 0 {
		return q.Right[0]
	}
	return "-"
}

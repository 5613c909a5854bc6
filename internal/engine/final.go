package engine

import "github.com/kiliankoe/tvquiz/internal/pkgdoc"

func (e *Engine) onFinalThemes() {
	e.themes.clear()
	e.finalMap = e.finalMap[:0]
	selected := []*pkgdoc.Theme{}
	for i, t := range e.activeRound.Themes {
		if t.Name != "" && t.HasQuestions() {
			e.themes.add(i)
			e.finalMap = append(e.finalMap, i)
			selected = append(selected, t)
		}
	}
	e.notify.OnFinalThemes(selected)

	switch len(selected) {
	case 0:
		e.setStage(StageAfterFinalThink)
		e.moveNext()
	case 1:
		e.prepareFinalQuestion()
		e.autoNext(e.pacing.FinalPrepare)
	default:
		e.setStage(StageWaitDelete)
		e.notify.OnWaitDelete()
		e.autoNext(e.pacing.FinalThemesWait)
	}
}

func (e *Engine) onWaitDelete() {
	e.notify.OnWaitDelete()
	e.autoNext(e.pacing.DeleteWait)
}

func (e *Engine) onAfterDelete() {
	e.completeElimination()
}

// SelectTheme eliminates the final theme shown at publicIndex. While the final
// question plays it acts as a continue signal.
func (e *Engine) SelectTheme(publicIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.stage == StageFinalQuestion {
		e.moveNext()
		return nil
	}
	if e.stage != StageWaitDelete {
		return ErrInvalidStage
	}
	if publicIndex < 0 || publicIndex >= len(e.finalMap) || !e.themes.has(e.finalMap[publicIndex]) {
		return ErrUnavailable
	}
	e.selectTheme(publicIndex)
	return nil
}

func (e *Engine) selectTheme(publicIndex int) {
	e.setStage(StageAfterDelete)
	e.themeIndex = e.finalMap[publicIndex]
	e.questionIndex = 0
	e.setActiveThemeQuestion()

	e.notify.OnThemeEliminated(publicIndex)
	e.autoNext(e.pacing.ReadyWait)
}

// completeElimination removes the picked theme. When one theme is left its
// question is prepared, otherwise the next elimination is awaited.
func (e *Engine) completeElimination() (int, bool) {
	removed := e.themeIndex
	e.themes.remove(removed)

	more := false
	if len(e.themes) == 1 {
		e.prepareFinalQuestion()
	} else {
		e.setStage(StageWaitDelete)
		e.notify.OnWaitDelete()
		more = true
	}
	e.autoNext(e.pacing.DeleteWait)
	return removed, more
}

func (e *Engine) prepareFinalQuestion() {
	e.themeIndex = e.themes.sorted()[0]
	e.questionIndex = 0
	e.setActiveThemeQuestion()
	e.activeType = e.activeQuestion.TypeName()
	e.resetPlayback()

	e.setStage(StageFinalQuestion)
	e.notify.OnPrepareFinalQuestion(e.activeTheme, e.activeQuestion)
	e.notify.OnMoveToQuestion(true)
}

func (e *Engine) onFinalQuestion() {
	if e.questionEngine != nil {
		if e.questionEngine.PlayNext() {
			e.autoNext(e.pacing.contentDelay(e.activeQuestion.ScenarioText()))
			return
		}
		e.notify.OnQuestionFinished()
		e.setStage(StageFinalThink)
		e.moveNext()
		return
	}

	mode, atom := e.playQuestionAtom()
	if mode == AlreadyFinished {
		e.notify.OnQuestionFinished()
		e.setStage(StageFinalThink)
		e.moveNext()
		return
	}
	e.autoNext(e.pacing.atomDelay(atom))
}

func (e *Engine) onFinalThink() {
	if e.options().ShowRightAnswer || e.useAnswerMarker {
		e.setStage(StageRightFinalAnswer)
	} else {
		e.setStage(StageQuestionPostInfo)
	}
	e.notify.OnFinalThink(e.activeQuestion)
	e.autoNext(e.pacing.FinalThink)
}

func (e *Engine) onRightFinalAnswer() {
	if e.useAnswerMarker {
		e.proceedAnswer()
		return
	}
	e.notify.OnSimpleAnswer(firstRight(e.activeQuestion))
	e.setStage(StageQuestionPostInfo)
	e.autoNext(e.pacing.AnswerReveal)
}

func (e *Engine) onAfterFinalThink() {
	e.finishRound()
}

// publicIndex maps a document theme index back to its position in the final
// theme list shown to players.
func (e *Engine) publicIndex(themeIndex int) int {
	for i, idx := range e.finalMap {
		if idx == themeIndex {
			return i
		}
	}
	return -1
}

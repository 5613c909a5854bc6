package engine

import "github.com/kiliankoe/tvquiz/internal/pkgdoc"

// SelectQuestion plays the question at (theme, question). It is accepted only
// while the round table waits for a choice and the question is still open.
func (e *Engine) SelectQuestion(theme, question int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.stage != StageRoundTable {
		return ErrInvalidStage
	}
	c := Coordinate{Theme: theme, Question: question}
	if !e.questions.has(c) {
		return ErrUnavailable
	}
	e.selectQuestion(c)
	return nil
}

func (e *Engine) selectQuestion(c Coordinate) {
	e.themeIndex, e.questionIndex = c.Theme, c.Question
	e.forward.clear()
	e.onQuestionSelected()
}

// onQuestionSelected is shared by fresh selections and Forward replays.
func (e *Engine) onQuestionSelected() {
	e.setActiveThemeQuestion()
	c := e.current()

	e.history.push(c)
	e.questions.remove(c)

	e.activeType = e.activeQuestion.TypeName()
	if e.activeType != pkgdoc.QuestionSimple && !e.options().PlaySpecials {
		e.activeType = pkgdoc.QuestionSimple
	}
	e.resetPlayback()

	e.setStage(StageQuestion)
	e.notify.OnQuestionSelected(c, e.activeTheme, e.activeQuestion, e.activeType)
	e.notify.OnMoveToQuestion(false)

	if e.activeType != pkgdoc.QuestionSimple {
		e.autoNext(e.pacing.SpecialLeadIn)
	} else {
		e.autoNext(e.pacing.ReadyWait)
	}
}

// MoveBack undoes the latest question selection. The returned price lets the
// caller reverse any score change it applied for that question.
func (e *Engine) MoveBack() (Coordinate, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return Coordinate{}, 0, ErrClosed
	}
	c, ok := e.history.pop()
	if !ok {
		return Coordinate{}, 0, ErrEmptyHistory
	}
	e.forward.push(c)

	if e.stage == StageRound && e.roundIndex > 0 {
		e.roundIndex--
		e.setActiveRound()
	}

	e.questions.add(c)
	e.setStage(StageRoundTable)
	e.autoNext(e.pacing.SelectWait)

	return c, e.activeRound.Themes[c.Theme].Questions[c.Question].Price, nil
}

// OnReady is the generic continue signal. In the question stage of a simple
// question it advances; after a final theme was picked it performs the
// elimination and returns the removed theme index and whether more eliminations
// follow. Everywhere else it returns -1.
func (e *Engine) OnReady() (int, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return -1, false, ErrClosed
	}
	switch e.stage {
	case StageQuestion:
		if e.activeType == pkgdoc.QuestionSimple {
			e.moveNext()
		}
	case StageAfterDelete:
		idx, more := e.completeElimination()
		return idx, more, nil
	}
	return -1, false, nil
}

// RemoveQuestion takes a question out of the active round table. It reports
// the question price and whether the question was open.
func (e *Engine) RemoveQuestion(theme, question int) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.validQuestion(theme, question)
	if q == nil {
		return 0, false
	}
	c := Coordinate{Theme: theme, Question: question}
	if !e.questions.remove(c) {
		return 0, false
	}
	e.forward.drop(c)
	if e.stage == StageRoundTable && len(e.questions) == 0 && e.forward.len() == 0 {
		e.finishRound()
	}
	return q.Price, true
}

// RestoreQuestion puts a question back on the active round table.
func (e *Engine) RestoreQuestion(theme, question int) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.validQuestion(theme, question)
	if q == nil {
		return 0, false
	}
	e.questions.add(Coordinate{Theme: theme, Question: question})
	return q.Price, true
}

// validQuestion resolves a question of the active round table. Outside the
// table stages the table still holds the previous round or is about to be
// rebuilt, so nothing resolves there.
func (e *Engine) validQuestion(theme, question int) *pkgdoc.Question {
	if e.closed || e.activeRound == nil || e.activeRound.IsFinal() || !e.tableStage() {
		return nil
	}
	q := e.activeRound.Question(theme, question)
	if q == nil || !q.IsValid() {
		return nil
	}
	return q
}

func (e *Engine) tableStage() bool {
	switch e.stage {
	case StageRoundTable, StageQuestion, StageRightAnswer, StageRightAnswerProceed,
		StageQuestionPostInfo, StageEndQuestion:
		return true
	}
	return false
}

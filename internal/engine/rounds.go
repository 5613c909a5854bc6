package engine

// MoveNextRound jumps to the next round. History and Forward are cleared on
// success; the coordinates they hold belong to the round being left.
func (e *Engine) MoveNextRound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.moveNextRound() {
		return false
	}
	e.autoNext(e.pacing.NextRound)
	return true
}

// MoveToRound jumps to the round at index.
func (e *Engine) MoveToRound(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || index < 0 || index >= len(e.doc.Rounds) {
		return false
	}
	e.roundIndex = index
	e.enterRound()
	e.autoNext(e.pacing.NextRound)
	return true
}

// MoveBackRound jumps to the previous round.
func (e *Engine) MoveBackRound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.roundIndex <= 0 {
		return false
	}
	e.roundIndex--
	e.enterRound()
	e.autoNext(e.pacing.NextRound)
	return true
}

// CanMoveNextRound reports whether a later round exists.
func (e *Engine) CanMoveNextRound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && e.roundIndex+1 < len(e.doc.Rounds)
}

// CanMoveBackRound reports whether an earlier round exists.
func (e *Engine) CanMoveBackRound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && e.roundIndex > 0
}

func (e *Engine) moveNextRound() bool {
	if e.roundIndex+1 >= len(e.doc.Rounds) {
		return false
	}
	e.roundIndex++
	e.enterRound()
	return true
}

func (e *Engine) enterRound() {
	e.setActiveRound()
	e.history.clear()
	e.forward.clear()
	e.setStage(StageRound)
}

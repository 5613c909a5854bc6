package engine

// Snapshot is a point-in-time copy of the engine state.
type Snapshot struct {
	Stage           Stage        `json:"stage"`
	RoundIndex      int          `json:"roundIndex"`
	ThemeIndex      int          `json:"themeIndex"`
	QuestionIndex   int          `json:"questionIndex"`
	QuestionType    string       `json:"questionType,omitempty"`
	Remaining       []Coordinate `json:"remaining"`
	ThemesRemaining []int        `json:"themesRemaining"`
	FinalMap        []int        `json:"finalMap"`
	History         []Coordinate `json:"history"`
	Forward         []Coordinate `json:"forward"`
	Timeout         bool         `json:"timeout"`

	CanNext           bool `json:"canNext"`
	CanMoveBack       bool `json:"canMoveBack"`
	CanSelectQuestion bool `json:"canSelectQuestion"`
	CanSelectTheme    bool `json:"canSelectTheme"`
	CanMoveNextRound  bool `json:"canMoveNextRound"`
	CanMoveBackRound  bool `json:"canMoveBackRound"`
	Closed            bool `json:"closed"`
}

// Snapshot copies the current state. Sets come out sorted.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Stage:             e.stage,
		RoundIndex:        e.roundIndex,
		ThemeIndex:        e.themeIndex,
		QuestionIndex:     e.questionIndex,
		QuestionType:      e.activeType,
		Remaining:         e.questions.sorted(),
		ThemesRemaining:   e.themes.sorted(),
		FinalMap:          append([]int{}, e.finalMap...),
		History:           e.history.items(),
		Forward:           e.forward.items(),
		Timeout:           e.timeout,
		CanNext:           e.canNext(),
		CanMoveBack:       !e.closed && e.history.len() > 0,
		CanSelectQuestion: e.canSelectQuestion(),
		CanSelectTheme:    e.canSelectTheme(),
		CanMoveNextRound:  !e.closed && e.roundIndex+1 < len(e.doc.Rounds),
		CanMoveBackRound:  !e.closed && e.roundIndex > 0,
		Closed:            e.closed,
	}
}

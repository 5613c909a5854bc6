package game

import (
	"github.com/kiliankoe/tvquiz/internal/engine"
)

// Next advances the game flow. Host only.
func (s *SessionCtx) Next(hostToken string) error {
	if !s.isHost(hostToken) {
		return ErrNotHost
	}
	return s.engine.MoveNext()
}

// MoveBack undoes the latest question selection. Host only.
func (s *SessionCtx) MoveBack(hostToken string) (engine.Coordinate, int, error) {
	if !s.isHost(hostToken) {
		return engine.Coordinate{}, 0, ErrNotHost
	}
	c, price, err := s.engine.MoveBack()
	if err != nil {
		return c, price, err
	}
	s.record(EventSelectionUndone, QuestionPayload{Theme: c.Theme, Question: c.Question, Price: price})
	return c, price, nil
}

// SelectQuestion picks a question from the round table. Any member may pick.
func (s *SessionCtx) SelectQuestion(token string, theme, question int) error {
	if !s.isMember(token) {
		return ErrUnauthorized
	}
	return s.engine.SelectQuestion(theme, question)
}

// SelectTheme eliminates a final theme. Any member may pick.
func (s *SessionCtx) SelectTheme(token string, publicIndex int) error {
	if !s.isMember(token) {
		return ErrUnauthorized
	}
	return s.engine.SelectTheme(publicIndex)
}

// Ready signals that the presenter is done with the current step.
func (s *SessionCtx) Ready(token string) error {
	if !s.isMember(token) {
		return ErrUnauthorized
	}
	theme, more, err := s.engine.OnReady()
	if err != nil {
		return err
	}
	if theme >= 0 {
		s.record(EventThemeRemoved, ThemeRemovedPayload{Theme: theme, More: more})
	}
	return nil
}

// JumpRound moves to the next (delta 1), previous (delta -1) round or, with
// delta 0, to the round at index. Host only.
func (s *SessionCtx) JumpRound(hostToken string, delta, index int) error {
	if !s.isHost(hostToken) {
		return ErrNotHost
	}
	var ok bool
	switch {
	case delta > 0:
		ok = s.engine.MoveNextRound()
	case delta < 0:
		ok = s.engine.MoveBackRound()
	default:
		ok = s.engine.MoveToRound(index)
	}
	if !ok {
		return engine.ErrNoRound
	}
	return nil
}

// RemoveQuestion takes a question off the table. Host only.
func (s *SessionCtx) RemoveQuestion(hostToken string, theme, question int) error {
	if !s.isHost(hostToken) {
		return ErrNotHost
	}
	price, ok := s.engine.RemoveQuestion(theme, question)
	if !ok {
		return engine.ErrUnavailable
	}
	s.record(EventQuestionRemoved, QuestionPayload{Theme: theme, Question: question, Price: price})
	return nil
}

// RestoreQuestion puts a question back on the table. Host only.
func (s *SessionCtx) RestoreQuestion(hostToken string, theme, question int) error {
	if !s.isHost(hostToken) {
		return ErrNotHost
	}
	price, ok := s.engine.RestoreQuestion(theme, question)
	if !ok {
		return engine.ErrUnavailable
	}
	s.record(EventQuestionRestored, QuestionPayload{Theme: theme, Question: question, Price: price})
	return nil
}

// Timeout ends the round after the current question. Host only.
func (s *SessionCtx) Timeout(hostToken string) error {
	if !s.isHost(hostToken) {
		return ErrNotHost
	}
	return s.engine.SetTimeout()
}

// SetRules changes the rule toggles. They apply from the next decision on.
func (s *SessionCtx) SetRules(hostToken string, showRightAnswer, playSpecials bool) error {
	if !s.isHost(hostToken) {
		return ErrNotHost
	}
	s.mu.Lock()
	s.Config.ShowRightAnswer = showRightAnswer
	s.Config.PlaySpecials = playSpecials
	s.mu.Unlock()
	return nil
}

// State is the view of a session sent to clients.
type State struct {
	SessionCode string          `json:"sessionCode"`
	Package     string          `json:"package"`
	Config      SessionConfig   `json:"config"`
	Players     []*Player       `json:"players"`
	Game        engine.Snapshot `json:"game"`
	LastEvent   int             `json:"lastEvent"`
}

func (s *SessionCtx) State() State {
	game := s.engine.Snapshot()
	players := s.Players()
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		SessionCode: s.Code,
		Package:     s.engine.Document().Name,
		Config:      s.Config,
		Players:     players,
		Game:        game,
		LastEvent:   len(s.journal),
	}
}

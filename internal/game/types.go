package game

import (
	"time"

	"github.com/google/uuid"
)

type SessionConfig struct {
	Package         string `json:"package"`
	ShowRightAnswer bool   `json:"showRightAnswer"`
	PlaySpecials    bool   `json:"playSpecials"`
	RoundTime       int    `json:"roundTime"` // seconds, 0 disables the round budget
}

type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsHost   bool      `json:"isHost"`
	JoinedAt time.Time `json:"joinedAt"`
}

// EventType names a game event in the session journal and on the wire.
type EventType string

const (
	EventPackage          EventType = "package"
	EventGameThemes       EventType = "gameThemes"
	EventRound            EventType = "round"
	EventRoundThemes      EventType = "roundThemes"
	EventQuestionSelected EventType = "questionSelected"
	EventMoveToQuestion   EventType = "moveToQuestion"
	EventQuestionAtom     EventType = "questionAtom"
	EventQuestionFinished EventType = "questionFinished"
	EventSimpleAnswer     EventType = "simpleAnswer"
	EventQuestionPostInfo EventType = "questionPostInfo"
	EventEndQuestion      EventType = "endQuestion"
	EventNextQuestion     EventType = "nextQuestion"
	EventRoundTimeout     EventType = "roundTimeout"
	EventFinalThemes      EventType = "finalThemes"
	EventWaitDelete       EventType = "waitDelete"
	EventThemeEliminated  EventType = "themeEliminated"
	EventPrepareFinal     EventType = "prepareFinalQuestion"
	EventFinalThink       EventType = "finalThink"
	EventRoundEnded       EventType = "roundEnded"
	EventGameEnded        EventType = "gameEnded"
	EventPlayerJoined     EventType = "playerJoined"
	EventQuestionRemoved  EventType = "questionRemoved"
	EventQuestionRestored EventType = "questionRestored"
	EventSelectionUndone  EventType = "selectionUndone"
	EventThemeRemoved     EventType = "themeRemoved"
)

type Event struct {
	ID      string    `json:"id"`
	Seq     int       `json:"seq"`
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

func newEvent(seq int, t EventType, payload any) Event {
	return Event{ID: uuid.NewString(), Seq: seq, Type: t, Payload: payload, At: time.Now().UTC()}
}

// Payloads carried by events. Field names are part of the client protocol.

type QuestionPayload struct {
	Theme     int    `json:"theme"`
	Question  int    `json:"question"`
	ThemeName string `json:"themeName"`
	Price     int    `json:"price"`
	Type      string `json:"type"`
}

type AtomPayload struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Duration int    `json:"duration,omitempty"`
	Last     bool   `json:"last"`
}

type RoundPayload struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Final bool   `json:"final"`
}

type ThemeRemovedPayload struct {
	Theme int  `json:"theme"`
	More  bool `json:"more"`
}

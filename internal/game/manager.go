package game

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiliankoe/tvquiz/internal/engine"
	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
	"github.com/kiliankoe/tvquiz/internal/random"
	"github.com/rs/zerolog"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotHost         = errors.New("not host")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrPackageNotFound = pkgdoc.ErrPackageNotFound
)

// Broadcaster delivers session events to connected clients.
type Broadcaster func(code string, ev Event)

type SessionCtx struct {
	Code      string
	CreatedAt time.Time
	Config    SessionConfig

	HostToken string

	PlayersByToken map[string]*Player
	PlayersByID    map[string]*Player

	engine *engine.Engine

	journal     []Event
	exportedSeq int
	roundTimer  engine.Timer
	roundGen    int

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	rm  *RoomManager
	log zerolog.Logger

	mu sync.Mutex
}

type RoomManager struct {
	mu        sync.RWMutex
	sessions  map[string]*SessionCtx
	active    string // active session code when in single-session mode
	single    bool
	export    string
	pacing    engine.Pacing
	schedule  engine.Scheduler
	broadcast Broadcaster
	log       zerolog.Logger
}

type ManagerOption func(*RoomManager)

// WithSingleSession closes the previous session whenever a new one is created.
func WithSingleSession(single bool) ManagerOption {
	return func(rm *RoomManager) { rm.single = single }
}

// WithExport appends a text summary of every finished round to file.
func WithExport(file string) ManagerOption {
	return func(rm *RoomManager) { rm.export = file }
}

func WithPacing(p engine.Pacing) ManagerOption {
	return func(rm *RoomManager) { rm.pacing = p }
}

// WithScheduler replaces the timer source of engines and round budgets.
func WithScheduler(s engine.Scheduler) ManagerOption {
	return func(rm *RoomManager) { rm.schedule = s }
}

func WithLogger(l zerolog.Logger) ManagerOption {
	return func(rm *RoomManager) { rm.log = l }
}

func NewRoomManager(opts ...ManagerOption) *RoomManager {
	rm := &RoomManager{
		sessions: make(map[string]*SessionCtx),
		pacing:   engine.DefaultPacing(),
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(rm)
	}
	if rm.schedule == nil {
		rm.schedule = func(d time.Duration, f func()) engine.Timer { return time.AfterFunc(d, f) }
	}
	return rm
}

// SetBroadcaster wires the transport that receives session events.
func (rm *RoomManager) SetBroadcaster(b Broadcaster) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.broadcast = b
}

func (rm *RoomManager) broadcaster() Broadcaster {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.broadcast
}

func (rm *RoomManager) CreateSession(doc *pkgdoc.Document, cfg SessionConfig) (code string, hostToken string, err error) {
	seed, err := random.NewSeed()
	if err != nil {
		return "", "", err
	}

	rm.mu.Lock()
	code = randomCode(5)
	for rm.sessions[code] != nil {
		code = randomCode(5)
	}
	hostToken = uuid.NewString()
	s := &SessionCtx{
		Code:           code,
		CreatedAt:      time.Now().UTC(),
		Config:         cfg,
		HostToken:      hostToken,
		PlayersByToken: make(map[string]*Player),
		PlayersByID:    make(map[string]*Player),
		events:         make(chan Event, 256),
		done:           make(chan struct{}),
		rm:             rm,
		log:            rm.log.With().Str("session", code).Logger(),
	}
	e, err := engine.New(doc,
		engine.WithNotifier(sessionNotifier{s}),
		engine.WithOptions(s.options),
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithScheduler(rm.schedule),
		engine.WithPacing(rm.pacing),
		engine.WithLogger(s.log),
	)
	if err != nil {
		rm.mu.Unlock()
		return "", "", err
	}
	s.engine = e

	var previous *SessionCtx
	if rm.single && rm.active != "" {
		previous = rm.sessions[rm.active]
		delete(rm.sessions, rm.active)
	}
	rm.sessions[code] = s
	rm.active = code
	rm.mu.Unlock()

	if previous != nil {
		previous.Close()
		rm.log.Info().Str("code", previous.Code).Msg("closed previous session")
	}
	go s.eventLoop()
	return code, hostToken, nil
}

func (rm *RoomManager) Get(code string) (*SessionCtx, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	s := rm.sessions[code]
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (rm *RoomManager) Active() (string, *SessionCtx) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	if rm.active == "" {
		return "", nil
	}
	return rm.active, rm.sessions[rm.active]
}

// Remove closes the session and forgets it.
func (rm *RoomManager) Remove(code string) error {
	rm.mu.Lock()
	s := rm.sessions[code]
	if s == nil {
		rm.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(rm.sessions, code)
	if rm.active == code {
		rm.active = ""
	}
	rm.mu.Unlock()
	s.Close()
	return nil
}

// Close shuts down every session.
func (rm *RoomManager) Close() {
	rm.mu.Lock()
	sessions := make([]*SessionCtx, 0, len(rm.sessions))
	for _, s := range rm.sessions {
		sessions = append(sessions, s)
	}
	rm.sessions = make(map[string]*SessionCtx)
	rm.active = ""
	rm.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

func (s *SessionCtx) Join(name string) (playerID, playerToken string) {
	s.mu.Lock()
	p := &Player{ID: uuid.NewString(), Name: name, IsHost: false, JoinedAt: time.Now().UTC()}
	token := uuid.NewString()
	s.PlayersByToken[token] = p
	s.PlayersByID[p.ID] = p
	s.mu.Unlock()

	s.record(EventPlayerJoined, Player{ID: p.ID, Name: p.Name, JoinedAt: p.JoinedAt})
	return p.ID, token
}

func (s *SessionCtx) Players() []*Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Player, 0, len(s.PlayersByID))
	for _, p := range s.PlayersByID {
		out = append(out, &Player{ID: p.ID, Name: p.Name, IsHost: p.IsHost, JoinedAt: p.JoinedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out
}

func (s *SessionCtx) GetPlayerIDByToken(token string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.PlayersByToken[token]
	if p == nil {
		return ""
	}
	return p.ID
}

// Engine returns the game flow driven by this session.
func (s *SessionCtx) Engine() *engine.Engine {
	return s.engine
}

// Journal returns the events recorded so far, oldest first.
func (s *SessionCtx) Journal() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.journal...)
}

// Close stops the engine, the round budget and the event loop.
func (s *SessionCtx) Close() {
	s.closeOnce.Do(func() {
		s.engine.Close()
		s.mu.Lock()
		s.stopRoundTimer()
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *SessionCtx) options() engine.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.Options{ShowRightAnswer: s.Config.ShowRightAnswer, PlaySpecials: s.Config.PlaySpecials}
}

func (s *SessionCtx) isHost(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token != "" && token == s.HostToken
}

func (s *SessionCtx) isMember(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token != "" && (token == s.HostToken || s.PlayersByToken[token] != nil)
}

// record appends an event to the journal and queues it for broadcast. It is
// called while the engine holds its lock and must not call back into it.
func (s *SessionCtx) record(t EventType, payload any) {
	s.mu.Lock()
	ev := newEvent(len(s.journal)+1, t, payload)
	s.journal = append(s.journal, ev)
	s.mu.Unlock()
	s.queueEvent(ev)
}

func (s *SessionCtx) queueEvent(ev Event) {
	select {
	case <-s.done:
	case s.events <- ev:
	default:
		s.log.Warn().Str("type", string(ev.Type)).Msg("event queue full, dropping event")
	}
}

func (s *SessionCtx) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			if b := s.rm.broadcaster(); b != nil {
				b(s.Code, ev)
			}
			if (ev.Type == EventRoundEnded || ev.Type == EventGameEnded) && s.rm.export != "" {
				if err := ExportSession(s, s.rm.export); err != nil {
					s.log.Error().Err(err).Msg("failed to export game data")
				} else {
					s.log.Info().Str("file", s.rm.export).Msg("exported game data")
				}
			}
		}
	}
}

// startRoundTimer arms the round budget. When it runs out the round ends after
// the current question.
func (s *SessionCtx) startRoundTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRoundTimer()
	if s.Config.RoundTime <= 0 {
		return
	}
	gen := s.roundGen
	s.roundTimer = s.rm.schedule(time.Duration(s.Config.RoundTime)*time.Second, func() {
		s.mu.Lock()
		current := gen == s.roundGen
		s.mu.Unlock()
		if !current {
			return
		}
		if err := s.engine.SetTimeout(); err == nil {
			s.log.Info().Msg("round time is up")
		}
	})
}

func (s *SessionCtx) stopRoundTimer() {
	if s.roundTimer != nil {
		s.roundTimer.Stop()
		s.roundTimer = nil
	}
	s.roundGen++
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

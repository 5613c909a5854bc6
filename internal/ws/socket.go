package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/tvquiz/internal/config"
	"github.com/kiliankoe/tvquiz/internal/engine"
	"github.com/kiliankoe/tvquiz/internal/game"
	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
	"github.com/rs/zerolog/log"
)

type ConnCtx struct {
	Code  string
	Token string
	Role  string // "host" | "player"
}

type Server struct {
	RM      *game.RoomManager
	Library pkgdoc.Library

	mu      sync.Mutex
	members map[string]map[string]socketio.Conn // sessionCode -> socketID -> Conn
	io      *socketio.Server
	config  config.Config
}

func New(rm *game.RoomManager, lib pkgdoc.Library, cfg config.Config) *Server {
	return &Server{RM: rm, Library: lib, members: make(map[string]map[string]socketio.Conn), config: cfg}
}

// SessionDefaults is the session config used when a client does not send one.
func SessionDefaults(cfg config.Config) game.SessionConfig {
	return game.SessionConfig{
		ShowRightAnswer: cfg.ShowRightAnswer,
		PlaySpecials:    cfg.PlaySpecials,
		RoundTime:       roundSeconds(cfg.RoundTime),
	}
}

// roundSeconds converts a round budget to whole seconds, rounding up so that a
// short budget never turns into "disabled".
func roundSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

var errCreateDisabled = errors.New("sessions are created through the host interface")

// CreateRequest names a package from the library or carries one inline.
type CreateRequest struct {
	PackageName string              `json:"packageName"`
	Package     *pkgdoc.Document    `json:"package"`
	Config      *game.SessionConfig `json:"config"`
}

type resumePayload struct {
	SessionCode string `json:"sessionCode"`
	Role        string `json:"role"`
	Token       string `json:"token"`
	LastEvent   int    `json:"lastEvent"`
}

type coordPayload struct {
	Theme    int `json:"theme"`
	Question int `json:"question"`
}

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.io = io
	srv.RM.SetBroadcaster(srv.broadcast)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// game:create (host)
	io.OnEvent("/", "game:create", func(s socketio.Conn, payload CreateRequest) map[string]any {
		code, hostToken, err := srv.createSession(payload)
		if err != nil {
			return srv.commandErr(s, err)
		}
		s.SetContext(&ConnCtx{Code: code, Token: hostToken, Role: "host"})
		s.Join(code)
		srv.addMember(code, s)
		log.Info().Str("sid", s.ID()).Str("code", code).Msg("game:create")
		srv.emitStateTo(code)
		return map[string]any{"sessionCode": code, "hostToken": hostToken}
	})

	// game:join
	io.OnEvent("/", "game:join", func(s socketio.Conn, payload struct {
		SessionCode string `json:"sessionCode"`
		Name        string `json:"name"`
	}) map[string]any {
		sess, err := srv.RM.Get(payload.SessionCode)
		if err != nil {
			return srv.err(s, "session_not_found", "Session not found")
		}
		playerID, playerToken := sess.Join(payload.Name)
		s.SetContext(&ConnCtx{Code: payload.SessionCode, Token: playerToken, Role: "player"})
		s.Join(payload.SessionCode)
		srv.addMember(payload.SessionCode, s)
		log.Info().Str("sid", s.ID()).Str("code", payload.SessionCode).Str("playerId", playerID).Msg("game:join")
		srv.emitStateTo(payload.SessionCode)
		return map[string]any{"playerToken": playerToken, "playerId": playerID}
	})

	// game:resume (reconnection); replays journal entries after lastEvent
	io.OnEvent("/", "game:resume", func(s socketio.Conn, payload resumePayload) map[string]any {
		sess, ctx, missed, err := srv.resume(payload)
		if err != nil {
			return srv.commandErr(s, err)
		}
		s.SetContext(ctx)
		s.Join(ctx.Code)
		srv.addMember(ctx.Code, s)
		log.Info().Str("sid", s.ID()).Str("code", ctx.Code).Str("role", ctx.Role).Int("missed", len(missed)).Msg("game:resume")

		for _, ev := range missed {
			s.Emit("game:event", ev)
		}
		s.Emit("game:state", srv.statePayload(sess, ctx))
		return map[string]any{"ok": true}
	})

	// host commands
	io.OnEvent("/", "game:next", srv.hostCommand("game:next", func(sess *game.SessionCtx, token string) error {
		return sess.Next(token)
	}))
	io.OnEvent("/", "game:timeout", srv.hostCommand("game:timeout", func(sess *game.SessionCtx, token string) error {
		return sess.Timeout(token)
	}))

	io.OnEvent("/", "game:back", func(s socketio.Conn) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		c, price, err := sess.MoveBack(ctx.Token)
		if err != nil {
			return srv.commandErr(s, err)
		}
		log.Info().Str("code", ctx.Code).Stringer("coord", c).Msg("game:back")
		srv.emitStateTo(ctx.Code)
		return backAck(c, price)
	})

	io.OnEvent("/", "game:round", func(s socketio.Conn, payload struct {
		Delta int `json:"delta"`
		Index int `json:"index"`
	}) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := sess.JumpRound(ctx.Token, payload.Delta, payload.Index); err != nil {
			return srv.commandErr(s, err)
		}
		log.Info().Str("code", ctx.Code).Int("delta", payload.Delta).Int("index", payload.Index).Msg("game:round")
		srv.emitStateTo(ctx.Code)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "game:removeQuestion", func(s socketio.Conn, payload coordPayload) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := sess.RemoveQuestion(ctx.Token, payload.Theme, payload.Question); err != nil {
			return srv.commandErr(s, err)
		}
		srv.emitStateTo(ctx.Code)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "game:restoreQuestion", func(s socketio.Conn, payload coordPayload) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := sess.RestoreQuestion(ctx.Token, payload.Theme, payload.Question); err != nil {
			return srv.commandErr(s, err)
		}
		srv.emitStateTo(ctx.Code)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "game:rules", func(s socketio.Conn, payload struct {
		ShowRightAnswer bool `json:"showRightAnswer"`
		PlaySpecials    bool `json:"playSpecials"`
	}) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := sess.SetRules(ctx.Token, payload.ShowRightAnswer, payload.PlaySpecials); err != nil {
			return srv.commandErr(s, err)
		}
		srv.emitStateTo(ctx.Code)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "game:end", func(s socketio.Conn) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := srv.endSession(ctx); err != nil {
			return srv.commandErr(s, err)
		}
		log.Info().Str("code", ctx.Code).Msg("game:end")
		return map[string]any{"ok": true}
	})

	// member commands
	io.OnEvent("/", "game:selectQuestion", func(s socketio.Conn, payload coordPayload) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := sess.SelectQuestion(ctx.Token, payload.Theme, payload.Question); err != nil {
			return srv.commandErr(s, err)
		}
		log.Info().Str("code", ctx.Code).Int("theme", payload.Theme).Int("question", payload.Question).Msg("game:selectQuestion")
		srv.emitStateTo(ctx.Code)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "game:selectTheme", func(s socketio.Conn, payload struct {
		Theme int `json:"theme"`
	}) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := sess.SelectTheme(ctx.Token, payload.Theme); err != nil {
			return srv.commandErr(s, err)
		}
		log.Info().Str("code", ctx.Code).Int("theme", payload.Theme).Msg("game:selectTheme")
		srv.emitStateTo(ctx.Code)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "game:ready", func(s socketio.Conn) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := sess.Ready(ctx.Token); err != nil {
			return srv.commandErr(s, err)
		}
		srv.emitStateTo(ctx.Code)
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
			srv.removeMember(ctx.Code, s)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	// Mount to router
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// StartSession creates a session from a library or inline package. Clients
// fall back to the server's session defaults when they send no config.
func (srv *Server) StartSession(req CreateRequest) (code, hostToken string, err error) {
	doc := req.Package
	if doc == nil {
		if doc, err = srv.Library.Load(req.PackageName); err != nil {
			return "", "", err
		}
	}
	cfg := SessionDefaults(srv.config)
	if req.Config != nil {
		cfg = *req.Config
	}
	if cfg.Package == "" {
		cfg.Package = req.PackageName
	}
	return srv.RM.CreateSession(doc, cfg)
}

// createSession is StartSession for socket clients, which may only create
// sessions when no host login is configured.
func (srv *Server) createSession(req CreateRequest) (string, string, error) {
	if srv.config.HasHostAuth() {
		return "", "", errCreateDisabled
	}
	return srv.StartSession(req)
}

// resume checks the token against the claimed role and returns the journal
// entries the client has not seen yet.
func (srv *Server) resume(p resumePayload) (*game.SessionCtx, *ConnCtx, []game.Event, error) {
	sess, err := srv.RM.Get(p.SessionCode)
	if err != nil {
		return nil, nil, nil, err
	}
	role := "player"
	if p.Role == "host" {
		if p.Token == "" || p.Token != sess.HostToken {
			return nil, nil, nil, game.ErrNotHost
		}
		role = "host"
	} else if sess.GetPlayerIDByToken(p.Token) == "" {
		return nil, nil, nil, game.ErrUnauthorized
	}
	ctx := &ConnCtx{Code: p.SessionCode, Token: p.Token, Role: role}
	return sess, ctx, eventsAfter(sess.Journal(), p.LastEvent), nil
}

func eventsAfter(journal []game.Event, last int) []game.Event {
	out := []game.Event{}
	for _, ev := range journal {
		if ev.Seq > last {
			out = append(out, ev)
		}
	}
	return out
}

func backAck(c engine.Coordinate, price int) map[string]any {
	return map[string]any{"theme": c.Theme, "question": c.Question, "price": price}
}

// endSession closes the session if ctx belongs to its host and forgets the
// room's members.
func (srv *Server) endSession(ctx *ConnCtx) error {
	sess, err := srv.RM.Get(ctx.Code)
	if err != nil {
		return err
	}
	if ctx.Token == "" || ctx.Token != sess.HostToken {
		return game.ErrNotHost
	}
	if err := srv.RM.Remove(ctx.Code); err != nil {
		return err
	}
	if srv.io != nil {
		srv.io.BroadcastToRoom("/", ctx.Code, "game:ended", map[string]any{"sessionCode": ctx.Code})
		srv.io.ClearRoom("/", ctx.Code)
	}
	srv.mu.Lock()
	delete(srv.members, ctx.Code)
	srv.mu.Unlock()
	return nil
}

func (srv *Server) hostCommand(name string, run func(*game.SessionCtx, string) error) func(socketio.Conn) map[string]any {
	return func(s socketio.Conn) map[string]any {
		sess, ctx, resp := srv.session(s)
		if sess == nil {
			return resp
		}
		if err := run(sess, ctx.Token); err != nil {
			return srv.commandErr(s, err)
		}
		log.Info().Str("code", ctx.Code).Str("stage", sess.Engine().Stage().String()).Msg(name)
		srv.emitStateTo(ctx.Code)
		return map[string]any{"ok": true}
	}
}

// session resolves the connection's session. On failure the returned map is
// the error ack.
func (srv *Server) session(s socketio.Conn) (*game.SessionCtx, *ConnCtx, map[string]any) {
	ctx, ok := s.Context().(*ConnCtx)
	if !ok || ctx.Code == "" {
		return nil, nil, srv.err(s, "session_not_found", "Not in a session")
	}
	sess, err := srv.RM.Get(ctx.Code)
	if err != nil {
		return nil, nil, srv.err(s, "session_not_found", "Session not found")
	}
	return sess, ctx, nil
}

func (srv *Server) commandErr(s socketio.Conn, err error) map[string]any {
	return srv.err(s, errorCode(err), err.Error())
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNotHost), errors.Is(err, game.ErrUnauthorized), errors.Is(err, errCreateDisabled):
		return "unauthorized"
	case errors.Is(err, pkgdoc.ErrPackageNotFound):
		return "package_not_found"
	case errors.Is(err, game.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, engine.ErrClosed):
		return "session_closed"
	case errors.Is(err, engine.ErrInvalidOperation):
		return "invalid_operation"
	}
	return "bad_request"
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
		if len(m) == 0 {
			delete(srv.members, code)
		}
	}
}

func (srv *Server) conns(code string) []socketio.Conn {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	out := make([]socketio.Conn, 0, len(srv.members[code]))
	for _, c := range srv.members[code] {
		out = append(out, c)
	}
	return out
}

// broadcast forwards a session event to the room and refreshes everyone's state.
func (srv *Server) broadcast(code string, ev game.Event) {
	if srv.io == nil {
		return
	}
	srv.io.BroadcastToRoom("/", code, "game:event", ev)
	switch ev.Type {
	case game.EventQuestionAtom, game.EventPlayerJoined:
		// state is unchanged by content reveal; joins already refresh it
	default:
		srv.emitStateTo(code)
	}
}

func (srv *Server) emitStateTo(code string) {
	sess, err := srv.RM.Get(code)
	if err != nil {
		return
	}
	for _, c := range srv.conns(code) {
		ctx, _ := c.Context().(*ConnCtx)
		if ctx == nil {
			continue
		}
		c.Emit("game:state", srv.statePayload(sess, ctx))
	}
}

func (srv *Server) statePayload(sess *game.SessionCtx, ctx *ConnCtx) map[string]any {
	you := map[string]any{"role": ctx.Role}
	if ctx.Role == "player" {
		if id := sess.GetPlayerIDByToken(ctx.Token); id != "" {
			you["playerId"] = id
		}
	}
	return map[string]any{
		"state": sess.State(),
		"you":   you,
	}
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}

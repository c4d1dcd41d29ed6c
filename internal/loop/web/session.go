// Package web hosts game sessions for browsers over websockets. Each
// connection owns one GameCore; the browser only sends pointer input and
// draws the frames it receives.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/stardrift/internal/game"
	"github.com/tomz197/stardrift/internal/loop/config"
	"github.com/tomz197/stardrift/internal/loop/server"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	inboxSize      = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// InMessage is a browser input message.
type InMessage struct {
	Type string  `json:"type"` // pointer, thrust, intro, viewport
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	On   bool    `json:"on"` // thrust held, intro finished
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// OutMessage is sent to the browser: a frame or a game event.
type OutMessage struct {
	Type             string      `json:"type"`
	Frame            *game.Frame `json:"frame,omitempty"`
	From             string      `json:"from,omitempty"`
	To               string      `json:"to,omitempty"`
	Stage            game.Stage  `json:"stage,omitempty"`
	Generation       uint64      `json:"gen,omitempty"`
	X                float64     `json:"x,omitempty"`
	Y                float64     `json:"y,omitempty"`
	Points           int         `json:"points,omitempty"`
	Username         string      `json:"username,omitempty"`
	HighScore        int         `json:"highScore,omitempty"`
	InfiniteUnlocked bool        `json:"infiniteUnlocked,omitempty"`
}

// Message types sent to the browser.
const (
	MsgHello       = "hello"
	MsgFrame       = "frame"
	MsgState       = "state"
	MsgCrash       = "crash"
	MsgVictory     = "victory"
	MsgScrollReset = "scroll_reset"
	MsgHighScore   = "high_score"
	MsgNewRecord   = "new_record"
	MsgShutdown    = "shutdown"
)

// Handler upgrades requests to websockets and runs one session per connection.
type Handler struct {
	hub    server.GameServer
	tuning game.Tuning
	log    *log.Logger
}

// NewHandler creates a websocket handler registering sessions with hub.
func NewHandler(hub server.GameServer, tuning game.Tuning, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{hub: hub, tuning: tuning, log: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "web"
	}

	s := newSession(r.Context(), h, conn, name)
	if err := s.run(); err != nil {
		h.log.Debug("Session ended", "user", name, "err", err)
	}
}

// session is one browser game. The run goroutine owns the core and is the
// only writer on conn; readPump is the only reader.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	conn   *websocket.Conn
	hub    server.GameServer
	handle *server.ClientHandle
	core   *game.GameCore
	log    *log.Logger
	inbox  chan InMessage

	pending []OutMessage // Events raised during the current frame
	frame   game.Frame
}

func newSession(ctx context.Context, h *Handler, conn *websocket.Conn, name string) *session {
	ctx, cancel := context.WithCancel(ctx)
	s := &session{
		ctx:    ctx,
		cancel: cancel,
		conn:   conn,
		hub:    h.hub,
		handle: h.hub.RegisterClient(name),
		log:    h.log.With("user", name),
		inbox:  make(chan InMessage, inboxSize),
	}
	tuning := h.tuning
	s.core = game.New(ctx, game.Options{
		Tuning:   &tuning,
		Store:    h.hub.Store(),
		Listener: s,
		Logger:   s.log,
	})
	return s
}

func (s *session) run() error {
	defer s.cancel()
	defer s.hub.UnregisterClient(s.handle.ID)

	go s.readPump()

	if err := s.send(OutMessage{
		Type:             MsgHello,
		HighScore:        s.core.HighScore(),
		InfiniteUnlocked: s.core.InfiniteUnlocked(),
	}); err != nil {
		return err
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	lastTime := time.Now()
	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		if done, err := s.tick(delta); done || err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}
}

// tick applies queued input and hub events, steps the core and sends the
// frame. done is true when the session should end.
func (s *session) tick(delta time.Duration) (done bool, err error) {
	s.drainInbox()
	if s.drainHubEvents() {
		return true, s.flush()
	}

	s.core.Step(delta)
	s.hub.ReportScore(s.handle.ID, s.core.Points(), s.core.State())

	s.pending = append(s.pending, OutMessage{Type: MsgFrame, Frame: s.core.Snapshot(&s.frame)})
	return false, s.flush()
}

func (s *session) drainInbox() {
	for {
		select {
		case m := <-s.inbox:
			s.apply(m)
		default:
			return
		}
	}
}

// apply forwards one input message to the core.
func (s *session) apply(m InMessage) {
	switch m.Type {
	case "pointer":
		s.core.SetPointer(m.X, m.Y)
	case "thrust":
		s.core.SetThrust(m.On)
	case "intro":
		if m.On {
			s.core.EnableGame()
		} else {
			s.core.DisableGame()
		}
	case "viewport":
		s.core.SetViewport(m.W, m.H)
	default:
		s.log.Debug("Unknown message", "type", m.Type)
	}
}

// drainHubEvents forwards hub events. Returns true once the hub is shutting
// down or has dropped the session.
func (s *session) drainHubEvents() bool {
	for {
		select {
		case ev, ok := <-s.handle.EventsCh:
			if !ok {
				return true
			}
			switch ev.Type {
			case server.EventServerShutdown:
				s.pending = append(s.pending, OutMessage{Type: MsgShutdown})
				return true
			case server.EventNewRecord:
				s.pending = append(s.pending, OutMessage{Type: MsgNewRecord, Username: ev.Username, Points: ev.Score})
			}
		default:
			return false
		}
	}
}

// flush writes every pending message in order.
func (s *session) flush() error {
	for _, m := range s.pending {
		if err := s.send(m); err != nil {
			s.pending = s.pending[:0]
			return err
		}
	}
	s.pending = s.pending[:0]
	return nil
}

func (s *session) send(m OutMessage) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.Type, err)
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s: %w", m.Type, err)
	}
	return nil
}

// readPump decodes browser messages into the inbox until the connection fails.
func (s *session) readPump() {
	defer s.cancel()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var m InMessage
		if err := s.conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Websocket read failed", "err", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		select {
		case s.inbox <- m:
		case <-s.ctx.Done():
			return
		}
	}
}

// The session is its own listener: events are queued and sent ahead of the
// frame they happened in.

func (s *session) OnStateChange(from, to game.State) {
	s.pending = append(s.pending, OutMessage{Type: MsgState, From: from.String(), To: to.String()})
}

func (s *session) OnCrash(x, y float64, points int) {
	s.pending = append(s.pending, OutMessage{Type: MsgCrash, X: x, Y: y, Points: points})
}

func (s *session) OnVictory(stage game.Stage, generation uint64) {
	s.pending = append(s.pending, OutMessage{Type: MsgVictory, Stage: stage, Generation: generation})
}

func (s *session) OnScrollReset() {
	s.pending = append(s.pending, OutMessage{Type: MsgScrollReset})
}

func (s *session) OnHighScore(points int) {
	s.pending = append(s.pending, OutMessage{Type: MsgHighScore, Points: points})
}

var _ game.Listener = (*session)(nil)

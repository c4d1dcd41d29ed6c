package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardrift/internal/game"
	"github.com/tomz197/stardrift/internal/loop/config"
	"github.com/tomz197/stardrift/internal/store"
)

// GameServer is the interface clients use to communicate with the session hub.
// Every client runs its own game; the hub shares the score store and a
// leaderboard across them.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(clientID int, points int, state game.State)
	GetSnapshot() *Snapshot
	Store() store.Store
}

// Server tracks connected clients, their live scores and the all-time best.
type Server struct {
	store        *store.Locked
	log          *log.Logger
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	reportCh     chan ScoreReport
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex

	best      int    // Best score ever, persisted or reported
	bestOwner string // Username behind best, empty when it came from the store

	scratch []TopScoreEntry // Reused for ranking; published boards are copies
}

var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's registration with the server.
type ClientHandle struct {
	ID       int
	Username string
	Points   int              // Score of the current round
	Best     int              // Best score this session
	State    game.State       // Last reported game phase
	EventsCh chan ClientEvent // Events sent to the client
}

// ScoreReport is a client's score update for one frame.
type ScoreReport struct {
	ClientID int
	Points   int
	State    game.State
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type     ClientEventType
	Username string // Record holder for EventNewRecord
	Score    int
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNewRecord
)

// NewServer creates a session hub sharing st between all clients. The
// persisted high score is read once.
func NewServer(ctx context.Context, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if st == nil {
		st = store.NewMemory(store.Progress{})
	}

	s := &Server{
		store:        store.NewLocked(st),
		log:          logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		reportCh:     make(chan ScoreReport, 256),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
	}

	best, err := s.store.ReadHighScore(ctx)
	if err != nil {
		logger.Warn("Could not read high score", "err", err)
	}
	s.best = max(best, 0)

	s.snapshot.Store(&Snapshot{HighScore: s.best})
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()

		s.processRegistrations()
		s.collectReports()
		s.createSnapshot()

		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect
// (up to the given timeout). The caller should cancel the server context after.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ClientEvent{Type: EventServerShutdown}, 0)

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportScore records a client's current score. Never blocks; reports are
// dropped when the server falls behind since the next one supersedes them.
func (s *Server) ReportScore(clientID int, points int, state game.State) {
	select {
	case s.reportCh <- ScoreReport{ClientID: clientID, Points: points, State: state}:
	default:
	}
}

// GetSnapshot returns the current leaderboard snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// Store returns the score store shared by all clients.
func (s *Server) Store() store.Store {
	return s.store
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.log.Info("Client joined", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.log.Info("Client left", "id", clientID, "user", handle.Username, "best", handle.Best)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectReports applies all pending score reports and announces new records.
func (s *Server) collectReports() {
	for {
		select {
		case r := <-s.reportCh:
			s.mu.Lock()
			handle, ok := s.clients[r.ClientID]
			if !ok {
				s.mu.Unlock()
				continue
			}
			handle.Points = r.Points
			handle.State = r.State
			handle.Best = max(handle.Best, r.Points)

			record := r.Points > s.best
			if record {
				s.best = r.Points
				s.bestOwner = handle.Username
			}
			s.mu.Unlock()

			if record {
				s.broadcast(ClientEvent{Type: EventNewRecord, Username: handle.Username, Score: r.Points}, r.ClientID)
			}
		default:
			return
		}
	}
}

// broadcast sends ev to every client except skipID without blocking.
func (s *Server) broadcast(ev ClientEvent, skipID int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, handle := range s.clients {
		if id == skipID {
			continue
		}
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// createSnapshot publishes an immutable leaderboard snapshot.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board := s.scratch[:0]
	active := 0
	for _, handle := range s.clients {
		board = append(board, TopScoreEntry{
			Username: handle.Username,
			Score:    handle.Best,
			clientID: handle.ID,
		})
		if handle.State.Active() {
			active++
		}
	}
	s.scratch = board
	board = rankTopScores(board, config.TopScoresShown)
	top := make([]TopScoreEntry, len(board))
	copy(top, board)

	s.snapshot.Store(&Snapshot{
		Players:   len(s.clients),
		Flying:    active,
		HighScore: s.best,
		RecordBy:  s.bestOwner,
		TopScores: top,
	})
}

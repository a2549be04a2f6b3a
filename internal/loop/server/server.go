// Package server hosts a shared match for SSH clients: it owns the only
// goroutine that mutates the simulation, collects per-client direction
// commands, publishes read-only snapshots, and fans simulation notifications
// out to the connected clients.
package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"snakepit/internal/event"
	"snakepit/internal/grid"
	"snakepit/internal/sim"
)

// Phase is the match-host state, wrapping the simulation lifecycle with a
// lobby and a rematch loop.
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseOver
)

const (
	tickDuration  = time.Second / sim.TickRate
	maxFrameDelta = 250 * time.Millisecond
)

var slotColors = [sim.MaxPlayers]string{"green", "magenta", "cyan", "yellow"}

// GameServer is the interface clients use to talk to the match host.
// Decouples the client loop from the concrete Server for testing.
type GameServer interface {
	RegisterClient(username string) (*ClientHandle, error)
	UnregisterClient(clientID int)
	SendDirection(clientID int, dir grid.Direction)
	SendReady(clientID int, ready bool)
	GetView() *View
}

// ClientEventType identifies an event sent from server to client.
type ClientEventType int

const (
	EventSim ClientEventType = iota // forwarded simulation notification
	EventServerShutdown
)

// ClientEvent is one event delivered on a client's event channel.
type ClientEvent struct {
	Type ClientEventType
	Sim  event.Event // valid when Type == EventSim
}

// ClientHandle represents one connected client and its claimed player slot.
type ClientHandle struct {
	ID       int
	Username string
	PlayerID string
	Color    string
	EventsCh chan ClientEvent

	ready bool
}

// Seat is the lobby view of one connected client.
type Seat struct {
	Username string
	PlayerID string
	Color    string
	Ready    bool
}

// View is the per-frame snapshot published to clients.
type View struct {
	Phase Phase
	Seats []Seat
	Game  *sim.Snapshot // nil while in the lobby
	Final map[string]int
}

type clientCommand struct {
	clientID int
	dir      grid.Direction
	hasDir   bool
	ready    bool
	hasReady bool
}

// Server manages the shared match. All simulation access happens on the Run
// goroutine; clients interact through channels and the atomic view pointer.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int

	commandCh    chan clientCommand
	unregisterCh chan int

	boardSize int
	baseSpeed float64

	phase Phase
	game  *sim.Simulation
	acc   time.Duration
	final map[string]int

	view atomic.Pointer[View]
}

var _ GameServer = (*Server)(nil)

// NewServer creates a match host for the given board size and base speed.
func NewServer(boardSize int, baseSpeed float64) *Server {
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		commandCh:    make(chan clientCommand, 256),
		unregisterCh: make(chan int, 16),
		boardSize:    boardSize,
		baseSpeed:    baseSpeed,
	}
	s.view.Store(&View{Phase: PhaseLobby})
	return s
}

// RegisterClient claims a player slot for a new connection. Fails when the
// session is full.
func (s *Server) RegisterClient(username string) (*ClientHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clients) >= sim.MaxPlayers {
		return nil, fmt.Errorf("server: session full (%d players)", sim.MaxPlayers)
	}
	slot := s.freeSlotLocked()
	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		PlayerID: fmt.Sprintf("slot-%d", slot),
		Color:    slotColors[slot],
		EventsCh: make(chan ClientEvent, 32),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	return handle, nil
}

// freeSlotLocked returns the lowest slot index not taken by a connected
// client. Must be called with the lock held.
func (s *Server) freeSlotLocked() int {
	taken := map[string]bool{}
	for _, h := range s.clients {
		taken[h.PlayerID] = true
	}
	for slot := 0; slot < sim.MaxPlayers; slot++ {
		if !taken[fmt.Sprintf("slot-%d", slot)] {
			return slot
		}
	}
	return 0
}

// UnregisterClient removes a client. The slot frees up for future joins;
// a snake already in a running match keeps playing as a derelict until it
// dies.
func (s *Server) UnregisterClient(clientID int) {
	select {
	case s.unregisterCh <- clientID:
	default:
	}
}

// SendDirection forwards a direction command. Dropped when the command
// queue is full; the next keypress wins anyway.
func (s *Server) SendDirection(clientID int, dir grid.Direction) {
	select {
	case s.commandCh <- clientCommand{clientID: clientID, dir: dir, hasDir: true}:
	default:
	}
}

// SendReady toggles a client's lobby ready state.
func (s *Server) SendReady(clientID int, ready bool) {
	select {
	case s.commandCh <- clientCommand{clientID: clientID, ready: ready, hasReady: true}:
	default:
	}
}

// GetView returns the latest published snapshot.
func (s *Server) GetView() *View {
	return s.view.Load()
}

// Run drives the match host loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart
		if delta > maxFrameDelta {
			delta = maxFrameDelta
		}

		s.processUnregistrations()
		s.processCommands()
		s.advance(delta)
		s.publishView()

		if elapsed := time.Since(frameStart); elapsed < tickDuration {
			time.Sleep(tickDuration - elapsed)
		}
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the timeout. The caller cancels the Run context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

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

func (s *Server) processUnregistrations() {
	for {
		select {
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

func (s *Server) processCommands() {
	for {
		select {
		case cmd := <-s.commandCh:
			s.mu.Lock()
			handle, ok := s.clients[cmd.clientID]
			if ok {
				if cmd.hasReady {
					handle.ready = cmd.ready
				}
				if cmd.hasDir && s.game != nil {
					s.game.SetDirection(handle.PlayerID, cmd.dir)
				}
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// advance runs the lobby/match state machine for one frame.
func (s *Server) advance(delta time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseLobby, PhaseOver:
		if s.allReadyLocked() {
			s.startMatchLocked()
		}
	case PhasePlaying:
		s.acc += delta
		for s.acc >= tickDuration {
			s.acc -= tickDuration
			s.game.Step()
			for _, e := range s.game.DrainEvents() {
				if e.Type == event.MatchOver {
					s.final = e.Scores
				}
				s.broadcastLocked(ClientEvent{Type: EventSim, Sim: e})
			}
		}
		if s.game.Phase() == sim.PhaseOver {
			s.phase = PhaseOver
			for _, h := range s.clients {
				h.ready = false
			}
		}
	}
}

func (s *Server) allReadyLocked() bool {
	if len(s.clients) == 0 {
		return false
	}
	for _, h := range s.clients {
		if !h.ready {
			return false
		}
	}
	return true
}

func (s *Server) startMatchLocked() {
	players := make([]sim.Player, 0, len(s.clients))
	for _, h := range s.clients {
		players = append(players, sim.Player{ID: h.PlayerID, Name: h.Username, Color: h.Color})
	}
	// Stable slot order regardless of map iteration.
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			if players[j].ID < players[i].ID {
				players[i], players[j] = players[j], players[i]
			}
		}
	}

	game, err := sim.New(sim.Config{
		BoardSize: s.boardSize,
		BaseSpeed: s.baseSpeed,
		Players:   players,
		Seed:      time.Now().UnixNano(),
	})
	if err != nil {
		// Config is host-controlled; a failure here is a programming error
		// surfaced at the next join attempt rather than a crash.
		return
	}
	s.game = game
	s.acc = 0
	s.final = nil
	s.phase = PhasePlaying
}

func (s *Server) broadcastLocked(e ClientEvent) {
	for _, h := range s.clients {
		select {
		case h.EventsCh <- e:
		default:
		}
	}
}

func (s *Server) publishView() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := &View{Phase: s.phase, Final: s.final}
	for _, h := range s.clients {
		v.Seats = append(v.Seats, Seat{
			Username: h.Username,
			PlayerID: h.PlayerID,
			Color:    h.Color,
			Ready:    h.ready,
		})
	}
	// Stable seat order for rendering.
	for i := 0; i < len(v.Seats); i++ {
		for j := i + 1; j < len(v.Seats); j++ {
			if v.Seats[j].PlayerID < v.Seats[i].PlayerID {
				v.Seats[i], v.Seats[j] = v.Seats[j], v.Seats[i]
			}
		}
	}
	if s.game != nil {
		snap := s.game.Snapshot()
		v.Game = &snap
	}
	s.view.Store(v)
}

package server

import (
	"testing"
	"time"

	"snakepit/internal/grid"
	"snakepit/internal/sim"
)

func TestRegisterAssignsDistinctSlots(t *testing.T) {
	s := NewServer(15, 2.0)
	seen := map[string]bool{}
	for i := 0; i < sim.MaxPlayers; i++ {
		h, err := s.RegisterClient("player")
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		if seen[h.PlayerID] {
			t.Errorf("slot %s assigned twice", h.PlayerID)
		}
		seen[h.PlayerID] = true
	}
	if _, err := s.RegisterClient("late"); err == nil {
		t.Error("fifth registration should fail")
	}
}

func TestSlotFreedOnUnregister(t *testing.T) {
	s := NewServer(15, 2.0)
	h1, _ := s.RegisterClient("one")
	h2, _ := s.RegisterClient("two")
	s.UnregisterClient(h1.ID)
	s.processUnregistrations()

	h3, err := s.RegisterClient("three")
	if err != nil {
		t.Fatal(err)
	}
	if h3.PlayerID != h1.PlayerID {
		t.Errorf("reassigned slot = %s, want freed %s", h3.PlayerID, h1.PlayerID)
	}
	if h3.PlayerID == h2.PlayerID {
		t.Error("occupied slot handed out twice")
	}
}

func TestMatchStartsWhenAllReady(t *testing.T) {
	s := NewServer(15, 2.0)
	h1, _ := s.RegisterClient("one")
	h2, _ := s.RegisterClient("two")

	s.SendReady(h1.ID, true)
	s.processCommands()
	s.advance(0)
	if s.phase != PhaseLobby {
		t.Fatal("match must not start before everyone is ready")
	}

	s.SendReady(h2.ID, true)
	s.processCommands()
	s.advance(0)
	if s.phase != PhasePlaying {
		t.Fatal("match should start once all players are ready")
	}

	s.publishView()
	view := s.GetView()
	if view.Phase != PhasePlaying || view.Game == nil {
		t.Error("published view should carry the running match")
	}
	if len(view.Seats) != 2 {
		t.Errorf("seats = %d, want 2", len(view.Seats))
	}
}

func TestDirectionCommandsReachTheMatch(t *testing.T) {
	s := NewServer(15, 2.0)
	h, _ := s.RegisterClient("solo")
	s.SendReady(h.ID, true)
	s.processCommands()
	s.advance(0)
	if s.game == nil {
		t.Fatal("match not running")
	}

	s.SendDirection(h.ID, grid.Down)
	s.processCommands()
	// Advance far enough for a move tick; the snake must end up heading
	// down.
	for i := 0; i < 40; i++ {
		s.advance(time.Second / sim.TickRate)
	}
	s.publishView()
	view := s.GetView()
	if view.Game == nil || len(view.Game.Snakes) != 1 {
		t.Fatal("unexpected view")
	}
	if view.Game.Snakes[0].Dir != grid.Down {
		t.Errorf("snake heading = %v, want down", view.Game.Snakes[0].Dir)
	}
}

func TestEventsForwardedToClients(t *testing.T) {
	s := NewServer(15, 2.0)
	h, _ := s.RegisterClient("solo")
	s.SendReady(h.ID, true)
	s.processCommands()
	s.advance(0)

	// An apple-consumed notification shows up eventually on the client
	// channel as the snake wanders into maintained apples; rather than
	// waiting for luck, check the plumbing with a synthetic broadcast.
	s.mu.Lock()
	s.broadcastLocked(ClientEvent{Type: EventServerShutdown})
	s.mu.Unlock()

	select {
	case ev := <-h.EventsCh:
		if ev.Type != EventServerShutdown {
			t.Errorf("event type = %v, want shutdown", ev.Type)
		}
	default:
		t.Error("no event delivered to the client channel")
	}
}

package web

import (
	"testing"

	"snakepit/internal/loop/server"
	"snakepit/internal/sim"
	"snakepit/internal/snake"
)

func TestScoreboardEmptyWithoutView(t *testing.T) {
	h := NewHandler(func() *server.View { return nil }, "example.com")
	sb := h.scoreboard()
	if sb.Phase != "lobby" || len(sb.Players) != 0 {
		t.Errorf("scoreboard without a view = %+v, want empty lobby", sb)
	}
}

func TestScoreboardFlattensMatchView(t *testing.T) {
	game, err := sim.New(sim.Config{
		BoardSize: 15,
		BaseSpeed: 2,
		Players: []sim.Player{
			{ID: "slot-0", Name: "one", Color: "green"},
			{ID: "slot-1", Name: "two", Color: "magenta"},
		},
		Seed: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := game.Snapshot()
	view := &server.View{Phase: server.PhasePlaying, Game: &snap}

	h := NewHandler(func() *server.View { return view }, "example.com")
	sb := h.scoreboard()
	if sb.Phase != "playing" || sb.BoardSize != 15 {
		t.Fatalf("scoreboard header = %+v", sb)
	}
	if len(sb.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(sb.Players))
	}
	for _, p := range sb.Players {
		if !p.Alive || p.Segments != snake.InitialLength {
			t.Errorf("standing %+v, want alive with %d segments", p, snake.InitialLength)
		}
	}
}

func TestScoreboardUsesFinalScores(t *testing.T) {
	game, _ := sim.New(sim.Config{
		BoardSize: 15,
		BaseSpeed: 2,
		Players:   []sim.Player{{ID: "slot-0", Name: "one", Color: "green"}},
		Seed:      1,
	})
	snap := game.Snapshot()
	view := &server.View{
		Phase: server.PhaseOver,
		Game:  &snap,
		Final: map[string]int{"slot-0": 230},
	}
	h := NewHandler(func() *server.View { return view }, "example.com")
	sb := h.scoreboard()
	if sb.Phase != "over" || sb.Players[0].Score != 230 {
		t.Errorf("scoreboard = %+v, want final score 230", sb)
	}
}

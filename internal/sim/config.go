package sim

import "fmt"

// Fixed-timestep scheduling: one Step call advances exactly one tick.
const (
	TickRate = 60
	TickMs   = 1000.0 / TickRate
)

// Scoring policy.
const (
	PointsPerApple  = 10
	PointsPerCombo  = 50
	PointsPerSecond = 1
	SurvivalBonus   = 100 // longest survivor, multiplayer sessions only
)

// MaxPlayers is the session player cap.
const MaxPlayers = 4

// BoardSizes lists the supported square board edge lengths.
var BoardSizes = []int{15, 25, 50}

// Player describes one participating player at session construction.
type Player struct {
	ID    string
	Name  string
	Color string // display color, opaque to the simulation
}

// Config is the session configuration supplied by collaborators.
type Config struct {
	BoardSize int
	BaseSpeed float64 // tiles per second
	Players   []Player
	Seed      int64 // rng seed; same seed + same inputs => same match
}

func (c Config) validate() error {
	ok := false
	for _, n := range BoardSizes {
		if c.BoardSize == n {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("sim: unsupported board size %d", c.BoardSize)
	}
	if c.BaseSpeed <= 0 {
		return fmt.Errorf("sim: base speed must be positive, got %v", c.BaseSpeed)
	}
	if len(c.Players) == 0 || len(c.Players) > MaxPlayers {
		return fmt.Errorf("sim: player count %d outside 1..%d", len(c.Players), MaxPlayers)
	}
	seen := map[string]bool{}
	for _, p := range c.Players {
		if p.ID == "" {
			return fmt.Errorf("sim: player with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("sim: duplicate player id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

package sim

import (
	"snakepit/internal/apple"
	"snakepit/internal/block"
	"snakepit/internal/effect"
	"snakepit/internal/grid"
	"snakepit/internal/snake"
)

// SnakeView is the read-only per-snake slice of a snapshot.
type SnakeView struct {
	ID       string
	Name     string
	Color    string
	State    snake.State
	Segments []grid.Point
	Dir      grid.Direction
	Speed    float64 // effective tiles per second
	Score    int     // running score
	Streak   snake.Streak
	Effects  []effect.Active
}

// AppleView is one apple in a snapshot.
type AppleView struct {
	ID    int
	Color effect.Kind
	Pos   grid.Point
	State apple.State
}

// BlockView is one gray block in a snapshot.
type BlockView struct {
	ID    int
	Pos   grid.Point
	State block.State
}

// ProjectileView is one in-flight projectile in a snapshot.
type ProjectileView struct {
	ID      int
	OwnerID string
	Pos     grid.Point
	Dir     grid.Direction
	Trail   []grid.Point
}

// GlobalEffectView is the board-wide effect slot in a snapshot.
type GlobalEffectView struct {
	Kind        effect.Kind
	Remaining   int
	Duration    int
	TriggeredBy string
}

// Snapshot is the per-tick read-only view consumed by rendering, audio and
// UI collaborators. All slices are copies; a snapshot never aliases live
// simulation state.
type Snapshot struct {
	Tick        int
	Phase       Phase
	BoardSize   int
	Elapsed     float64 // simulated seconds
	Snakes      []SnakeView
	Apples      []AppleView
	Blocks      []BlockView
	Projectiles []ProjectileView
	Global      *GlobalEffectView
}

// Snapshot builds the current read-only view.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      s.tick,
		Phase:     s.phase,
		BoardSize: s.cfg.BoardSize,
		Elapsed:   float64(s.tick) / TickRate,
	}

	for _, sn := range s.snakes {
		snap.Snakes = append(snap.Snakes, SnakeView{
			ID:       sn.ID,
			Name:     sn.Name,
			Color:    s.colors[sn.ID],
			State:    sn.State(),
			Segments: sn.CopySegments(),
			Dir:      sn.Direction(),
			Speed:    sn.EffectiveSpeed(),
			Score:    s.runningScore(sn.ID),
			Streak:   sn.ComboStreak(),
			Effects:  sn.Effects(),
		})
	}
	for _, a := range s.apples.Apples() {
		snap.Apples = append(snap.Apples, AppleView{
			ID: a.ID, Color: a.Color, Pos: a.Pos, State: a.State(),
		})
	}
	for _, b := range s.blocks.Blocks() {
		snap.Blocks = append(snap.Blocks, BlockView{ID: b.ID, Pos: b.Pos, State: b.State()})
	}
	for _, p := range s.shots.Projectiles() {
		trail := make([]grid.Point, len(p.Trail))
		copy(trail, p.Trail)
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			ID: p.ID, OwnerID: p.OwnerID, Pos: p.Pos, Dir: p.Dir, Trail: trail,
		})
	}
	if g, ok := s.effects.Active(); ok {
		snap.Global = &GlobalEffectView{
			Kind:        g.Kind,
			Remaining:   g.Remaining,
			Duration:    g.Duration,
			TriggeredBy: g.TriggeredBy,
		}
	}
	return snap
}

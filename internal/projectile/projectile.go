// Package projectile implements the short-lived ballistic entities spawned
// by the orange power-up. Projectiles pass through all snake geometry and
// collide only with the gray-block field; unlike snakes they never wrap.
package projectile

import (
	"snakepit/internal/grid"
)

const (
	// Speed is the fixed tile rate, much faster than any snake.
	Speed = 20.0
	// TimeoutTicks expires a projectile after 2 s regardless of collisions.
	TimeoutTicks = 120
	// TrailLength caps the FIFO trail buffer kept for display continuity.
	// The trail carries no gameplay semantics.
	TrailLength = 6
)

// State is the projectile lifecycle phase.
type State uint8

const (
	StateActive State = iota
	StateHit
	StateExpired
)

// Projectile is one in-flight shot.
type Projectile struct {
	ID      int
	OwnerID string
	Pos     grid.Point
	Dir     grid.Direction
	Trail   []grid.Point

	state   State
	age     int
	moveAcc float64
}

// State returns the lifecycle phase.
func (p *Projectile) State() State { return p.state }

// Obstacles is the gray-block side of projectile collision. ConvertAt starts
// the conversion of an active block on the tile and reports whether one was
// hit.
type Obstacles interface {
	ConvertAt(pos grid.Point) bool
}

// Hit reports one projectile-block impact resolved during an update pass.
type Hit struct {
	OwnerID string
	Pos     grid.Point
}

// Set owns all live projectiles for one session.
type Set struct {
	projectiles []*Projectile
	nextID      int
	boardSize   int
}

// NewSet returns an empty projectile set for the given board.
func NewSet(boardSize int) *Set {
	return &Set{boardSize: boardSize}
}

// Projectiles returns the live set. Callers must not mutate it.
func (s *Set) Projectiles() []*Projectile { return s.projectiles }

// Len returns the live projectile count.
func (s *Set) Len() int { return len(s.projectiles) }

// Spawn creates a projectile one tile ahead of the owner's head in its
// facing direction. Wraparound applies to the spawn tile only, so a shot
// fired at a board seam starts on the far side instead of despawning
// immediately; from then on the projectile flies without wrapping.
func (s *Set) Spawn(ownerID string, head grid.Point, dir grid.Direction) *Projectile {
	p := &Projectile{
		ID:      s.nextID,
		OwnerID: ownerID,
		Pos:     grid.Wrap(head.Step(dir), s.boardSize),
		Dir:     dir,
	}
	s.nextID++
	s.projectiles = append(s.projectiles, p)
	return p
}

// Update advances every projectile by dt milliseconds, resolving block hits
// against obstacles and expiring shots that leave the board or time out.
// Finished projectiles are purged before the function returns, so they are
// absent from the live set on the following tick.
func (s *Set) Update(dtMs float64, obstacles Obstacles) []Hit {
	var hits []Hit
	interval := 1000.0 / Speed

	for _, p := range s.projectiles {
		if p.state != StateActive {
			continue
		}
		p.age++
		if p.age >= TimeoutTicks {
			p.state = StateExpired
			continue
		}
		p.moveAcc += dtMs
		for p.moveAcc >= interval && p.state == StateActive {
			p.moveAcc -= interval
			p.pushTrail(p.Pos)
			next := p.Pos.Step(p.Dir)
			if !grid.InBounds(next, s.boardSize) {
				p.state = StateExpired
				break
			}
			p.Pos = next
			if obstacles != nil && obstacles.ConvertAt(next) {
				p.state = StateHit
				hits = append(hits, Hit{OwnerID: p.OwnerID, Pos: next})
			}
		}
	}

	kept := s.projectiles[:0]
	for _, p := range s.projectiles {
		if p.state == StateActive {
			kept = append(kept, p)
		}
	}
	s.projectiles = kept
	return hits
}

func (p *Projectile) pushTrail(pos grid.Point) {
	p.Trail = append(p.Trail, pos)
	if len(p.Trail) > TrailLength {
		p.Trail = p.Trail[1:]
	}
}

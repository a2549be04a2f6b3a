// Package snake implements the per-player entity: grid-quantized movement
// with a queued direction, growth and tail shedding, the combo streak, and
// per-snake timed effects.
package snake

import (
	"snakepit/internal/effect"
	"snakepit/internal/grid"
)

const (
	// InitialLength is the segment count a snake spawns with.
	InitialLength = 3
	// ShedThreshold is the length past which a snake sheds its tail.
	ShedThreshold = 12
	// ShedRemainder is the exact segment count left after a shed.
	ShedRemainder = 4
	// ComboLength is the same-color streak that triggers an effect.
	ComboLength = 3
	// selfCollisionSkip is how many leading segments self-collision ignores,
	// so the head may occupy the tile the neck just vacated during a turn.
	selfCollisionSkip = 3
)

// State is the snake lifecycle phase.
type State uint8

const (
	StateAlive State = iota
	StateDead
	StateSpectating
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateDead:
		return "dead"
	case StateSpectating:
		return "spectating"
	}
	return "unknown"
}

// Streak is the running count of consecutive same-colored apples eaten.
// Color is retained after a trigger resets Count, for display.
type Streak struct {
	Color effect.Kind
	Count int
}

// Snake is one player's entity. All mutation happens on the orchestrator's
// tick; the type is not safe for concurrent use.
type Snake struct {
	ID   string
	Name string

	segments  []grid.Point // head at index 0
	dir       grid.Direction
	queued    grid.Direction
	hasQueued bool

	baseSpeed float64 // tiles per second
	speedMod  float64 // multiplicative, reset to 1.0 outside speed effects
	moveAcc   float64 // accumulated milliseconds toward the next move

	state   State
	streak  Streak
	started bool // streak has a color once the first apple is eaten

	effects   map[effect.Category]*effect.Active
	boardSize int
}

// New creates an alive snake at the given spawn tile heading dir, with
// InitialLength segments trailing behind the head.
func New(id, name string, spawn grid.Point, dir grid.Direction, baseSpeed float64, boardSize int) *Snake {
	segs := make([]grid.Point, InitialLength)
	back := dir.Opposite()
	p := spawn
	for i := range segs {
		segs[i] = p
		p = grid.Wrap(p.Step(back), boardSize)
	}
	return &Snake{
		ID:        id,
		Name:      name,
		segments:  segs,
		dir:       dir,
		baseSpeed: baseSpeed,
		speedMod:  1.0,
		state:     StateAlive,
		effects:   make(map[effect.Category]*effect.Active),
		boardSize: boardSize,
	}
}

// State returns the lifecycle phase.
func (s *Snake) State() State { return s.state }

// Alive reports whether the snake is still in play.
func (s *Snake) Alive() bool { return s.state == StateAlive }

// Head returns the head tile.
func (s *Snake) Head() grid.Point { return s.segments[0] }

// Direction returns the current heading.
func (s *Snake) Direction() grid.Direction { return s.dir }

// Segments returns the live segment slice, head first. Callers must not
// mutate it; use CopySegments for a snapshot.
func (s *Snake) Segments() []grid.Point { return s.segments }

// CopySegments returns a copy of the segment list, head first.
func (s *Snake) CopySegments() []grid.Point {
	out := make([]grid.Point, len(s.segments))
	copy(out, s.segments)
	return out
}

// Len returns the segment count.
func (s *Snake) Len() int { return len(s.segments) }

// ComboStreak returns the current streak.
func (s *Snake) ComboStreak() Streak { return s.streak }

// EffectiveSpeed returns tiles per second after the active speed modifier.
func (s *Snake) EffectiveSpeed() float64 { return s.baseSpeed * s.speedMod }

// SetDirection queues d to be applied at the next discrete move. Commands
// for a non-alive snake and 180-degree reversals of the current heading are
// silently ignored. Returns whether the command was accepted.
func (s *Snake) SetDirection(d grid.Direction) bool {
	if s.state != StateAlive {
		return false
	}
	if d == s.dir.Opposite() {
		return false
	}
	s.queued = d
	s.hasQueued = true
	return true
}

// Update advances the movement accumulator by dt milliseconds and performs
// at most one discrete move when it overflows the per-tile interval.
// Returns whether a move occurred; collision checks are only meaningful on
// move ticks.
func (s *Snake) Update(dtMs float64) bool {
	if s.state != StateAlive {
		return false
	}
	speed := s.EffectiveSpeed()
	if speed <= 0 {
		return false
	}
	interval := 1000.0 / speed
	s.moveAcc += dtMs
	if s.moveAcc < interval {
		return false
	}
	s.moveAcc -= interval
	// Keep a dense board from snowballing multiple moves into one tick.
	if s.moveAcc > interval {
		s.moveAcc = interval
	}
	s.move()
	return true
}

// move applies the queued direction and rotates segments toward the head.
func (s *Snake) move() {
	if s.hasQueued {
		if s.queued != s.dir.Opposite() {
			s.dir = s.queued
		}
		s.hasQueued = false
	}
	newHead := grid.Wrap(s.segments[0].Step(s.dir), s.boardSize)
	for i := len(s.segments) - 1; i > 0; i-- {
		s.segments[i] = s.segments[i-1]
	}
	s.segments[0] = newHead
}

// Grow appends a duplicate tail segment. If the resulting length exceeds
// ShedThreshold the snake is truncated to ShedRemainder segments and the
// truncated tiles are returned for gray-block seeding; otherwise nil.
// The batch holds each tile once: the stacked tail duplicate must not seed
// two blocks on one tile.
func (s *Snake) Grow() []grid.Point {
	tail := s.segments[len(s.segments)-1]
	s.segments = append(s.segments, tail)
	if len(s.segments) <= ShedThreshold {
		return nil
	}
	seen := make(map[grid.Point]struct{}, len(s.segments)-ShedRemainder)
	shed := make([]grid.Point, 0, len(s.segments)-ShedRemainder)
	for _, p := range s.segments[ShedRemainder:] {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		shed = append(shed, p)
	}
	s.segments = s.segments[:ShedRemainder:ShedRemainder]
	return shed
}

// EatApple folds an apple of the given color into the combo streak:
// increment on the same color, reset to 1 on a color change. Returns whether
// the streak just reached ComboLength, at which point the counter resets to
// zero while the color is retained for display.
func (s *Snake) EatApple(color effect.Kind) bool {
	if s.started && color == s.streak.Color {
		s.streak.Count++
	} else {
		s.streak = Streak{Color: color, Count: 1}
		s.started = true
	}
	if s.streak.Count >= ComboLength {
		s.streak.Count = 0
		return true
	}
	return false
}

// ApplyEffect installs a timed effect. Speed-category kinds (red/green)
// evict any existing speed effect first so exactly one speed modifier is
// ever active; other kinds are tracked for timer display only and never
// touch the speed modifier. No-op on a non-alive snake.
func (s *Snake) ApplyEffect(k effect.Kind, durationTicks int) {
	if s.state != StateAlive {
		return
	}
	cat := k.Category()
	if cat == effect.CategorySpeed {
		delete(s.effects, effect.CategorySpeed)
		s.speedMod = 1.0
	}
	s.effects[cat] = &effect.Active{
		Kind:      k,
		Remaining: durationTicks,
		Duration:  durationTicks,
	}
	if cat == effect.CategorySpeed {
		s.speedMod = k.SpeedModifier()
	}
}

// UpdateEffects advances every active effect by one tick, expiring lapsed
// ones. A lapsed speed effect resets the modifier to 1.0.
func (s *Snake) UpdateEffects() {
	for cat, a := range s.effects {
		a.Remaining--
		if a.Remaining <= 0 {
			delete(s.effects, cat)
			if cat == effect.CategorySpeed {
				s.speedMod = 1.0
			}
		}
	}
}

// Effects returns a copy of the active effect set in a fixed category
// order, so snapshots of identical replays compare equal.
func (s *Snake) Effects() []effect.Active {
	out := make([]effect.Active, 0, len(s.effects))
	for _, cat := range []effect.Category{effect.CategorySpeed, effect.CategoryShooter, effect.CategoryRain} {
		if a, ok := s.effects[cat]; ok {
			out = append(out, *a)
		}
	}
	return out
}

// CheckSelfCollision reports whether the head overlaps the snake's own body,
// ignoring the first segments behind the head.
func (s *Snake) CheckSelfCollision() bool {
	head := s.segments[0]
	for i := selfCollisionSkip; i < len(s.segments); i++ {
		if s.segments[i] == head {
			return true
		}
	}
	return false
}

// Occupies reports whether any segment sits on tile p.
func (s *Snake) Occupies(p grid.Point) bool {
	for _, seg := range s.segments {
		if seg == p {
			return true
		}
	}
	return false
}

// Die transitions the snake to dead exactly once and returns its segment
// tiles for gray-block seeding. Calling Die on a non-alive snake is a no-op
// returning nil.
func (s *Snake) Die() []grid.Point {
	if s.state != StateAlive {
		return nil
	}
	s.state = StateDead
	s.speedMod = 1.0
	clear(s.effects)
	return s.CopySegments()
}

// Spectate moves a dead snake into the spectating phase.
func (s *Snake) Spectate() {
	if s.state == StateDead {
		s.state = StateSpectating
	}
}

// Package sim is the simulation orchestrator: it owns every entity manager,
// executes one deterministic tick at a time, resolves collisions in a fixed
// order, and computes terminal scoring. The core is single-threaded; all
// mutation happens inside Step.
package sim

import (
	"math/rand"

	"snakepit/internal/apple"
	"snakepit/internal/block"
	"snakepit/internal/effect"
	"snakepit/internal/event"
	"snakepit/internal/grid"
	"snakepit/internal/projectile"
	"snakepit/internal/snake"
)

// Phase is the orchestrator state.
type Phase uint8

const (
	PhaseRunning Phase = iota
	PhaseOver
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseOver {
		return "over"
	}
	return "running"
}

type playerScore struct {
	apples     int
	combos     int
	aliveTicks int
}

// Simulation owns one match. Construct with New, drive with Step, observe
// through Snapshot and DrainEvents. Not safe for concurrent use; a single
// tick goroutine must own it.
type Simulation struct {
	cfg    Config
	phase  Phase
	tick   int
	rng    *rand.Rand
	snakes []*snake.Snake
	byID   map[string]*snake.Snake
	colors map[string]string

	apples  *apple.Population
	blocks  *block.Field
	shots   *projectile.Set
	effects *effect.Coordinator

	scores  map[string]*playerScore
	pending []event.Event
}

// New creates a session from the given configuration, spawning every player
// at its fixed slot.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	s := &Simulation{
		cfg:     cfg,
		rng:     rng,
		byID:    make(map[string]*snake.Snake),
		colors:  make(map[string]string),
		apples:  apple.NewPopulation(cfg.BoardSize, apple.MinPopulation, rng),
		blocks:  block.NewField(),
		shots:   projectile.NewSet(cfg.BoardSize),
		effects: effect.NewCoordinator(),
		scores:  make(map[string]*playerScore),
	}

	for slot, p := range cfg.Players {
		pos, dir := spawnSlot(slot, cfg.BoardSize)
		sn := snake.New(p.ID, p.Name, pos, dir, cfg.BaseSpeed, cfg.BoardSize)
		s.snakes = append(s.snakes, sn)
		s.byID[p.ID] = sn
		s.colors[p.ID] = p.Color
		s.scores[p.ID] = &playerScore{}
	}

	// First apples appear before the first tick so the board is never bare.
	s.apples.Maintain(s.occupiedTiles())
	return s, nil
}

// spawnSlot returns the fixed spawn tile and heading for a player slot,
// identical for every session on the same board size.
func spawnSlot(slot, boardSize int) (grid.Point, grid.Direction) {
	inset := boardSize / 4
	far := boardSize - 1 - inset
	switch slot {
	case 0:
		return grid.Point{X: inset, Y: inset}, grid.Right
	case 1:
		return grid.Point{X: far, Y: far}, grid.Left
	case 2:
		return grid.Point{X: far, Y: inset}, grid.Down
	default:
		return grid.Point{X: inset, Y: far}, grid.Up
	}
}

// Phase returns the orchestrator state.
func (s *Simulation) Phase() Phase { return s.phase }

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int { return s.tick }

// SetDirection queues a directional command for a player. Commands for
// unknown players, non-alive snakes, and 180-degree reversals are silently
// ignored. The queued direction is consumed at the snake's next move; the
// last command before it wins.
func (s *Simulation) SetDirection(playerID string, d grid.Direction) {
	if sn, ok := s.byID[playerID]; ok {
		sn.SetDirection(d)
	}
}

// DrainEvents returns the notifications accumulated since the last drain and
// clears the pending list.
func (s *Simulation) DrainEvents() []event.Event {
	out := s.pending
	s.pending = nil
	return out
}

func (s *Simulation) emit(e event.Event) {
	s.pending = append(s.pending, e)
}

// Step executes one deterministic simulation tick. No-op once the match is
// over.
func (s *Simulation) Step() {
	if s.phase != PhaseRunning {
		return
	}
	s.tick++

	// (1) Advance the global effect timer.
	if s.effects.Update() {
		s.emit(event.Event{Type: event.GlobalEffectEnded, Kind: effect.Blue})
	}

	// (2) Recompute the externally occupied tile set for apple placement.
	occupied := s.occupiedTiles()

	// (3) Movement for every alive snake; queued directions are applied
	// inside the move, and all moves complete before any collision test.
	moved := make(map[string]bool, len(s.snakes))
	for _, sn := range s.snakes {
		if !sn.Alive() {
			continue
		}
		moved[sn.ID] = sn.Update(TickMs)
		sn.UpdateEffects()
		s.scores[sn.ID].aliveTicks++
	}

	// Apple collisions and combo effects, only on move ticks.
	for _, sn := range s.snakes {
		if !sn.Alive() || !moved[sn.ID] {
			continue
		}
		s.resolveApple(sn, occupied)
	}

	// Fatal collisions for all snakes are tested before any death is
	// finalized, so simultaneous head-to-head hits kill both.
	var dying []*snake.Snake
	for _, sn := range s.snakes {
		if !sn.Alive() || !moved[sn.ID] {
			continue
		}
		if s.fatalCollision(sn) {
			dying = append(dying, sn)
		}
	}
	for _, sn := range dying {
		body := sn.Die()
		s.blocks.AddBatch(body)
		s.emit(event.Event{Type: event.SnakeDied, PlayerID: sn.ID, Pos: sn.Head(), Freed: body})
		sn.Spectate()
	}

	// (4) Advance the entity managers.
	s.apples.Update()
	s.apples.Maintain(occupied)
	s.blocks.Update()
	for _, hit := range s.shots.Update(TickMs, s.blocks) {
		// The freed tile is claimed in the same tick the block reported
		// it occupied, so no second system can take it.
		a := s.apples.SpawnAt(hit.Pos, s.apples.RandomColor())
		s.emit(event.Event{Type: event.ProjectileHit, PlayerID: hit.OwnerID, Pos: hit.Pos, Kind: a.Color})
	}

	// (5) Terminal transition, exactly once.
	if s.aliveCount() == 0 {
		s.phase = PhaseOver
		s.emit(event.Event{Type: event.MatchOver, Scores: s.FinalScores()})
	}
}

// resolveApple consumes the apple under the snake head, if any, awarding
// base points and dispatching the combo effect on a trigger.
func (s *Simulation) resolveApple(sn *snake.Snake, occupied map[grid.Point]struct{}) {
	a := s.apples.CheckCollision(sn.Head())
	if a == nil {
		return
	}
	color := a.Color
	triggered := s.apples.Consume(a, sn)
	s.scores[sn.ID].apples++
	s.emit(event.Event{Type: event.AppleConsumed, PlayerID: sn.ID, Kind: color, Pos: sn.Head(), Points: PointsPerApple})

	if shed := sn.Grow(); shed != nil {
		s.blocks.AddBatch(shed)
		s.emit(event.Event{Type: event.TailShed, PlayerID: sn.ID, Freed: shed})
	}

	if !triggered {
		return
	}
	s.scores[sn.ID].combos++
	s.emit(event.Event{Type: event.ComboTriggered, PlayerID: sn.ID, Kind: color, Points: PointsPerCombo})

	out := s.effects.Apply(color, sn.ID, sn)
	if out.GlobalStarted {
		s.emit(event.Event{Type: event.GlobalEffectStarted, PlayerID: sn.ID, Kind: color})
	}
	if out.SpawnProjectile {
		p := s.shots.Spawn(sn.ID, sn.Head(), sn.Direction())
		s.emit(event.Event{Type: event.ProjectileSpawned, PlayerID: sn.ID, Pos: p.Pos})
	}
	if out.AppleBurst {
		s.apples.Burst(apple.BurstCount, occupied)
	}
}

// fatalCollision tests self, other-snake, and gray-block collisions for one
// snake head.
func (s *Simulation) fatalCollision(sn *snake.Snake) bool {
	if sn.CheckSelfCollision() {
		return true
	}
	head := sn.Head()
	for _, other := range s.snakes {
		if other == sn || !other.Alive() {
			continue
		}
		if other.Occupies(head) {
			return true
		}
	}
	return s.blocks.HasBlockAt(head)
}

// occupiedTiles collects alive snake segments and active gray blocks, the
// advisory set excluded from apple placement.
func (s *Simulation) occupiedTiles() map[grid.Point]struct{} {
	occ := make(map[grid.Point]struct{})
	for _, sn := range s.snakes {
		if !sn.Alive() {
			continue
		}
		for _, seg := range sn.Segments() {
			occ[seg] = struct{}{}
		}
	}
	for _, b := range s.blocks.Blocks() {
		if b.State() == block.StateActive {
			occ[b.Pos] = struct{}{}
		}
	}
	return occ
}

func (s *Simulation) aliveCount() int {
	n := 0
	for _, sn := range s.snakes {
		if sn.Alive() {
			n++
		}
	}
	return n
}

// runningScore is the score shown while the match runs: apples, combos, and
// whole seconds survived.
func (s *Simulation) runningScore(playerID string) int {
	sc, ok := s.scores[playerID]
	if !ok {
		return 0
	}
	return sc.apples*PointsPerApple + sc.combos*PointsPerCombo + sc.aliveTicks/TickRate*PointsPerSecond
}

// FinalScores computes the terminal score map: running score plus the
// survival bonus for every snake holding the maximum survival time, awarded
// only when the session had more than one player. Final-length bonuses are
// intentionally not computed here; the terminal snapshot carries segment
// counts for collaborators that want their own.
func (s *Simulation) FinalScores() map[string]int {
	scores := make(map[string]int, len(s.snakes))
	maxTicks := 0
	for id, sc := range s.scores {
		scores[id] = s.runningScore(id)
		if sc.aliveTicks > maxTicks {
			maxTicks = sc.aliveTicks
		}
	}
	if len(s.snakes) > 1 && maxTicks > 0 {
		for id, sc := range s.scores {
			if sc.aliveTicks == maxTicks {
				scores[id] += SurvivalBonus
			}
		}
	}
	return scores
}

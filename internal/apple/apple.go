// Package apple manages the apple population: spawn placement, the
// minimum-population invariant, combo-trigger detection on consumption, and
// the purple apple-rain burst.
package apple

import (
	"math/rand"

	"snakepit/internal/effect"
	"snakepit/internal/grid"
)

const (
	// MinPopulation is the default population floor re-topped every tick.
	MinPopulation = 5
	// BurstCount is how many extra apples a purple apple rain drops.
	BurstCount = 8
	// SpawnWindowTicks is how long a fresh apple stays in the spawning
	// state before it becomes edible (0.5 s).
	SpawnWindowTicks = 30
	// placementProbes bounds the random placement attempts before falling
	// back to an exhaustive empty-tile scan.
	placementProbes = 50
)

// State is the apple lifecycle phase.
type State uint8

const (
	StateSpawning State = iota
	StateActive
	StateConsumed
)

// Apple is a single apple. A consumed apple is removed from the live set
// and never reused.
type Apple struct {
	ID         int
	Color      effect.Kind
	Pos        grid.Point
	state      State
	spawnTicks int
}

// State returns the lifecycle phase.
func (a *Apple) State() State { return a.state }

// Eater is the snake-side hook for consumption. Returns whether a combo
// trigger fired.
type Eater interface {
	EatApple(color effect.Kind) bool
}

// Population owns the live apple set for one session.
type Population struct {
	boardSize int
	minCount  int
	apples    []*Apple
	nextID    int
	rng       *rand.Rand
}

// NewPopulation creates an empty population. The rng is the session's seeded
// source; the population never draws from package-level randomness.
func NewPopulation(boardSize, minCount int, rng *rand.Rand) *Population {
	if minCount <= 0 {
		minCount = MinPopulation
	}
	return &Population{
		boardSize: boardSize,
		minCount:  minCount,
		rng:       rng,
	}
}

// Apples returns the live set. Callers must not mutate it.
func (p *Population) Apples() []*Apple { return p.apples }

// Len returns the live apple count, spawning included.
func (p *Population) Len() int { return len(p.apples) }

// Update advances spawning timers, promoting spawning apples to active.
func (p *Population) Update() {
	for _, a := range p.apples {
		if a.state == StateSpawning {
			a.spawnTicks--
			if a.spawnTicks <= 0 {
				a.state = StateActive
			}
		}
	}
}

// Maintain tops the population back up to the minimum by placing new apples
// on empty tiles. occupied lists tiles held by external entities (snake
// segments, gray blocks); existing apple tiles are excluded as well. Surplus
// apples above the minimum are never removed here; only consumption shrinks
// the set. A fully occupied board yields no apple this tick; the next tick
// retries.
func (p *Population) Maintain(occupied map[grid.Point]struct{}) {
	for len(p.apples) < p.minCount {
		pos, ok := p.findEmpty(occupied)
		if !ok {
			return
		}
		p.place(pos, p.randomColor())
	}
}

// Burst drops extra apples at once, for the purple apple rain. The resulting
// surplus above the minimum decays only through consumption.
func (p *Population) Burst(count int, occupied map[grid.Point]struct{}) int {
	placed := 0
	for i := 0; i < count; i++ {
		pos, ok := p.findEmpty(occupied)
		if !ok {
			break
		}
		p.place(pos, p.randomColor())
		placed++
	}
	return placed
}

// SpawnAt places an apple of the given color on a specific tile, used when a
// converting gray block hands its tile over. The claim is unconditional; the
// caller guarantees the tile was just freed.
func (p *Population) SpawnAt(pos grid.Point, color effect.Kind) *Apple {
	return p.place(pos, color)
}

// RandomColor draws a uniform apple color from the session rng.
func (p *Population) RandomColor() effect.Kind { return p.randomColor() }

// CheckCollision returns the active apple under the snake head, if any.
// Spawning apples are not yet edible.
func (p *Population) CheckCollision(head grid.Point) *Apple {
	for _, a := range p.apples {
		if a.state == StateActive && a.Pos == head {
			return a
		}
	}
	return nil
}

// Consume removes the apple from the live set and folds it into the eater's
// combo streak. Returns whether a combo trigger fired; the caller invokes
// the effect coordinator when true. Consuming an already-consumed apple is a
// no-op.
func (p *Population) Consume(a *Apple, e Eater) bool {
	if a == nil || a.state == StateConsumed {
		return false
	}
	a.state = StateConsumed
	kept := p.apples[:0]
	for _, other := range p.apples {
		if other != a {
			kept = append(kept, other)
		}
	}
	p.apples = kept
	return e.EatApple(a.Color)
}

// HasAppleAt reports whether any live apple holds tile pos.
func (p *Population) HasAppleAt(pos grid.Point) bool {
	for _, a := range p.apples {
		if a.Pos == pos {
			return true
		}
	}
	return false
}

func (p *Population) place(pos grid.Point, color effect.Kind) *Apple {
	a := &Apple{
		ID:         p.nextID,
		Color:      color,
		Pos:        pos,
		state:      StateSpawning,
		spawnTicks: SpawnWindowTicks,
	}
	p.nextID++
	p.apples = append(p.apples, a)
	return a
}

func (p *Population) randomColor() effect.Kind {
	return effect.Kinds[p.rng.Intn(len(effect.Kinds))]
}

// findEmpty samples random tiles a bounded number of times, then falls back
// to an exhaustive scan when the board is dense. Malformed occupied entries
// outside the board are harmless; they simply never match a candidate tile.
func (p *Population) findEmpty(occupied map[grid.Point]struct{}) (grid.Point, bool) {
	for i := 0; i < placementProbes; i++ {
		pos := grid.Point{X: p.rng.Intn(p.boardSize), Y: p.rng.Intn(p.boardSize)}
		if p.isEmpty(pos, occupied) {
			return pos, true
		}
	}
	var empties []grid.Point
	for y := 0; y < p.boardSize; y++ {
		for x := 0; x < p.boardSize; x++ {
			pos := grid.Point{X: x, Y: y}
			if p.isEmpty(pos, occupied) {
				empties = append(empties, pos)
			}
		}
	}
	if len(empties) == 0 {
		return grid.Point{}, false
	}
	return empties[p.rng.Intn(len(empties))], true
}

func (p *Population) isEmpty(pos grid.Point, occupied map[grid.Point]struct{}) bool {
	if _, taken := occupied[pos]; taken {
		return false
	}
	return !p.HasAppleAt(pos)
}

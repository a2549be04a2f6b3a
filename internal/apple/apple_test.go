package apple

import (
	"math/rand"
	"testing"

	"snakepit/internal/effect"
	"snakepit/internal/grid"
)

type fakeEater struct {
	colors  []effect.Kind
	trigger bool
}

func (f *fakeEater) EatApple(c effect.Kind) bool {
	f.colors = append(f.colors, c)
	return f.trigger
}

func newTestPopulation(size int) *Population {
	return NewPopulation(size, MinPopulation, rand.New(rand.NewSource(1)))
}

func activate(p *Population) {
	for i := 0; i < SpawnWindowTicks; i++ {
		p.Update()
	}
}

func TestMaintainTopsUpToMinimum(t *testing.T) {
	p := newTestPopulation(15)
	p.Maintain(nil)
	if p.Len() != MinPopulation {
		t.Fatalf("population = %d, want %d", p.Len(), MinPopulation)
	}
	seen := map[grid.Point]bool{}
	for _, a := range p.Apples() {
		if !grid.InBounds(a.Pos, 15) {
			t.Errorf("apple outside the board at %v", a.Pos)
		}
		if seen[a.Pos] {
			t.Errorf("two apples on tile %v", a.Pos)
		}
		seen[a.Pos] = true
	}
}

func TestMaintainExcludesOccupiedTiles(t *testing.T) {
	// A 3x3 board with all but two tiles occupied forces the exhaustive
	// fallback and must only use the free tiles.
	p := NewPopulation(3, 2, rand.New(rand.NewSource(1)))
	occupied := map[grid.Point]struct{}{}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if (x == 0 && y == 0) || (x == 2 && y == 2) {
				continue
			}
			occupied[grid.Point{X: x, Y: y}] = struct{}{}
		}
	}
	p.Maintain(occupied)
	if p.Len() != 2 {
		t.Fatalf("population = %d, want 2", p.Len())
	}
	for _, a := range p.Apples() {
		if _, taken := occupied[a.Pos]; taken {
			t.Errorf("apple placed on occupied tile %v", a.Pos)
		}
	}
}

func TestFullBoardYieldsNoApple(t *testing.T) {
	p := NewPopulation(2, 5, rand.New(rand.NewSource(1)))
	occupied := map[grid.Point]struct{}{}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			occupied[grid.Point{X: x, Y: y}] = struct{}{}
		}
	}
	p.Maintain(occupied)
	if p.Len() != 0 {
		t.Errorf("population on a full board = %d, want 0", p.Len())
	}
}

func TestBurstSurplusIsKeptByMaintain(t *testing.T) {
	p := newTestPopulation(15)
	p.Maintain(nil)
	placed := p.Burst(BurstCount, nil)
	if placed != BurstCount {
		t.Fatalf("burst placed %d apples, want %d", placed, BurstCount)
	}
	want := MinPopulation + BurstCount
	p.Maintain(nil)
	if p.Len() != want {
		t.Errorf("population after maintain = %d, want surplus kept at %d", p.Len(), want)
	}
}

func TestSpawningAppleNotEdible(t *testing.T) {
	p := newTestPopulation(15)
	a := p.SpawnAt(grid.Point{X: 4, Y: 4}, effect.Red)
	if got := p.CheckCollision(a.Pos); got != nil {
		t.Error("spawning apple should not collide")
	}
	activate(p)
	if a.State() != StateActive {
		t.Fatalf("apple state after spawn window = %v, want active", a.State())
	}
	if got := p.CheckCollision(a.Pos); got != a {
		t.Error("active apple should collide with the head on its tile")
	}
}

func TestConsumeRemovesAndDelegates(t *testing.T) {
	p := newTestPopulation(15)
	a := p.SpawnAt(grid.Point{X: 4, Y: 4}, effect.Purple)
	activate(p)

	e := &fakeEater{trigger: true}
	if !p.Consume(a, e) {
		t.Error("combo trigger should propagate from the eater")
	}
	if len(e.colors) != 1 || e.colors[0] != effect.Purple {
		t.Errorf("eater saw colors %v, want [purple]", e.colors)
	}
	if p.Len() != 0 {
		t.Errorf("population after consume = %d, want 0", p.Len())
	}
	// Double consumption is a lifecycle-guarded no-op.
	if p.Consume(a, e) {
		t.Error("consuming a consumed apple must be a no-op")
	}
	if len(e.colors) != 1 {
		t.Error("no-op consume must not reach the eater")
	}
}

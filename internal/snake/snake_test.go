package snake

import (
	"testing"

	"snakepit/internal/effect"
	"snakepit/internal/grid"
)

const tickMs = 1000.0 / 60.0

func newTestSnake() *Snake {
	return New("p1", "player one", grid.Point{X: 7, Y: 7}, grid.Right, 2.0, 15)
}

// stepUntilMove drives Update with fixed ticks until a move occurs.
func stepUntilMove(t *testing.T, s *Snake) {
	t.Helper()
	for i := 0; i < 120; i++ {
		if s.Update(tickMs) {
			return
		}
	}
	t.Fatal("snake never moved within 120 ticks")
}

func TestNewSnakeLayout(t *testing.T) {
	s := newTestSnake()
	if s.Len() != InitialLength {
		t.Fatalf("initial length = %d, want %d", s.Len(), InitialLength)
	}
	want := []grid.Point{{X: 7, Y: 7}, {X: 6, Y: 7}, {X: 5, Y: 7}}
	for i, p := range s.Segments() {
		if p != want[i] {
			t.Errorf("segment %d = %v, want %v", i, p, want[i])
		}
	}
	if !s.Alive() {
		t.Error("new snake should be alive")
	}
}

func TestSetDirectionRejectsReverse(t *testing.T) {
	s := newTestSnake() // heading right
	if s.SetDirection(grid.Left) {
		t.Error("reverse direction should be rejected")
	}
	if !s.SetDirection(grid.Up) {
		t.Error("perpendicular direction should be accepted")
	}
	stepUntilMove(t, s)
	if s.Direction() != grid.Up {
		t.Errorf("direction after move = %v, want up", s.Direction())
	}
	// No accepted pair of consecutive directions may be opposites.
	if s.SetDirection(grid.Down) {
		t.Error("reverse of new heading should be rejected")
	}
}

func TestSetDirectionIgnoredWhenDead(t *testing.T) {
	s := newTestSnake()
	s.Die()
	if s.SetDirection(grid.Up) {
		t.Error("direction command for a dead snake should be ignored")
	}
}

func TestMovementRotationAndWrap(t *testing.T) {
	s := New("p1", "p1", grid.Point{X: 14, Y: 7}, grid.Right, 2.0, 15)
	stepUntilMove(t, s)
	if got := s.Head(); got != (grid.Point{X: 0, Y: 7}) {
		t.Errorf("head after wrap move = %v, want (0,7)", got)
	}
	// Neck should now sit where the head was.
	if got := s.Segments()[1]; got != (grid.Point{X: 14, Y: 7}) {
		t.Errorf("neck = %v, want (14,7)", got)
	}
}

func TestMoveIntervalMatchesSpeed(t *testing.T) {
	s := newTestSnake() // 2 tiles/sec => one move per 500 ms => every ~30 ticks
	moves := 0
	for i := 0; i < 61; i++ {
		if s.Update(tickMs) {
			moves++
		}
	}
	if moves != 2 {
		t.Errorf("moves in ~1 s at 2 tiles/sec = %d, want 2", moves)
	}
}

func TestGrowAndShed(t *testing.T) {
	// Grow on move ticks, as eating does in a match: each growth duplicates
	// the tail and the next move spreads the pair apart again.
	s := newTestSnake()
	var shed []grid.Point
	grown := 0
	for shed == nil {
		stepUntilMove(t, s)
		shed = s.Grow()
		grown++
		if grown > ShedThreshold+1 {
			t.Fatal("shed never occurred")
		}
	}
	if s.Len() != ShedRemainder {
		t.Errorf("length after shed = %d, want %d", s.Len(), ShedRemainder)
	}
	// The freshly duplicated tail collapses into one tile, so the batch is
	// one short of the truncated segment count.
	if want := ShedThreshold + 1 - ShedRemainder - 1; len(shed) != want {
		t.Errorf("shed tile count = %d, want %d", len(shed), want)
	}
	if s.Len() < InitialLength {
		t.Errorf("shed remainder %d violates the minimum length %d", s.Len(), InitialLength)
	}
}

func TestShedBatchHoldsEachTileOnce(t *testing.T) {
	// Stacked tail duplicates (growth without movement is the worst case)
	// must collapse to one entry per tile, or the gray-block field would
	// seed two blocks on one position.
	s := newTestSnake()
	var shed []grid.Point
	for i := 0; shed == nil; i++ {
		shed = s.Grow()
		if i > ShedThreshold+1 {
			t.Fatal("shed never occurred")
		}
	}
	seen := map[grid.Point]bool{}
	for _, p := range shed {
		if seen[p] {
			t.Errorf("tile %v appears twice in the shed batch", p)
		}
		seen[p] = true
	}
}

func TestComboStreak(t *testing.T) {
	s := newTestSnake()

	// red, red, red: trigger on the third, count resets, color retained.
	if s.EatApple(effect.Red) || s.EatApple(effect.Red) {
		t.Fatal("streak triggered before the third apple")
	}
	if !s.EatApple(effect.Red) {
		t.Fatal("third same-colored apple should trigger")
	}
	if st := s.ComboStreak(); st.Count != 0 || st.Color != effect.Red {
		t.Errorf("streak after trigger = %+v, want count 0 color red", st)
	}

	// red, red, green: color change resets to 1, never triggers.
	s = newTestSnake()
	s.EatApple(effect.Red)
	s.EatApple(effect.Red)
	if s.EatApple(effect.Green) {
		t.Error("color change must not trigger")
	}
	if st := s.ComboStreak(); st.Count != 1 || st.Color != effect.Green {
		t.Errorf("streak after color change = %+v, want count 1 color green", st)
	}
}

func TestSpeedEffectExclusivity(t *testing.T) {
	s := newTestSnake()
	s.ApplyEffect(effect.Green, 600)
	if got := s.EffectiveSpeed(); got != 1.0 {
		t.Fatalf("speed under green = %v, want 1.0", got)
	}
	s.ApplyEffect(effect.Red, 600)
	if got := s.EffectiveSpeed(); got != 3.0 {
		t.Errorf("speed under red-over-green = %v, want 3.0 (never 0.75x base)", got)
	}
	speedEffects := 0
	for _, a := range s.Effects() {
		if a.Kind.Category() == effect.CategorySpeed {
			speedEffects++
			if a.Kind != effect.Red {
				t.Errorf("surviving speed effect = %v, want red", a.Kind)
			}
		}
	}
	if speedEffects != 1 {
		t.Errorf("active speed effects = %d, want exactly 1", speedEffects)
	}
}

func TestEffectExpiryResetsModifier(t *testing.T) {
	s := newTestSnake()
	s.ApplyEffect(effect.Red, 3)
	for i := 0; i < 3; i++ {
		s.UpdateEffects()
	}
	if got := s.EffectiveSpeed(); got != 2.0 {
		t.Errorf("speed after expiry = %v, want base 2.0", got)
	}
	if len(s.Effects()) != 0 {
		t.Error("expired effect should be removed")
	}
}

func TestNonSpeedEffectKeepsModifier(t *testing.T) {
	s := newTestSnake()
	s.ApplyEffect(effect.Orange, 600)
	if got := s.EffectiveSpeed(); got != 2.0 {
		t.Errorf("speed under orange = %v, want base 2.0", got)
	}
}

func TestSelfCollisionIgnoresNeck(t *testing.T) {
	s := newTestSnake()
	// Grow enough body to turn back into.
	for i := 0; i < 5; i++ {
		s.Grow()
	}
	if s.CheckSelfCollision() {
		t.Fatal("freshly grown snake should not self-collide")
	}
	// A tight turn puts the head beside recently vacated tiles; the skip
	// window keeps that legal.
	s.SetDirection(grid.Up)
	stepUntilMove(t, s)
	if s.CheckSelfCollision() {
		t.Error("turning must not register as self-collision")
	}
}

func TestDieIdempotent(t *testing.T) {
	s := newTestSnake()
	body := s.Die()
	if len(body) != InitialLength {
		t.Fatalf("died body = %d tiles, want %d", len(body), InitialLength)
	}
	if s.State() != StateDead {
		t.Errorf("state after die = %v, want dead", s.State())
	}
	if again := s.Die(); again != nil {
		t.Errorf("second die returned %d tiles, want none", len(again))
	}
	s.Spectate()
	if s.State() != StateSpectating {
		t.Errorf("state after spectate = %v, want spectating", s.State())
	}
}

func TestEffectIgnoredWhenDead(t *testing.T) {
	s := newTestSnake()
	s.Die()
	s.ApplyEffect(effect.Red, 600)
	if len(s.Effects()) != 0 {
		t.Error("effect applied to a dead snake should be ignored")
	}
}

package effect

import "testing"

type fakeTarget struct {
	alive   bool
	applied []Kind
}

func (f *fakeTarget) ApplyEffect(k Kind, durationTicks int) {
	f.applied = append(f.applied, k)
}

func (f *fakeTarget) Alive() bool { return f.alive }

func TestApplyDispatch(t *testing.T) {
	tests := []struct {
		kind        Kind
		wantOnSnake bool
		want        Outcome
	}{
		{Red, true, Outcome{Applied: true}},
		{Green, true, Outcome{Applied: true}},
		{Blue, false, Outcome{Applied: true, GlobalStarted: true}},
		{Orange, true, Outcome{Applied: true, SpawnProjectile: true}},
		{Purple, true, Outcome{Applied: true, AppleBurst: true}},
	}
	for _, tt := range tests {
		c := NewCoordinator()
		target := &fakeTarget{alive: true}
		got := c.Apply(tt.kind, "p1", target)
		if got != tt.want {
			t.Errorf("%v: outcome = %+v, want %+v", tt.kind, got, tt.want)
		}
		if onSnake := len(target.applied) > 0; onSnake != tt.wantOnSnake {
			t.Errorf("%v: applied to snake = %v, want %v", tt.kind, onSnake, tt.wantOnSnake)
		}
	}
}

func TestApplyIgnoresDeadSnake(t *testing.T) {
	c := NewCoordinator()
	target := &fakeTarget{alive: false}
	if out := c.Apply(Red, "p1", target); out.Applied {
		t.Error("effect on a dead snake should be ignored")
	}
	if len(target.applied) != 0 {
		t.Error("dead snake must not receive effects")
	}
}

func TestBlueRestartsNotStacks(t *testing.T) {
	c := NewCoordinator()
	target := &fakeTarget{alive: true}
	c.Apply(Blue, "p1", target)

	for i := 0; i < 100; i++ {
		c.Update()
	}
	before, ok := c.Active()
	if !ok {
		t.Fatal("global effect should still be active")
	}
	if before.Remaining != GlobalDurationTicks-100 {
		t.Fatalf("remaining = %d, want %d", before.Remaining, GlobalDurationTicks-100)
	}

	c.Apply(Blue, "p2", target)
	after, ok := c.Active()
	if !ok {
		t.Fatal("global effect should be active after reapply")
	}
	if after.Remaining != GlobalDurationTicks {
		t.Errorf("remaining after reapply = %d, want restarted at %d", after.Remaining, GlobalDurationTicks)
	}
	if after.TriggeredBy != "p2" {
		t.Errorf("triggeredBy = %q, want p2", after.TriggeredBy)
	}
}

func TestGlobalEndsExactlyOnce(t *testing.T) {
	c := NewCoordinator()
	c.Apply(Blue, "p1", &fakeTarget{alive: true})

	ends := 0
	for i := 0; i < GlobalDurationTicks*2; i++ {
		if c.Update() {
			ends++
		}
	}
	if ends != 1 {
		t.Errorf("end notifications = %d, want exactly 1", ends)
	}
	if _, ok := c.Active(); ok {
		t.Error("global effect should be gone after expiry")
	}
}

func TestKindData(t *testing.T) {
	if Red.SpeedModifier() != 1.5 || Green.SpeedModifier() != 0.5 {
		t.Error("speed-category modifiers wrong")
	}
	for _, k := range []Kind{Blue, Orange, Purple} {
		if k.SpeedModifier() != 1.0 {
			t.Errorf("%v carries a speed modifier", k)
		}
	}
	if Red.Category() != CategorySpeed || Green.Category() != CategorySpeed {
		t.Error("red/green must share the speed category")
	}
	if !Blue.Global() || Red.Global() {
		t.Error("blue is the only global kind")
	}
}

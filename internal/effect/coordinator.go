package effect

// Tick-counted durations at the 60 Hz simulation rate.
const (
	// SnakeDurationTicks is how long a per-snake effect lasts (10 s).
	SnakeDurationTicks = 600
	// GlobalDurationTicks is how long the blue board effect lasts (8 s).
	GlobalDurationTicks = 480
)

// Target is the per-snake side of effect application. Implemented by the
// snake entity; the coordinator holds no per-snake state itself.
type Target interface {
	ApplyEffect(k Kind, durationTicks int)
	Alive() bool
}

// Global is the single board-wide effect slot.
type Global struct {
	Kind        Kind
	Remaining   int
	Duration    int
	TriggeredBy string
}

// Outcome reports the side effects the orchestrator must carry out after an
// Apply call. The coordinator never mutates the apple or projectile sets
// itself.
type Outcome struct {
	Applied         bool
	GlobalStarted   bool
	SpawnProjectile bool
	AppleBurst      bool
}

// Coordinator arbitrates effect application. Per-snake effects are delegated
// to the triggering snake; the one global effect occupies a single slot here,
// restarting its timer when re-triggered instead of stacking.
type Coordinator struct {
	global *Global
}

// NewCoordinator returns a coordinator with no active global effect.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Apply dispatches a combo-triggered effect of kind k for the given snake.
// Effects applied to a non-alive snake are ignored.
func (c *Coordinator) Apply(k Kind, playerID string, t Target) Outcome {
	if t == nil || !t.Alive() {
		return Outcome{}
	}

	out := Outcome{Applied: true}
	switch k {
	case Red, Green:
		t.ApplyEffect(k, SnakeDurationTicks)
	case Blue:
		// Replacing an existing blue effect restarts the timer.
		c.global = &Global{
			Kind:        Blue,
			Remaining:   GlobalDurationTicks,
			Duration:    GlobalDurationTicks,
			TriggeredBy: playerID,
		}
		out.GlobalStarted = true
	case Orange:
		t.ApplyEffect(k, SnakeDurationTicks)
		out.SpawnProjectile = true
	case Purple:
		t.ApplyEffect(k, SnakeDurationTicks)
		out.AppleBurst = true
	default:
		out.Applied = false
	}
	return out
}

// Update advances the global effect timer by one tick and reports whether
// the effect ended on this tick. The end is reported exactly once.
func (c *Coordinator) Update() (ended bool) {
	if c.global == nil {
		return false
	}
	c.global.Remaining--
	if c.global.Remaining <= 0 {
		c.global = nil
		return true
	}
	return false
}

// Active returns the current global effect, if any.
func (c *Coordinator) Active() (Global, bool) {
	if c.global == nil {
		return Global{}, false
	}
	return *c.global, true
}

// Package effect defines the closed set of power-up kinds and the
// coordinator that arbitrates per-snake versus board-global timed effects.
//
// A Kind doubles as an apple color: eating three same-colored apples in a
// row triggers the effect of that color.
package effect

// Kind identifies one of the five power-up colors.
type Kind uint8

const (
	Red    Kind = iota // speed boost
	Green              // slow-down
	Blue               // board-wide distortion, the only global effect
	Orange             // spawns a projectile
	Purple             // apple rain
)

// Kinds lists every effect kind, for random apple coloring.
var Kinds = [...]Kind{Red, Green, Blue, Orange, Purple}

// String returns the color name of the kind.
func (k Kind) String() string {
	switch k {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Orange:
		return "orange"
	case Purple:
		return "purple"
	default:
		return "unknown"
	}
}

// Category groups kinds that are mutually exclusive on a single snake.
type Category uint8

const (
	CategorySpeed   Category = iota // red and green
	CategoryShooter                 // orange
	CategoryRain                    // purple
	CategoryGlobal                  // blue, lives in the coordinator
)

// Category returns the exclusivity category the kind belongs to.
func (k Kind) Category() Category {
	switch k {
	case Red, Green:
		return CategorySpeed
	case Orange:
		return CategoryShooter
	case Purple:
		return CategoryRain
	default:
		return CategoryGlobal
	}
}

// SpeedModifier returns the multiplicative speed change the kind applies
// while active. Kinds outside the speed category return 1.0.
func (k Kind) SpeedModifier() float64 {
	switch k {
	case Red:
		return 1.5
	case Green:
		return 0.5
	default:
		return 1.0
	}
}

// Global reports whether the kind affects the whole board rather than a
// single snake.
func (k Kind) Global() bool {
	return k == Blue
}

// Active is a timed effect instance. Durations count simulation ticks, not
// wall time, so replays of the same input sequence expire effects on the
// same tick.
type Active struct {
	Kind      Kind
	Remaining int
	Duration  int
}

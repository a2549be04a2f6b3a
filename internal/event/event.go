// Package event defines the point-in-time notifications the simulation
// produces each tick. The orchestrator accumulates them during a step and
// collaborators (rendering, audio, screen shake) drain them afterwards; the
// core never calls upward into its consumers.
package event

import (
	"snakepit/internal/effect"
	"snakepit/internal/grid"
)

// Type identifies the notification kind.
type Type uint8

const (
	AppleConsumed Type = iota
	ComboTriggered
	SnakeDied
	TailShed
	ProjectileSpawned
	ProjectileHit
	GlobalEffectStarted
	GlobalEffectEnded
	MatchOver
)

// String returns the notification name.
func (t Type) String() string {
	switch t {
	case AppleConsumed:
		return "apple-consumed"
	case ComboTriggered:
		return "combo-triggered"
	case SnakeDied:
		return "snake-died"
	case TailShed:
		return "tail-shed"
	case ProjectileSpawned:
		return "projectile-spawned"
	case ProjectileHit:
		return "projectile-hit"
	case GlobalEffectStarted:
		return "global-effect-started"
	case GlobalEffectEnded:
		return "global-effect-ended"
	case MatchOver:
		return "match-over"
	}
	return "unknown"
}

// Event is a single notification. Only the fields relevant to the type are
// populated.
type Event struct {
	Type     Type
	PlayerID string         // owner or victim, where applicable
	Kind     effect.Kind    // apple color / effect kind
	Pos      grid.Point     // tile the event happened on
	Freed    []grid.Point   // shed or dead segment tiles
	Points   int            // score awarded by this event
	Scores   map[string]int // final score map, MatchOver only
}

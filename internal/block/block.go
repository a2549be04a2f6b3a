// Package block manages the gray-block field: solid obstacles seeded from
// shed or dead snake segments, with a timed projectile-triggered conversion
// back into an apple tile.
package block

import "snakepit/internal/grid"

// ConversionWindowTicks is how long a converting block stays visible before
// it removes itself (0.75 s). The timing belongs to the block, not the
// orchestrator.
const ConversionWindowTicks = 45

// State is the block lifecycle phase.
type State uint8

const (
	StateActive State = iota
	StateConverting
	StateRemoved
)

// Block is one gray obstacle tile.
type Block struct {
	ID           int
	Pos          grid.Point
	state        State
	convertTicks int
}

// State returns the lifecycle phase.
func (b *Block) State() State { return b.state }

// Field owns the gray-block set for one session.
type Field struct {
	blocks []*Block
	nextID int
}

// NewField returns an empty field.
func NewField() *Field {
	return &Field{}
}

// Blocks returns the live set, converting blocks included. Callers must not
// mutate it.
func (f *Field) Blocks() []*Block { return f.blocks }

// AddBatch creates active blocks on the given tiles, typically a shed tail
// or a whole dead snake body. A tile that already holds an active block is
// skipped, so overlapping batches (two snakes dying head-to-head on the same
// tile) never stack two blocks on one position.
func (f *Field) AddBatch(positions []grid.Point) {
	for _, pos := range positions {
		if f.HasBlockAt(pos) {
			continue
		}
		f.blocks = append(f.blocks, &Block{ID: f.nextID, Pos: pos, state: StateActive})
		f.nextID++
	}
}

// HasBlockAt reports whether an active block occupies tile pos. Converting
// blocks have already handed their tile to an apple and are no longer solid.
func (f *Field) HasBlockAt(pos grid.Point) bool {
	for _, b := range f.blocks {
		if b.state == StateActive && b.Pos == pos {
			return true
		}
	}
	return false
}

// Convert starts the timed conversion of an active block, freeing its tile
// for a replacement apple. Only valid on an active block; anything else is a
// lifecycle-guarded no-op.
func (f *Field) Convert(b *Block) bool {
	if b == nil || b.state != StateActive {
		return false
	}
	b.state = StateConverting
	b.convertTicks = ConversionWindowTicks
	return true
}

// ConvertAt converts the active block on tile pos, if one exists. Returns
// whether a conversion started; the caller claims the freed tile with an
// apple in the same tick.
func (f *Field) ConvertAt(pos grid.Point) bool {
	for _, b := range f.blocks {
		if b.state == StateActive && b.Pos == pos {
			return f.Convert(b)
		}
	}
	return false
}

// Update advances conversion timers and purges blocks whose conversion
// window elapsed.
func (f *Field) Update() {
	kept := f.blocks[:0]
	for _, b := range f.blocks {
		if b.state == StateConverting {
			b.convertTicks--
			if b.convertTicks <= 0 {
				b.state = StateRemoved
			}
		}
		if b.state != StateRemoved {
			kept = append(kept, b)
		}
	}
	f.blocks = kept
}

// Len returns the live block count.
func (f *Field) Len() int { return len(f.blocks) }

// Package grid provides integer tile coordinates and direction math for the
// square game board. All positions are tile coordinates in [0, size).
package grid

// Point is a tile position on the board.
type Point struct {
	X, Y int
}

// Direction is one of the four cardinal movement directions.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Delta returns the (dx, dy) tile offset for one step in this direction.
// Up decreases Y (screen coordinates).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the 180-degree reverse of the direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	default:
		return d
	}
}

// Step returns the neighbouring tile one step in direction d, without
// applying any board wrapping.
func (p Point) Step(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Wrap maps p onto an size-by-size board, wrapping each coordinate modulo
// the board size.
func Wrap(p Point, size int) Point {
	if size <= 0 {
		return p
	}
	p.X %= size
	if p.X < 0 {
		p.X += size
	}
	p.Y %= size
	if p.Y < 0 {
		p.Y += size
	}
	return p
}

// InBounds reports whether p lies on an size-by-size board.
func InBounds(p Point, size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

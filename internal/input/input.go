// Package input decodes terminal key bytes into per-player direction
// commands. Keys are read on a goroutine and drained non-blocking once per
// frame; for each player only the last direction pressed before the drain
// survives, matching the last-command-wins input model of the simulation.
package input

import (
	"bufio"

	"snakepit/internal/grid"
)

// MaxLocalPlayers is how many players can share one keyboard: slot 0 on the
// arrow keys, slot 1 on WASD.
const MaxLocalPlayers = 2

// DirCommand is an optional direction command for one local slot.
type DirCommand struct {
	Set bool
	Dir grid.Direction
}

// Commands is one frame's drained input.
type Commands struct {
	Quit  bool
	Enter bool
	Space bool
	Dirs  [MaxLocalPlayers]DirCommand
}

// Any reports whether any key at all was seen this frame.
func (c Commands) Any() bool {
	return c.Quit || c.Enter || c.Space || c.Dirs[0].Set || c.Dirs[1].Set
}

// Stream delivers input bytes from a reader via a buffered channel.
type Stream struct {
	ch chan byte
	// pending holds the tail of an escape sequence that was split across a
	// drain boundary, re-parsed with the next frame's bytes.
	pending []byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the
// stream. The channel closes when the reader fails (disconnect).
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadCommands drains all pending bytes and decodes them. Non-blocking.
// A closed stream reads as a quit command. An escape sequence cut off by the
// drain is held back until its remaining bytes arrive, so half an arrow key
// never decodes as a WASD letter for the other slot.
func ReadCommands(s *Stream) Commands {
	buf := s.pending
	s.pending = nil
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				return Commands{Quit: true}
			}
			buf = append(buf, b)
		default:
			cmds, rest := decode(buf)
			s.pending = rest
			return cmds
		}
	}
}

// decode parses raw bytes. Arrow keys arrive as CSI sequences ESC [ A..D; an
// incomplete trailing sequence is returned as rest.
func decode(buf []byte) (Commands, []byte) {
	var c Commands
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' {
			if i+1 >= len(buf) || (buf[i+1] == '[' && i+2 >= len(buf)) {
				return c, buf[i:]
			}
			if buf[i+1] != '[' {
				continue // a lone escape, bound to nothing
			}
			switch buf[i+2] {
			case 'A':
				c.Dirs[0] = DirCommand{Set: true, Dir: grid.Up}
			case 'B':
				c.Dirs[0] = DirCommand{Set: true, Dir: grid.Down}
			case 'C':
				c.Dirs[0] = DirCommand{Set: true, Dir: grid.Right}
			case 'D':
				c.Dirs[0] = DirCommand{Set: true, Dir: grid.Left}
			}
			i += 2
			continue
		}
		switch b {
		case 'w', 'W':
			c.Dirs[1] = DirCommand{Set: true, Dir: grid.Up}
		case 's', 'S':
			c.Dirs[1] = DirCommand{Set: true, Dir: grid.Down}
		case 'd', 'D':
			c.Dirs[1] = DirCommand{Set: true, Dir: grid.Right}
		case 'a', 'A':
			c.Dirs[1] = DirCommand{Set: true, Dir: grid.Left}
		case ' ':
			c.Space = true
		case '\n', '\r':
			c.Enter = true
		case 'q', 'Q', '\x03':
			c.Quit = true
		}
	}
	return c, nil
}

package input

import (
	"testing"

	"snakepit/internal/grid"
)

func TestDecodeArrowsGoToSlotZero(t *testing.T) {
	c, _ := decode([]byte("\x1b[A"))
	if !c.Dirs[0].Set || c.Dirs[0].Dir != grid.Up {
		t.Errorf("up arrow decoded as %+v", c.Dirs[0])
	}
	if c.Dirs[1].Set {
		t.Error("arrow key leaked into the WASD slot")
	}
}

func TestDecodeWASDGoesToSlotOne(t *testing.T) {
	c, _ := decode([]byte("a"))
	if !c.Dirs[1].Set || c.Dirs[1].Dir != grid.Left {
		t.Errorf("'a' decoded as %+v", c.Dirs[1])
	}
	if c.Dirs[0].Set {
		t.Error("WASD key leaked into the arrow slot")
	}
}

func TestLastCommandWins(t *testing.T) {
	// Up arrow then right arrow in one frame: right wins for slot 0.
	c, _ := decode([]byte("\x1b[A\x1b[C"))
	if c.Dirs[0].Dir != grid.Right {
		t.Errorf("slot 0 direction = %v, want right (last wins)", c.Dirs[0].Dir)
	}
	// Independent slots keep their own last command.
	c, _ = decode([]byte("w\x1b[Bs"))
	if c.Dirs[0].Dir != grid.Down || c.Dirs[1].Dir != grid.Down {
		t.Errorf("mixed frame decoded as %+v", c.Dirs)
	}
}

func TestControlKeys(t *testing.T) {
	c, _ := decode([]byte("\r"))
	if !c.Enter {
		t.Error("carriage return should read as enter")
	}
	c, _ = decode([]byte{0x03})
	if !c.Quit {
		t.Error("ctrl-c should read as quit")
	}
	if c, _ = decode(nil); c.Any() {
		t.Error("empty frame should report no input")
	}
}

func TestSplitEscapeSequenceAcrossFrames(t *testing.T) {
	// An arrow key can straddle the non-blocking drain: ESC [ in one frame,
	// the final letter in the next. The tail must carry over instead of the
	// trailing byte decoding as a WASD command for slot 1.
	s := &Stream{ch: make(chan byte, 8)}
	s.ch <- 0x1b
	s.ch <- '['
	c := ReadCommands(s)
	if c.Any() {
		t.Fatalf("partial escape sequence decoded as %+v", c)
	}
	s.ch <- 'A'
	c = ReadCommands(s)
	if !c.Dirs[0].Set || c.Dirs[0].Dir != grid.Up {
		t.Errorf("reassembled sequence decoded as %+v, want up for slot 0", c.Dirs[0])
	}
	if c.Dirs[1].Set {
		t.Error("split arrow key leaked into the WASD slot")
	}
}

func TestLoneEscapeDoesNotBlockLaterKeys(t *testing.T) {
	s := &Stream{ch: make(chan byte, 8)}
	s.ch <- 0x1b
	s.ch <- 'x'
	s.ch <- 'w'
	c := ReadCommands(s)
	if !c.Dirs[1].Set || c.Dirs[1].Dir != grid.Up {
		t.Errorf("keys after a lone escape decoded as %+v, want up for slot 1", c.Dirs[1])
	}
}

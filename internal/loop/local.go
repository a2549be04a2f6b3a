// Package loop provides the frontend game loops: a local single-terminal
// runner here, and the shared-match server/client pair for SSH play in the
// server and client subpackages. The loops own all timing; the simulation
// core only ever advances through discrete Step calls.
package loop

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"snakepit/internal/draw"
	"snakepit/internal/event"
	"snakepit/internal/input"
	"snakepit/internal/sim"
)

const (
	targetFPS       = 30
	targetFrameTime = time.Second / targetFPS
	tickDuration    = time.Second / sim.TickRate
	// maxFrameDelta caps the simulation catch-up after a stall, so a
	// suspended terminal does not fast-forward the match.
	maxFrameDelta = 250 * time.Millisecond
	shakeTicks    = 8
)

// Options configures a local session.
type Options struct {
	BoardSize int
	BaseSpeed float64 // tiles per second
	Players   int     // 1 or 2, sharing the keyboard
	Seed      int64
}

type screen int

const (
	screenStart screen = iota
	screenPlaying
	screenOver
)

type localState struct {
	screen     screen
	prevScreen screen
	game       *sim.Simulation
	acc        time.Duration
	shake      int
	final      map[string]int
	err        error
}

var slotPlayers = [input.MaxLocalPlayers]sim.Player{
	{ID: "p1", Name: "Player 1", Color: "green"},
	{ID: "p2", Name: "Player 2", Color: "magenta"},
}

// Run starts the local game loop with the standard input, update, draw
// cycle. Blocks until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	if opts.Players < 1 {
		opts.Players = 1
	}
	if opts.Players > input.MaxLocalPlayers {
		opts.Players = input.MaxLocalPlayers
	}

	stream := input.StartStream(r)
	cw := draw.NewChunkWriter(w)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	st := &localState{screen: screenStart, prevScreen: screenOver}
	lastTime := time.Now()

	for {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart
		if delta > maxFrameDelta {
			delta = maxFrameDelta
		}

		cmds := input.ReadCommands(stream)
		if cmds.Quit {
			draw.ClearScreen(w)
			return nil
		}

		switch st.screen {
		case screenStart:
			if cmds.Enter || cmds.Space {
				if err := startMatch(st, opts); err != nil {
					return err
				}
			}
		case screenPlaying:
			updatePlaying(st, opts, cmds, delta)
		case screenOver:
			if cmds.Enter || cmds.Space {
				st.screen = screenStart
			}
		}
		if st.err != nil {
			return st.err
		}

		if err := drawLocalFrame(st, w, cw, opts); err != nil {
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}
}

func startMatch(st *localState, opts Options) error {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg := sim.Config{
		BoardSize: opts.BoardSize,
		BaseSpeed: opts.BaseSpeed,
		Players:   slotPlayers[:opts.Players],
		Seed:      seed,
	}
	game, err := sim.New(cfg)
	if err != nil {
		return err
	}
	st.game = game
	st.acc = 0
	st.shake = 0
	st.final = nil
	st.screen = screenPlaying
	return nil
}

// updatePlaying forwards direction commands and advances the fixed-timestep
// accumulator, exactly one simulation step per elapsed tick slice.
func updatePlaying(st *localState, opts Options, cmds input.Commands, delta time.Duration) {
	for slot := 0; slot < opts.Players; slot++ {
		if cmds.Dirs[slot].Set {
			st.game.SetDirection(slotPlayers[slot].ID, cmds.Dirs[slot].Dir)
		}
	}

	st.acc += delta
	for st.acc >= tickDuration {
		st.acc -= tickDuration
		st.game.Step()
		for _, e := range st.game.DrainEvents() {
			switch e.Type {
			case event.SnakeDied:
				st.shake = shakeTicks
			case event.MatchOver:
				st.final = e.Scores
			}
		}
	}
	if st.shake > 0 {
		st.shake--
	}
	if st.game.Phase() == sim.PhaseOver {
		st.screen = screenOver
	}
}

func drawLocalFrame(st *localState, w io.Writer, cw *draw.ChunkWriter, opts Options) error {
	if st.screen != st.prevScreen {
		draw.ClearScreen(w)
		st.prevScreen = st.screen
	}

	switch st.screen {
	case screenStart:
		drawStartScreen(cw, opts)
	case screenPlaying, screenOver:
		snap := st.game.Snapshot()
		shakeX, shakeY := 0, 0
		if st.shake > 0 && st.screen == screenPlaying {
			shakeX = (st.shake % 2 * 2) - 1
			shakeY = ((st.shake / 2) % 2 * 2) - 1
		}
		draw.Board(cw, snap, 2, 2, shakeX, shakeY)
		_, rows := draw.BoardSizeCells(snap.BoardSize)
		draw.HUD(cw, snap, 2, rows+2)
		if st.screen == screenOver {
			drawOverScreen(cw, snap, st.final)
		}
	}
	return cw.Flush()
}

func drawStartScreen(cw *draw.ChunkWriter, opts Options) {
	title := "S N A K E P I T"
	cw.WriteAt(10, 4, title)
	cw.WriteAt(10, 6, fmt.Sprintf("Board %dx%d, %d player(s)", opts.BoardSize, opts.BoardSize, opts.Players))
	cw.WriteAt(10, 8, "Player 1: arrow keys    Player 2: WASD")
	cw.WriteAt(10, 9, "Eat 3 same-colored apples in a row for a power-up")
	cw.WriteAt(10, 11, "Press ENTER to start, Q to quit")
}

func drawOverScreen(cw *draw.ChunkWriter, snap sim.Snapshot, final map[string]int) {
	cols, _ := draw.BoardSizeCells(snap.BoardSize)
	col := cols + 5
	cw.WriteAt(col, 3, "MATCH OVER")
	row := 5
	for _, sv := range snap.Snakes {
		score := sv.Score
		if final != nil {
			score = final[sv.ID]
		}
		cw.WriteAt(col, row, fmt.Sprintf("%-10s %5d pts (%d segments)", clip(sv.Name, 10), score, len(sv.Segments)))
		row++
	}
	cw.WriteAt(col, row+1, "ENTER to play again, Q to quit")
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

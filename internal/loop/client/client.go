// Package client renders a shared match for one SSH session and forwards
// that player's keystrokes to the match host.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"snakepit/internal/draw"
	"snakepit/internal/event"
	"snakepit/internal/input"
	"snakepit/internal/loop/server"
	"snakepit/internal/sim"
)

const (
	targetFPS       = 30
	targetFrameTime = time.Second / targetFPS
	shakeFrames     = 8
	shutdownGrace   = 10 * time.Second
)

// Options configures a client session.
type Options struct {
	Username     string
	TermSizeFunc draw.TermSizeFunc
}

// Client is one connected player's render/input loop.
type Client struct {
	server server.GameServer
	handle *server.ClientHandle
	reader *bufio.Reader
	writer io.Writer
	stream *input.Stream
	cw     *draw.ChunkWriter

	termSize draw.TermSizeFunc

	ready        bool
	shake        int
	shuttingDown bool
	shutdownAt   time.Time
	prevPhase    server.Phase
	statusLine   string
	statusUntil  time.Time
}

// NewClient registers a new player with the match host. Fails when the
// session is full.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts Options) (*Client, error) {
	handle, err := gs.RegisterClient(opts.Username)
	if err != nil {
		return nil, err
	}
	termSize := opts.TermSizeFunc
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	return &Client{
		server:    gs,
		handle:    handle,
		reader:    r,
		writer:    w,
		stream:    input.StartStream(r),
		cw:        draw.NewChunkWriter(w),
		termSize:  termSize,
		prevPhase: server.Phase(-1),
	}, nil
}

// Run drives the session loop. Blocks until the player quits, disconnects,
// or the server shuts down.
func (c *Client) Run() error {
	defer c.server.UnregisterClient(c.handle.ID)

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	for {
		frameStart := time.Now()

		view := c.server.GetView()
		if quit := c.processInput(view); quit {
			draw.ClearScreen(c.writer)
			return nil
		}
		c.processServerEvents()
		if c.shuttingDown && time.Now().After(c.shutdownAt) {
			draw.ClearScreen(c.writer)
			return nil
		}

		if err := c.drawFrame(view); err != nil {
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}
}

// processInput drains this frame's keys. Both the arrow keys and WASD steer
// this session's snake.
func (c *Client) processInput(view *server.View) (quit bool) {
	cmds := input.ReadCommands(c.stream)
	if cmds.Quit {
		return true
	}
	for _, dc := range cmds.Dirs {
		if dc.Set {
			c.server.SendDirection(c.handle.ID, dc.Dir)
		}
	}
	if cmds.Enter || cmds.Space {
		if view.Phase != server.PhasePlaying {
			c.ready = !c.ready
			c.server.SendReady(c.handle.ID, c.ready)
		}
	}
	return false
}

// processServerEvents drains forwarded simulation notifications, driving
// the screen shake and status flashes.
func (c *Client) processServerEvents() {
	for {
		select {
		case ev, ok := <-c.handle.EventsCh:
			if !ok {
				return
			}
			switch ev.Type {
			case server.EventServerShutdown:
				c.shuttingDown = true
				c.shutdownAt = time.Now().Add(shutdownGrace)
			case server.EventSim:
				c.onSimEvent(ev.Sim)
			}
		default:
			return
		}
	}
}

func (c *Client) onSimEvent(e event.Event) {
	switch e.Type {
	case event.SnakeDied:
		c.shake = shakeFrames
		if e.PlayerID == c.handle.PlayerID {
			c.flash("you crashed - spectating")
		}
	case event.ComboTriggered:
		if e.PlayerID == c.handle.PlayerID {
			c.flash(fmt.Sprintf("%s combo! +%d", e.Kind, e.Points))
		}
	case event.GlobalEffectStarted:
		c.flash("board distortion!")
	}
}

func (c *Client) flash(msg string) {
	c.statusLine = msg
	c.statusUntil = time.Now().Add(2 * time.Second)
}

func (c *Client) drawFrame(view *server.View) error {
	if view.Phase != c.prevPhase {
		draw.ClearScreen(c.writer)
		c.prevPhase = view.Phase
		if view.Phase != server.PhasePlaying {
			// Ready state resets between matches on the server side.
			c.ready = false
		}
	}

	if c.shuttingDown {
		c.drawShutdownScreen()
		return c.cw.Flush()
	}

	switch view.Phase {
	case server.PhaseLobby:
		c.drawLobby(view)
	case server.PhasePlaying, server.PhaseOver:
		if view.Game != nil {
			c.drawMatch(view)
		}
	}
	return c.cw.Flush()
}

func (c *Client) drawLobby(view *server.View) {
	c.cw.WriteAt(4, 2, "S N A K E P I T")
	c.cw.WriteAt(4, 4, fmt.Sprintf("Lobby - %d/%d players", len(view.Seats), sim.MaxPlayers))
	row := 6
	for _, seat := range view.Seats {
		state := "waiting"
		if seat.Ready {
			state = "ready"
		}
		marker := "  "
		if seat.PlayerID == c.handle.PlayerID {
			marker = "> "
		}
		c.cw.WriteAt(4, row, fmt.Sprintf("\033[K%s%-16s %s", marker, seat.Username, state))
		row++
	}
	c.cw.WriteAt(4, row+1, "\033[KENTER to toggle ready, Q to leave")
	c.cw.WriteAt(4, row+2, "Match starts when everyone is ready")
}

func (c *Client) drawMatch(view *server.View) {
	snap := *view.Game
	shakeX, shakeY := 0, 0
	if c.shake > 0 {
		shakeX = (c.shake % 2 * 2) - 1
		shakeY = ((c.shake / 2) % 2 * 2) - 1
		c.shake--
	}
	draw.Board(c.cw, snap, 2, 2, shakeX, shakeY)
	_, rows := draw.BoardSizeCells(snap.BoardSize)
	draw.HUD(c.cw, snap, 2, rows+2)

	statusRow := rows + 3 + len(snap.Snakes)
	c.cw.WriteAt(2, statusRow, "\033[K")
	if time.Now().Before(c.statusUntil) {
		c.cw.WriteAt(2, statusRow, c.statusLine)
	}

	if view.Phase == server.PhaseOver {
		cols, _ := draw.BoardSizeCells(snap.BoardSize)
		col := cols + 5
		c.cw.WriteAt(col, 3, "MATCH OVER")
		row := 5
		for _, sv := range snap.Snakes {
			score := sv.Score
			if view.Final != nil {
				score = view.Final[sv.ID]
			}
			c.cw.WriteAt(col, row, fmt.Sprintf("\033[K%-16s %5d pts", sv.Name, score))
			row++
		}
		prompt := "ENTER to ready up for a rematch"
		if c.ready {
			prompt = "ready - waiting for the others"
		}
		c.cw.WriteAt(col, row+1, "\033[K"+prompt)
	}
}

func (c *Client) drawShutdownScreen() {
	width, height, err := c.termSize()
	if err != nil || width <= 0 {
		width, height = 80, 24
	}
	msg := "Server is shutting down - thanks for playing"
	c.cw.WriteAt(width/2-len(msg)/2, height/2, msg)
}

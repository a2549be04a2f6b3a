package draw

import (
	"fmt"

	"snakepit/internal/apple"
	"snakepit/internal/block"
	"snakepit/internal/effect"
	"snakepit/internal/sim"
	"snakepit/internal/snake"
)

// Each tile renders as two terminal columns so the board is roughly square.
const tileCols = 2

const ansiReset = "\033[0m"

// kindColor maps an effect kind / apple color to a 256-color foreground.
func kindColor(k effect.Kind) string {
	switch k {
	case effect.Red:
		return "\033[38;5;196m"
	case effect.Green:
		return "\033[38;5;46m"
	case effect.Blue:
		return "\033[38;5;39m"
	case effect.Orange:
		return "\033[38;5;208m"
	case effect.Purple:
		return "\033[38;5;129m"
	}
	return "\033[38;5;255m"
}

// playerColor maps a display color name from the session config to a
// 256-color foreground. Unknown names fall back to white.
func playerColor(name string) string {
	switch name {
	case "green":
		return "\033[38;5;40m"
	case "magenta":
		return "\033[38;5;201m"
	case "cyan":
		return "\033[38;5;51m"
	case "yellow":
		return "\033[38;5;226m"
	}
	return "\033[38;5;255m"
}

const (
	colorBlock      = "\033[38;5;245m"
	colorConverting = "\033[38;5;240m"
	colorTrail      = "\033[38;5;229m"
	colorBorder     = "\033[38;5;250m"
	colorBorderBlue = "\033[38;5;39m"
	colorDim        = "\033[2m"
)

// BoardSizeCells returns the terminal footprint of the rendered board,
// border included.
func BoardSizeCells(boardSize int) (cols, rows int) {
	return boardSize*tileCols + 2, boardSize + 2
}

// Board renders one snapshot as a bordered tile grid with its top-left
// border corner at (originCol, originRow), 1-based. shakeX/shakeY nudge the
// whole board for impact feedback; the caller clears the screen when they
// change.
func Board(cw *ChunkWriter, snap sim.Snapshot, originCol, originRow, shakeX, shakeY int) {
	originCol += shakeX
	originRow += shakeY
	n := snap.BoardSize

	border := colorBorder
	if snap.Global != nil && snap.Global.Kind == effect.Blue {
		// The blue board distortion tints the frame.
		border = colorBorderBlue
	}
	drawBorder(cw, originCol, originRow, n, border)

	// Tile content, painted in occupancy order: blocks under apples under
	// snakes under projectiles.
	put := func(x, y int, s string) {
		cw.WriteAt(originCol+1+x*tileCols, originRow+1+y, s)
	}

	for _, b := range snap.Blocks {
		switch b.State {
		case block.StateConverting:
			put(b.Pos.X, b.Pos.Y, colorConverting+"▒▒"+ansiReset)
		default:
			put(b.Pos.X, b.Pos.Y, colorBlock+"██"+ansiReset)
		}
	}
	for _, a := range snap.Apples {
		glyph := "()"
		if a.State == apple.StateSpawning {
			glyph = colorDim + "··"
		}
		put(a.Pos.X, a.Pos.Y, kindColor(a.Color)+glyph+ansiReset)
	}
	for _, sv := range snap.Snakes {
		if sv.State != snake.StateAlive {
			continue
		}
		color := playerColor(sv.Color)
		for i := len(sv.Segments) - 1; i >= 0; i-- {
			glyph := "▓▓"
			if i == 0 {
				glyph = "██"
			}
			put(sv.Segments[i].X, sv.Segments[i].Y, color+glyph+ansiReset)
		}
	}
	for _, p := range snap.Projectiles {
		for _, tp := range p.Trail {
			put(tp.X, tp.Y, colorTrail+colorDim+"··"+ansiReset)
		}
		put(p.Pos.X, p.Pos.Y, kindColor(effect.Orange)+"◆◆"+ansiReset)
	}
}

func drawBorder(cw *ChunkWriter, originCol, originRow, boardSize int, color string) {
	width := boardSize * tileCols
	cw.WriteAt(originCol, originRow, color+"┌")
	for i := 0; i < width; i++ {
		cw.WriteString("─")
	}
	cw.WriteString("┐")
	for y := 0; y < boardSize; y++ {
		cw.WriteAt(originCol, originRow+1+y, "│")
		cw.WriteAt(originCol+width+1, originRow+1+y, "│")
	}
	cw.WriteAt(originCol, originRow+boardSize+1, "└")
	for i := 0; i < width; i++ {
		cw.WriteString("─")
	}
	cw.WriteString("┘" + ansiReset)
}

// HUD renders one status line per player below the board, plus the global
// effect countdown when one is running.
func HUD(cw *ChunkWriter, snap sim.Snapshot, originCol, row int) {
	for i, sv := range snap.Snakes {
		line := fmt.Sprintf("%s%-10s%s %5d pts", playerColor(sv.Color), clip(sv.Name, 10), ansiReset, sv.Score)
		if sv.State != snake.StateAlive {
			line += "  (dead)"
		} else {
			if sv.Streak.Count > 0 {
				line += fmt.Sprintf("  %s%d×●%s", kindColor(sv.Streak.Color), sv.Streak.Count, ansiReset)
			}
			for _, ae := range sv.Effects {
				line += fmt.Sprintf("  %s%s %ds%s", kindColor(ae.Kind), ae.Kind, ae.Remaining/sim.TickRate, ansiReset)
			}
		}
		cw.WriteAt(originCol, row+i, "\033[K"+line)
	}
	row += len(snap.Snakes)
	cw.WriteAt(originCol, row, "\033[K")
	if snap.Global != nil {
		cw.WriteAt(originCol, row,
			fmt.Sprintf("%sboard distortion %ds%s", kindColor(snap.Global.Kind), snap.Global.Remaining/sim.TickRate, ansiReset))
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

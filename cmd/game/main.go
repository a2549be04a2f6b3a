package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"snakepit/internal/config"
	"snakepit/internal/loop"
)

func main() {
	boardSize := config.GetEnvInt("BOARD_SIZE", 15)
	players := config.GetEnvInt("PLAYERS", 2)
	speed := float64(config.GetEnvInt("BASE_SPEED", 4))

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	opts := loop.Options{
		BoardSize: boardSize,
		BaseSpeed: speed,
		Players:   players,
	}
	if err := loop.Run(reader, os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"snakepit/internal/config"
	"snakepit/internal/loop/client"
	"snakepit/internal/loop/server"
	"snakepit/internal/web"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = ".ssh/snakepit_host_key"
)

// Shared match host - all SSH clients join the same session.
var (
	matchServer  *server.Server
	cancelServer context.CancelFunc
	serverOnce   sync.Once
)

func main() {
	config.LoadDotenv()

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	boardSize := config.GetEnvInt("BOARD_SIZE", 25)
	baseSpeed := config.GetEnvInt("BASE_SPEED", 4)
	webAddr := config.GetEnv("WEB_ADDR", ":8080")
	sshDisplay := config.GetEnv("SSH_DISPLAY_HOST", "localhost -p "+port)

	log.Printf("SSH config: host=%s port=%s board=%d speed=%d", host, port, boardSize, baseSpeed)

	serverOnce.Do(func() {
		var ctx context.Context
		ctx, cancelServer = context.WithCancel(context.Background())
		matchServer = server.NewServer(boardSize, float64(baseSpeed))
		go matchServer.Run(ctx)
		log.Println("Match server started")
	})

	// Spectator page + live scoreboard feed.
	if webAddr != "" {
		mux := http.NewServeMux()
		web.NewHandler(matchServer.GetView, sshDisplay).Routes(mux)
		go func() {
			log.Printf("Spectator web server on %s", webAddr)
			if err := http.ListenAndServe(webAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("web server error: %v", err)
			}
		}()
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Reduce latency for game input.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("Starting SSH server on %s:%s", host, port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	if matchServer != nil {
		log.Println("Notifying connected players about shutdown...")
		matchServer.Shutdown(15 * time.Second)
		cancelServer()
		log.Println("Match server stopped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		log.Printf("New game session: user=%s, terminal=%s, size=%dx%d",
			sess.User(), pty.Term, pty.Window.Width, pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		reader := bufio.NewReader(sess)
		c, err := client.NewClient(matchServer, reader, sess, client.Options{
			Username:     sess.User(),
			TermSizeFunc: sizeTracker.getSize,
		})
		if err != nil {
			fmt.Fprintf(sess, "Cannot join: %v\n", err)
			return
		}
		if err := c.Run(); err != nil {
			log.Printf("Game error for %s: %v", sess.User(), err)
		}

		log.Printf("Session ended: user=%s", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

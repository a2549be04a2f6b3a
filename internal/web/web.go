// Package web serves the landing page and a read-only live scoreboard for a
// running match over a WebSocket feed. It only ever consumes published
// snapshots; spectators cannot influence the simulation.
package web

import (
	_ "embed"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"snakepit/internal/loop/server"
	"snakepit/internal/snake"
)

//go:embed index.html
var htmlPage string

// scoreboardInterval is how often the feed pushes an update.
const scoreboardInterval = 500 * time.Millisecond

// PlayerStanding is one scoreboard row in the feed.
type PlayerStanding struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
	Alive    bool   `json:"alive"`
	Segments int    `json:"segments"`
}

// Scoreboard is one WebSocket feed message.
type Scoreboard struct {
	Phase     string           `json:"phase"`
	Elapsed   float64          `json:"elapsed"`
	BoardSize int              `json:"boardSize"`
	Players   []PlayerStanding `json:"players"`
}

// ViewFunc returns the latest published match view.
type ViewFunc func() *server.View

// Handler serves the landing page at / and the scoreboard feed at /ws.
type Handler struct {
	view     ViewFunc
	sshHost  string
	upgrader websocket.Upgrader
}

// NewHandler creates a web handler. sshHost is displayed on the landing
// page as the address to connect to.
func NewHandler(view ViewFunc, sshHost string) *Handler {
	return &Handler{
		view:    view,
		sshHost: sshHost,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectator data is public; any origin may read it.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Routes registers the handler's endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/ws", h.handleFeed)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := strings.Replace(htmlPage, "{{.SSHHost}}", h.sshHost, -1)
	_, _ = w.Write([]byte(page))
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Discard inbound frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(scoreboardInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := conn.WriteJSON(h.scoreboard()); err != nil {
			return
		}
	}
}

// scoreboard flattens the latest view into a feed message.
func (h *Handler) scoreboard() Scoreboard {
	view := h.view()
	sb := Scoreboard{Phase: "lobby"}
	if view == nil {
		return sb
	}
	switch view.Phase {
	case server.PhasePlaying:
		sb.Phase = "playing"
	case server.PhaseOver:
		sb.Phase = "over"
	}
	if view.Game == nil {
		for _, seat := range view.Seats {
			sb.Players = append(sb.Players, PlayerStanding{Name: seat.Username, Color: seat.Color})
		}
		return sb
	}
	sb.Elapsed = view.Game.Elapsed
	sb.BoardSize = view.Game.BoardSize
	for _, sv := range view.Game.Snakes {
		score := sv.Score
		if view.Final != nil {
			score = view.Final[sv.ID]
		}
		sb.Players = append(sb.Players, PlayerStanding{
			Name:     sv.Name,
			Color:    sv.Color,
			Score:    score,
			Alive:    sv.State == snake.StateAlive,
			Segments: len(sv.Segments),
		})
	}
	return sb
}

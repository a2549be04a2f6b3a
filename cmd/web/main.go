// Standalone landing page for deployments that run the SSH host elsewhere.
// The SSH binary serves the same page plus a live feed itself; this one is
// just the static front door.
package main

import (
	"fmt"
	"log"
	"net/http"

	"snakepit/internal/config"
	"snakepit/internal/loop/server"
	"snakepit/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

func main() {
	config.LoadDotenv()

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	// No match runs in this process; the feed reports an empty lobby.
	handler := web.NewHandler(func() *server.View { return nil }, sshHost)
	mux := http.NewServeMux()
	handler.Routes(mux)

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Printf("Starting web server on http://%s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

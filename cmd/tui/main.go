// Command tui is a terminal client for asking questions about uploaded
// documents.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/docqa/backend/internal/client"
	"github.com/docqa/backend/internal/tui"
)

func main() {
	_ = godotenv.Load()

	defaultServer := os.Getenv("DOCQA_SERVER")
	if defaultServer == "" {
		defaultServer = client.DefaultBaseURL
	}
	server := flag.String("server", defaultServer, "server base URL")
	timeout := flag.Duration("timeout", 2*time.Minute, "request timeout")
	flag.Parse()

	c := client.New(*server, *timeout)
	p := tea.NewProgram(tui.New(c, *timeout), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/targetflow/internal/api"
	"github.com/sadopc/targetflow/internal/config"
	"github.com/sadopc/targetflow/internal/session"
	"github.com/sadopc/targetflow/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	sess, err := session.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening session database: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	client := api.New(cfg.APIURL)

	app := tui.NewApp(client, sess)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

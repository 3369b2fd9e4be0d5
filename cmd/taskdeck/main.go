package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	"taskdeck/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("taskdeck %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg := config.Load()

	settings, err := store.New(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing settings store: %v\n", err)
		os.Exit(1)
	}
	defer settings.Close()

	client := api.New(cfg.APIURL, time.Duration(cfg.Timeout)*time.Second)

	// Debug logging goes to a file; stdout belongs to the TUI
	if cfg.Debug {
		logPath := filepath.Join(filepath.Dir(settingsPath(cfg)), "taskdeck.log")
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			defer f.Close()
			client.SetLogger(log.New(f, "", log.LstdFlags|log.Lmicroseconds))
		}
	}

	mgr := session.NewManager(client, settings)

	app := ui.NewApp(client, settings, mgr)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// settingsPath mirrors the store's directory resolution for log placement
func settingsPath(cfg *config.Config) string {
	if cfg.DataDir != "" {
		return filepath.Join(cfg.DataDir, "taskdeck.db")
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "taskdeck.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskdeck", "taskdeck.db")
}

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/habits/internal/apperr"
	"github.com/nissyi-gh/habits/internal/config"
	"github.com/nissyi-gh/habits/internal/importer"
	"github.com/nissyi-gh/habits/internal/logger"
	"github.com/nissyi-gh/habits/internal/store"
	"github.com/nissyi-gh/habits/internal/ui"
)

const version = "v0.1.0"

var CLI struct {
	Version       kong.VersionFlag `help:"Print version and exit."`
	Config        kong.ConfigFlag  `help:"Path to a YAML config file."`
	Debug         bool             `help:"Write debug logs."`
	LogDir        string           `help:"Directory for log files." type:"path" default:"~/.local/state/habits"`
	Import        string           `help:"YAML file of habits to load at startup." type:"path" placeholder:"FILE"`
	ConfirmDelete bool             `help:"Ask before deleting a habit." default:"true" negatable:""`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("habits"),
		kong.Description("Track daily habits in your terminal. Nothing is saved between runs."),
		kong.UsageOnError(),
		kong.Configuration(config.YAML, config.DefaultPath),
		kong.Vars{"version": version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, Dir: CLI.LogDir}); err != nil {
		apperr.Fatal(fmt.Errorf("init logger: %w", err))
	}
	logger.Info("starting", "version", version)

	s := store.New()
	unsubscribe := s.Subscribe(func(snap store.Snapshot) {
		logger.Debug("habits changed",
			"total", snap.Stats.Total,
			"completed", snap.Stats.Completed,
			"last_reset", snap.LastResetDate,
		)
	})
	defer unsubscribe()

	if CLI.Import != "" {
		data, err := os.ReadFile(CLI.Import)
		if err != nil {
			apperr.Fatal(fmt.Errorf("read import file: %w", err))
		}
		n, err := importer.Import(s, string(data))
		if err != nil {
			apperr.Fatal(fmt.Errorf("import %s: %w", CLI.Import, err))
		}
		logger.Info("imported habits", "count", n, "file", CLI.Import)
	}

	m := ui.NewModel(s, ui.Config{ConfirmDelete: CLI.ConfirmDelete})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		apperr.Fatal(fmt.Errorf("run program: %w", err))
	}
}

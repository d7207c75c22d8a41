// Package main is the entry point for the whiteboard TUI application.
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/config"
	"github.com/hy4ri/whiteboard-tui/internal/data"
	"github.com/hy4ri/whiteboard-tui/internal/logging"
	"github.com/hy4ri/whiteboard-tui/internal/session"
	"github.com/hy4ri/whiteboard-tui/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "whiteboard",
		Short: "Shared team whiteboard in the terminal",
		Long: `whiteboard - a shared task board for care coordination teams

Tasks live in groups shown as "To Do" and "Tasks done" cards. The board
keeps its fixed groups (Introduction, Coordinators, Supervisors, Sheets
Needed, Sick Carers) in place, refreshes every few minutes and signs
everybody out at the end of the day.

Config file: ~/.config/whiteboard/config.yaml
Run 'whiteboard init' to create one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/whiteboard/config.yaml)")

	root.AddCommand(initCmd(&configPath))
	root.AddCommand(logoutCmd(&configPath))
	root.AddCommand(statusCmd(&configPath))
	root.AddCommand(versionCmd())
	return root
}

// env bundles everything a command needs to talk to the backend.
type env struct {
	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
	store  *session.Store
	src    *data.Source
}

func (e *env) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

func setup(configPath string) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}

	log, closer, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		Dir:   dataDir,
	})
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.URL, "", log)
	client.SetTimeout(cfg.API.Timeout)

	return &env{
		cfg:    cfg,
		log:    log,
		closer: closer,
		store:  session.NewStore(dataDir),
		src:    data.New(client, log),
	}, nil
}

// runApp starts the main TUI application.
func runApp(configPath string) error {
	e, err := setup(configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	app, err := tui.New(e.cfg, e.src, e.store, e.log)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	e.src.OnUnauthorized = func() {
		p.Send(tui.SessionExpiredMsg{})
	}

	e.log.WithField("api", e.cfg.API.URL).Info("starting whiteboard")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	e.log.Info("whiteboard stopped")
	return nil
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/config"
	"github.com/spf13/cobra"
)

const configTemplate = `# Whiteboard TUI Configuration
# Location: ~/.config/whiteboard/config.yaml

api:
  # Base URL of the whiteboard REST API
  url: "http://localhost:3001/api"
  timeout: 30s

board:
  # How often the board refreshes on its own
  poll_interval: 5m
  # Everybody is signed out at this local time (HH:MM)
  logout_at: "20:00"
  # IANA time zone for dates on the board; empty uses the system zone
  # timezone: "Europe/London"

ui:
  # Seconds a notification stays in the status bar
  toast_seconds: 3
  # Mirror notifications to the desktop
  desktop_notifications: false

log:
  # panic, fatal, error, warn, info, debug, trace
  level: info
  # file: /tmp/whiteboard.log
`

func initCmd(configPath *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a template config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configPath
			if path == "" {
				p, err := config.ConfigPath()
				if err != nil {
					return fmt.Errorf("failed to get config path: %w", err)
				}
				path = p
			}
			return createConfigTemplate(cmd, path, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

// createConfigTemplate creates a template configuration file.
func createConfigTemplate(cmd *cobra.Command, path string, force bool) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "Config file already exists: %s\n", path)
		fmt.Fprint(out, "Overwrite? [y/N]: ")

		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Config file created: %s\n", path)
	fmt.Fprintln(out, "Run 'whiteboard' to start.")
	return nil
}

func logoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.store.Clear(); err != nil {
				return err
			}
			if err := e.store.SetRememberedEmail(""); err != nil {
				return err
			}
			e.log.Info("session cleared from command line")
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func statusCmd(configPath *string) *cobra.Command {
	var names []string
	for _, s := range api.UserStatuses {
		names = append(names, string(s))
	}

	return &cobra.Command{
		Use:       "status <status>",
		Short:     "Set your availability without opening the board",
		Long:      "Set your availability. One of: " + strings.Join(names, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := api.UserStatus(strings.ToLower(strings.TrimSpace(args[0])))
			if !status.Valid() {
				return fmt.Errorf("unknown status %q (want one of %s)", args[0], strings.Join(names, ", "))
			}

			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			sess, err := e.store.Load()
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("not logged in: start 'whiteboard' and log in with remember me")
			}
			e.src.Client().SetToken(sess.Token)

			if err := e.src.Client().UpdateStatus(context.Background(), status); err != nil {
				if api.IsAuthFailure(err) {
					_ = e.store.Clear()
					return fmt.Errorf("session expired, please log in again")
				}
				return fmt.Errorf("failed to update status: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status set to %s.\n", status)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "whiteboard version %s\n", Version)
		},
	}
}

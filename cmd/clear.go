package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/astny1/PRODIGY-CS-04/internal/session"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the keystroke log file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearForce {
			return errors.New("clearing deletes all recorded sessions; re-run with --force to confirm")
		}

		// Never truncate underneath a running recorder: the log handle is
		// owned exclusively by its session writer.
		store, err := session.NewStore()
		if err != nil {
			return err
		}
		if s, err := store.Load(); err == nil {
			if s.Alive() {
				return fmt.Errorf("a recorder is active (started at %s, pid %d); stop it before clearing",
					s.StartedAt.Format(time.RFC3339), s.PID)
			}
			if err := store.Clear(); err != nil {
				return err
			}
			cmd.Printf("Removed stale session marker (pid %d is not running).\n", s.PID)
		}

		path := GetConfig().LogPath
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cmd.Println("Log file does not exist; nothing to clear.")
			return nil
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return fmt.Errorf("clearing log file: %w", err)
		}
		cmd.Printf("Log file %s cleared.\n", path)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "confirm clearing the log file")
	rootCmd.AddCommand(clearCmd)
}

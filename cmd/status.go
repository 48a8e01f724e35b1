package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/astny1/PRODIGY-CS-04/internal/logfile"
	"github.com/astny1/PRODIGY-CS-04/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current recorder status and log summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		s, err := store.Load()
		switch {
		case errors.Is(err, session.ErrNoSession):
			cmd.Println("no active session")
		case err != nil:
			return err
		default:
			if s.Alive() {
				cmd.Printf("Active session: %s\n", s.ID)
			} else {
				cmd.Printf("Stale session marker: %s (recorder pid %d is not running)\n", s.ID, s.PID)
			}
			cmd.Printf("Mode: %s\n", s.Mode)
			cmd.Printf("Started: %s\n", s.StartedAt.Format(time.RFC3339))
			cmd.Printf("Duration: %s\n", time.Since(s.StartedAt).Round(time.Second).String())
		}

		if p := GetProfile(); p != nil && p.Name != "" {
			cmd.Printf("Operator: %s\n", p.Name)
		}

		sessions, err := logfile.ReadSessions(GetConfig().LogPath)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			cmd.Printf("Log %s: empty\n", GetConfig().LogPath)
			return nil
		}

		var tokens int
		for _, info := range sessions {
			tokens += info.Tokens
		}
		cmd.Printf("Log %s: %d sessions, %d keys\n", GetConfig().LogPath, len(sessions), tokens)

		last := sessions[len(sessions)-1]
		if last.Open {
			cmd.Printf("Last session: %s, started %s, still open\n",
				last.Mode, last.StartedAt.Format(time.RFC3339))
		} else {
			cmd.Printf("Last session: %s, %s → %s, %d keys\n",
				last.Mode,
				last.StartedAt.Format(time.RFC3339),
				last.EndedAt.Format(time.RFC3339),
				last.Tokens)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/astny1/PRODIGY-CS-04/internal/capture"
	"github.com/astny1/PRODIGY-CS-04/internal/session"
	"github.com/astny1/PRODIGY-CS-04/internal/tui"
)

var (
	recordConsent  bool
	recordMode     string
	recordHeadless bool
	recordFor      time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Start a recording session (interactive screen, or headless with --headless)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		modeStr := recordMode
		if modeStr == "" {
			modeStr = cfg.DefaultMode
		}
		mode, err := session.ParseMode(modeStr)
		if err != nil {
			return err
		}

		store, err := session.NewStore()
		if err != nil {
			return err
		}
		if s, err := store.Load(); err == nil {
			if s.Alive() {
				return fmt.Errorf("%w (started at %s, pid %d)",
					session.ErrAlreadyActive, s.StartedAt.Format(time.RFC3339), s.PID)
			}
			// A crashed recorder left its marker behind. The log already
			// holds everything that was flushed, so the marker is safe to
			// drop and recording can proceed.
			if err := store.Clear(); err != nil {
				return err
			}
			cmd.Printf("Removed stale session marker (pid %d is not running).\n", s.PID)
		}

		focus := capture.NewFocusScoped()
		global := capture.NewGlobalHook(capture.GlobalOptions{Device: cfg.InputDevice})
		ctrl := session.NewController(session.Options{
			LogPath: cfg.LogPath,
			Store:   store,
			Backends: map[session.Mode]capture.Backend{
				session.ModeInApp:  focus,
				session.ModeGlobal: global,
			},
		})

		if recordHeadless || !term.IsTerminal(os.Stdin.Fd()) {
			return runHeadless(cmd, ctrl, global, mode)
		}

		return tui.RunRecorder(tui.RecorderOptions{
			Controller: ctrl,
			Focus:      focus,
			Global:     global,
			Mode:       mode,
			LogPath:    cfg.LogPath,
		})
	},
}

// runHeadless records without the interactive screen until the duration
// elapses or a shutdown signal arrives. Signals act as an implicit stop so
// the log always gets its end delimiter.
func runHeadless(cmd *cobra.Command, ctrl *session.Controller, global *capture.GlobalHook, mode session.Mode) error {
	if err := ctrl.RequestStart(recordConsent, mode); err != nil {
		return err
	}
	// Idempotent; covers every return path below.
	defer ctrl.RequestStop()

	cmd.Printf("Recording in %s mode. Stop with ctrl+c or SIGTERM.\n", mode)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	if recordFor > 0 {
		select {
		case <-sigc:
		case <-time.After(recordFor):
		}
	} else {
		<-sigc
	}

	if err := ctrl.RequestStop(); err != nil {
		return err
	}
	cmd.Printf("Session stopped. %d keys recorded.\n", ctrl.TokenCount())
	if gerr := global.Err(); gerr != nil {
		cmd.Printf("Warning: global listener failed mid-session: %v\n", gerr)
	}
	return ctrl.Err()
}

func init() {
	recordCmd.Flags().BoolVar(&recordConsent, "consent", false, "acknowledge that keystrokes will be recorded (required for --headless)")
	recordCmd.Flags().StringVar(&recordMode, "mode", "", "capture mode: in-app or global (overrides config)")
	recordCmd.Flags().BoolVar(&recordHeadless, "headless", false, "record without the interactive screen")
	recordCmd.Flags().DurationVar(&recordFor, "for", 0, "stop automatically after this duration (headless only)")
	rootCmd.AddCommand(recordCmd)
}

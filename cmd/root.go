package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/astny1/PRODIGY-CS-04/internal/config"
	"github.com/astny1/PRODIGY-CS-04/internal/profile"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

// logPathFlag overrides the configured log file location.
var logPathFlag string

var rootCmd = &cobra.Command{
	Use:   "keylog",
	Short: "Consent-first keystroke session recorder",
	Long: `keylog records keyboard activity you explicitly consent to and appends it,
one token per line, to a local append-only log with session delimiters.
In-app mode records only while the keylog window has focus; global mode
records system-wide while the recorder runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to keylog! Looks like this is your first time.")
				if err := runSetup(true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		// Load profile (optional — may not exist in non-interactive environments).
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Profile values fill genuine gaps only: a value written in either
		// config file wins even when it matches the built-in default.
		if activeProfile != nil {
			modeConfigured := (global != nil && global.DefaultMode != "") ||
				(project != nil && project.DefaultMode != "")
			if !modeConfigured && activeProfile.DefaultMode != "" {
				cfg.DefaultMode = activeProfile.DefaultMode
			}
			pathConfigured := (global != nil && global.LogPath != "") ||
				(project != nil && project.LogPath != "")
			if !pathConfigured && activeProfile.LogDir != "" {
				cfg.LogPath = activeProfile.LogDir + string(os.PathSeparator) + "keystrokes.txt"
			}
		}

		// The --log flag wins over everything.
		if logPathFlag != "" {
			cfg.LogPath = logPathFlag
		}

		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active user profile.
func GetProfile() *profile.Profile {
	return activeProfile
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logPathFlag, "log", "", "keystroke log file (overrides config)")
}

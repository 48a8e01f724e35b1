package cmd

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/astny1/PRODIGY-CS-04/internal/logfile"
	"github.com/astny1/PRODIGY-CS-04/internal/tui"
)

var (
	plainOutput bool
	followLog   bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the keystroke log",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := GetConfig().LogPath

		// Pipes and --plain get raw lines; a terminal gets the viewer.
		if plainOutput || !term.IsTerminal(os.Stdout.Fd()) {
			lines, err := logfile.ReadLines(path)
			if err != nil {
				return err
			}
			for _, line := range lines {
				cmd.Println(line)
			}
			return nil
		}

		return tui.RunViewer(path, followLog)
	},
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of the viewer")
	viewCmd.Flags().BoolVarP(&followLog, "follow", "f", false, "live-update the viewer as the recorder appends")
	rootCmd.AddCommand(viewCmd)
}

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/astny1/PRODIGY-CS-04/internal/capture"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe whether system-wide (global) capture is available",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println("in-app capture: available")

		err := capture.Probe()
		switch {
		case err == nil:
			cmd.Println("global capture: available")
		case errors.Is(err, capture.ErrUnavailable):
			cmd.Printf("global capture: unavailable — %v\n", err)
			cmd.Println("in-app mode keeps working without it.")
		default:
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

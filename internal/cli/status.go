package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show transcript and brief status for every input video",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, configPath)
		if err != nil {
			return err
		}

		entries, err := a.proc.Status(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No video files found in %s\n", a.cfg.Paths.Input)
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%-40s transcript %s  brief %s\n", e.Name, mark(e.HasTranscript), mark(e.HasBrief))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func mark(ok bool) string {
	if ok {
		return color.GreenString("yes")
	}
	return color.YellowString("no ")
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/processor"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript <file>",
	Short: "Generate a brief from an existing transcript file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx, configPath)
		if err != nil {
			return err
		}
		defer a.writeMetrics(ctx)

		res, err := a.proc.ProcessTranscript(ctx, args[0], opts)
		if errors.Is(err, processor.ErrTranscriptNotFound) {
			return fmt.Errorf("transcript file not found at %s", args[0])
		}
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transcriptCmd)
}

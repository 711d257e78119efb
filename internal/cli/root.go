package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/config"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/processor"
)

var (
	configPath     string
	modelName      string
	transcribeOnly bool
	mode           string

	videoPath string
	all       bool
)

var rootCmd = &cobra.Command{
	Use:   "briefs",
	Short: "Generate creator content briefs from videos with an LLM",
	Long: `Generate creator content briefs from video files.

Examples:
  briefs --video input/ad01.mp4                 # Brief for one video
  briefs --all                                  # Every video in the input folder
  briefs --all --mode transcript                # Transcribe first, brief from text
  briefs --video input/ad01.mp4 --model claude-3-5-sonnet-latest
  briefs --all --transcribe-only                # Transcripts only`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "primary LLM model (overrides gateway.default_model)")
	rootCmd.PersistentFlags().BoolVar(&transcribeOnly, "transcribe-only", false, "only transcribe videos, don't generate briefs")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "input mode: video or transcript (overrides brief.mode)")

	rootCmd.Flags().StringVar(&videoPath, "video", "", "process a specific video file")
	rootCmd.Flags().BoolVar(&all, "all", false, "process all video files in the input directory")
	rootCmd.MarkFlagsMutuallyExclusive("video", "all")
	rootCmd.MarkFlagsOneRequired("video", "all")
}

// Execute runs the CLI. It returns an error when a command failed.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
	}
	return err
}

func runOptions() (processor.Options, error) {
	switch mode {
	case "", config.ModeVideo, config.ModeTranscript:
	default:
		return processor.Options{}, fmt.Errorf("--mode must be %q or %q, got %q", config.ModeVideo, config.ModeTranscript, mode)
	}
	return processor.Options{
		Model:          modelName,
		TranscribeOnly: transcribeOnly,
		Mode:           mode,
	}, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
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

	if videoPath != "" {
		return runVideo(ctx, a, videoPath, opts)
	}
	return runAll(ctx, a, opts)
}

func runVideo(ctx context.Context, a *app, path string, opts processor.Options) error {
	res, err := a.proc.Process(ctx, path, opts)
	if errors.Is(err, processor.ErrVideoNotFound) {
		return fmt.Errorf("video file not found at %s", path)
	}
	// Only a missing input is a hard failure; generation errors are reported.
	if err != nil {
		a.log.Error(ctx, "Processing %s failed: %v", path, err)
		fmt.Fprintln(os.Stderr, color.RedString("Brief generation: Failed (%v)", err))
	}
	printResult(res)
	return nil
}

func runAll(ctx context.Context, a *app, opts processor.Options) error {
	sum, err := a.proc.ProcessAll(ctx, opts)
	if err != nil {
		return err
	}
	printSummary(sum, opts.TranscribeOnly)
	return nil
}

func printResult(res processor.Result) {
	if res.TranscriptPath != "" {
		fmt.Printf("%s %s\n", color.GreenString("Transcript:"), res.TranscriptPath)
	}
	if res.BriefPath != "" {
		fmt.Printf("%s %s\n", color.GreenString("Brief:"), res.BriefPath)
	}
}

func printSummary(sum processor.Summary, transcribeOnly bool) {
	fmt.Println()
	fmt.Println(color.New(color.Bold).Sprint("Summary"))
	fmt.Printf("  Videos found:         %d\n", sum.Total)
	fmt.Printf("  Transcribed:          %s\n", color.GreenString("%d", sum.Transcribed))
	if !transcribeOnly {
		fmt.Printf("  Briefs generated:     %s\n", color.GreenString("%d", sum.Briefs))
	}
	failed := fmt.Sprintf("%d", sum.Failed)
	if sum.Failed > 0 {
		failed = color.RedString("%d", sum.Failed)
	}
	fmt.Printf("  Failed:               %s\n", failed)
}

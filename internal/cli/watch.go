package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/locator"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the input folder and brief new videos as they arrive",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := runOptions()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}

	handler := func(ctx context.Context, path string) error {
		res, err := a.proc.Process(ctx, path, opts)
		if err != nil {
			return err
		}
		printResult(res)
		a.writeMetrics(ctx)
		return nil
	}

	w, err := watcher.New(watcher.Options{
		Dir:         locator.ExpandHome(a.cfg.Paths.Input),
		IsVideo:     a.locator.IsVideo,
		SettleDelay: a.cfg.Watch.SettleDelay,
	}, handler, a.log)
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if addr := a.cfg.Metrics.Listen; addr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, addr, a.log); err != nil {
				a.log.Error(ctx, "Metrics server stopped: %v", err)
			}
		}()
	}

	a.log.Info(ctx, "Press Ctrl+C to stop")
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.log.Info(ctx, "Watcher stopped")
	return nil
}

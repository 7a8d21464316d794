package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func runCmd(mode *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Assemble today's briefing and deliver it once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefing(cmd.Context(), *mode)
		},
	}
}

// runBriefing performs a single pipeline run. Only configuration errors,
// delivery failures and cancellation are returned.
func runBriefing(parent context.Context, mode string) error {
	cfg, err := loadConfig(mode)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	_, err = newPipeline(cfg, nil).service.Run(ctx)
	return err
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func reminderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminder",
		Short: "Post today's schedule reminder once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, cfg.DeliveryTimeout)
			defer cancel()

			_, err = newPipeline(cfg, nil).reminders.Run(ctx)
			return err
		},
	}
}

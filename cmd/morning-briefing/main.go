package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/morning-briefing/internal/logger"
)

var Version = "dev"

func main() {
	logger.Init()

	var mode string
	rootCmd := &cobra.Command{
		Use:           "morning-briefing",
		Short:         "Compose and deliver a daily weather and news briefing",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Without a subcommand the root behaves like `run`.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefing(cmd.Context(), mode)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&mode, "mode", "m", "", "Composition mode override (deterministic, rewritten)")

	rootCmd.AddCommand(runCmd(&mode))
	rootCmd.AddCommand(previewCmd(&mode))
	rootCmd.AddCommand(serveCmd(&mode))
	rootCmd.AddCommand(reminderCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Log.Errorf("morning-briefing: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func previewCmd(mode *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print today's briefing without delivering it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*mode)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
			defer cancel()

			comp, err := newPipeline(cfg, nil).service.Preview(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(comp)
			}
			_, err = fmt.Fprintln(out, comp.Message.Text())
			return err
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output the composition as JSON")
	return cmd
}

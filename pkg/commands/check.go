package commands

import (
	"context"
	"fmt"

	"github.com/borgmon/fast-alarm/pkg/control"
	"github.com/borgmon/fast-alarm/pkg/store"
	"github.com/spf13/cobra"
)

func addCheck(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Ask the running instance to deliver any alarm that is overdue.",
		Example: `
fast-alarm check
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig(configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
			defer cancel()
			cli, err := control.Dial(ctx, cfg.Socket)
			if err != nil {
				return err
			}
			defer cli.Close()

			delivered, err := cli.Check(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Delivered %d overdue alarm(s)\n", delivered)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

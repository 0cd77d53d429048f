package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/borgmon/fast-alarm/pkg/control"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/printers"
	"github.com/borgmon/fast-alarm/pkg/store"
	"github.com/spf13/cobra"
)

const dialTimeout = 3 * time.Second

func addStatus(topLevel *cobra.Command) {
	output := ""
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the alarms armed in the running instance.",
		Example: `
fast-alarm status
fast-alarm status -o json
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

			res, err := cli.Status(ctx)
			if err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), res, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format. Empty for a table, or 'json'.")

	topLevel.AddCommand(cmd)
}

func printStatus(out io.Writer, res *control.StatusResult, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	pp := &printers.PrettyPrint{Out: out}
	pp.Settings(models.AlarmSettings{
		Enabled:      res.Enabled,
		SaharMinutes: res.SaharMinutes,
		IftarMinutes: res.IftarMinutes,
	})

	rows := make([]printers.AlarmRow, 0, len(res.Alarms))
	for _, a := range res.Alarms {
		rows = append(rows, printers.AlarmRow{
			Kind:      models.AlarmKind(a.Kind),
			Instant:   a.Instant.Local(),
			Triggered: a.Triggered,
		})
	}
	date := res.Date
	if date == "" {
		date = "today"
	}
	pp.Plan(date, rows)
	return nil
}

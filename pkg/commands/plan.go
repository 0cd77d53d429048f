package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/borgmon/fast-alarm/pkg/calendar"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/planner"
	"github.com/borgmon/fast-alarm/pkg/printers"
	"github.com/borgmon/fast-alarm/pkg/store"
	"github.com/spf13/cobra"
)

const atLayout = "2006-01-02 15:04"

func addPlan(topLevel *cobra.Command) {
	at := ""
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the alarms that would be armed now, without arming them.",
		Example: `
fast-alarm plan
fast-alarm plan --at="2026-03-01 04:00"
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig(configPath)
			if err != nil {
				return err
			}

			now := time.Now()
			if at != "" {
				if now, err = time.ParseInLocation(atLayout, at, time.Local); err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}
			return runPlan(context.Background(), cfg, now, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&at, "at", "",
		`Plan as if it were this local time, example: --at="2026-03-01 04:00".`)

	topLevel.AddCommand(cmd)
}

// runPlan prints what Plan would arm at now. Disabled settings still show
// the alarms so offsets can be checked before enabling.
func runPlan(ctx context.Context, cfg *models.AppConfig, now time.Time, out io.Writer) error {
	source, closeSource, err := calendar.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	settings, err := store.NewSettingsStore(store.NewDiskvKV(cfg.DataDir)).Load()
	if err != nil {
		return err
	}

	times, err := source.DayTimes(ctx, now)
	if err != nil {
		return err
	}

	pp := &printers.PrettyPrint{Out: out}
	pp.Settings(settings)
	pp.Plan(models.DateKey(now), printers.RowsFrom(planner.Plan(now, times, settings)))
	return nil
}

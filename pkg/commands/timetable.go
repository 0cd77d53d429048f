package commands

import (
	"context"
	"errors"

	"github.com/borgmon/fast-alarm/pkg/calendar"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/printers"
	"github.com/borgmon/fast-alarm/pkg/store"
	"github.com/spf13/cobra"
)

func addTimetable(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Manage the local imsak and iftar timetable",
		Example: `
fast-alarm timetable set 2026-03-01 04:32 18:05
fast-alarm timetable show
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTimetableSet(cmd)
	addTimetableShow(cmd)

	topLevel.AddCommand(cmd)
}

func addTimetableSet(parent *cobra.Command) {
	calendarID := ""
	cmd := &cobra.Command{
		Use:   "set DATE IMSAK IFTAR",
		Short: "Store the event times for one date, replacing any existing row.",
		Example: `
fast-alarm timetable set 2026-03-01 04:32 18:05 --calendar jakarta-1447
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return withTimetable(cfg, func(tt *calendar.Timetable) error {
				return tt.Put(context.Background(), models.DayEventTimes{
					Date:       args[0],
					Sahar:      args[1],
					Iftar:      args[2],
					CalendarID: calendarID,
				})
			})
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar id stored with the row.")

	parent.AddCommand(cmd)
}

func addTimetableShow(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every stored date.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return withTimetable(cfg, func(tt *calendar.Timetable) error {
				days, err := tt.Days(context.Background())
				if err != nil {
					return err
				}
				pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
				pp.Days(days)
				return nil
			})
		},
	}

	parent.AddCommand(cmd)
}

func withTimetable(cfg *models.AppConfig, fn func(tt *calendar.Timetable) error) error {
	if cfg.Timetable == "" {
		return errors.New("no timetable path configured")
	}
	tt, err := calendar.OpenTimetable(cfg.Timetable)
	if err != nil {
		return err
	}
	defer tt.Close()
	return fn(tt)
}

package commands

import (
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/store"
	"github.com/spf13/cobra"
)

var (
	configPath string
)

// TrayFunc runs the desktop tray app. It blocks until the app quits.
type TrayFunc func(cfg *models.AppConfig) error

// New returns the root command. Without a subcommand it starts the tray app.
func New(tray TrayFunc) *cobra.Command {

	cmd := &cobra.Command{
		Use:   "fast-alarm",
		Short: "Sahur and iftar alarms from the system tray or the command line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tray == nil {
				return cmd.Help()
			}
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return tray(cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (default is $HOME/.fast-alarm.yaml).")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addDaemon(topLevel)
	addPlan(topLevel)
	addStatus(topLevel)
	addCheck(topLevel)
	addSettings(topLevel)
	addTimetable(topLevel)
	addVersion(topLevel)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/borgmon/fast-alarm/pkg/control"
	"github.com/borgmon/fast-alarm/pkg/engine"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/notify"
	"github.com/borgmon/fast-alarm/pkg/printers"
	"github.com/borgmon/fast-alarm/pkg/store"
	"github.com/spf13/cobra"
)

func addSettings(topLevel *cobra.Command) {
	enable, disable := false, false
	sahar, iftar := models.DefaultPreMinutes, models.DefaultPreMinutes
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the daemon's alarm settings.",
		Example: `
fast-alarm settings
fast-alarm settings --enable --sahar-minutes 30 --iftar-minutes 10
fast-alarm settings --disable
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if enable && disable {
				return errors.New("--enable and --disable cannot be used together")
			}
			cfg, err := store.LoadConfig(configPath)
			if err != nil {
				return err
			}

			patch := models.SettingsPatch{}
			if enable || disable {
				patch.Enabled = &enable
			}
			if cmd.Flags().Changed("sahar-minutes") {
				patch.SaharMinutes = &sahar
			}
			if cmd.Flags().Changed("iftar-minutes") {
				patch.IftarMinutes = &iftar
			}

			prompter := prompterFor(cfg.Notifications, cmd.InOrStdin(), cmd.OutOrStdout())
			return runSettings(context.Background(), cfg, patch, prompter, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&enable, "enable", false, "Turn alarms on.")
	cmd.Flags().BoolVar(&disable, "disable", false, "Turn alarms off.")
	cmd.Flags().IntVar(&sahar, "sahar-minutes", models.DefaultPreMinutes,
		"Minutes before imsak for the sahur reminder, 1 to 60.")
	cmd.Flags().IntVar(&iftar, "iftar-minutes", models.DefaultPreMinutes,
		"Minutes before iftar for the iftar reminder, 1 to 60.")

	topLevel.AddCommand(cmd)
}

// runSettings applies patch the way the settings window saves: enabling asks
// for notification permission first, and a denial still saves.
func runSettings(ctx context.Context, cfg *models.AppConfig, patch models.SettingsPatch, prompter notify.Prompter, out io.Writer) error {
	kv := store.NewDiskvKV(cfg.DataDir)
	settings := store.NewSettingsStore(kv)
	pp := &printers.PrettyPrint{Out: out}

	if patch == (models.SettingsPatch{}) {
		current, err := settings.Load()
		if err != nil {
			return err
		}
		pp.Settings(current)
		return nil
	}

	if patch.Enabled != nil && *patch.Enabled {
		_, err := notify.NewPermissions(kv, prompter).Request(ctx)
		switch {
		case errors.Is(err, notify.ErrPermissionDenied):
			fmt.Fprintln(out, engine.DeniedWarning)
		case err != nil:
			return err
		}
	}

	saved, err := settings.Update(patch)
	if err != nil {
		return err
	}
	pp.Settings(saved)

	replan(ctx, cfg.Socket, out)
	return nil
}

// replan asks a running instance to pick up new settings, if there is one
func replan(ctx context.Context, socket string, out io.Writer) {
	if socket == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	cli, err := control.Dial(ctx, socket)
	if err != nil {
		fmt.Fprintln(out, "No running instance, changes apply on next start.")
		return
	}
	defer cli.Close()

	if _, err := cli.Replan(ctx); err != nil {
		fmt.Fprintf(out, "Running instance failed to re-plan: %v\n", err)
		return
	}
	fmt.Fprintln(out, "Running instance re-planned.")
}

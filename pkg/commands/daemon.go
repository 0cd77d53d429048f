package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/borgmon/fast-alarm/pkg/calendar"
	"github.com/borgmon/fast-alarm/pkg/engine"
	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/notify"
	"github.com/borgmon/fast-alarm/pkg/scheduler"
	"github.com/borgmon/fast-alarm/pkg/store"
	"github.com/spf13/cobra"
)

func addDaemon(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the alarms without the tray, using the desktop notifier.",
		Example: `
fast-alarm daemon
FAST_ALARM_NOTIFICATIONS=allow fast-alarm daemon --config ~/ramadan.yaml
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig(configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			prompter := prompterFor(cfg.Notifications, cmd.InOrStdin(), cmd.OutOrStdout())
			return runDaemon(ctx, cfg, prompter)
		},
	}

	topLevel.AddCommand(cmd)
}

func runDaemon(ctx context.Context, cfg *models.AppConfig, prompter notify.Prompter) error {
	if cfg.NeedsConfiguration() {
		log.Printf("[PLAN] No event time source configured, alarms will not be planned")
	}

	source, closeSource, err := calendar.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	eng, err := engine.New(engine.Options{
		KV:             store.NewDiskvKV(cfg.DataDir),
		Source:         source,
		Direct:         notify.NewExecChannel(),
		Prompter:       prompter,
		SocketPath:     cfg.Socket,
		RecoveryPick:   scheduler.ParsePickPolicy(cfg.RecoveryPick),
		ReplanSchedule: cfg.ReplanCron,
	})
	if err != nil {
		return err
	}

	if settings, err := eng.Settings.Load(); err == nil && settings.Enabled {
		if _, err := eng.Permissions.Request(ctx); err != nil {
			log.Printf("[NOTIFY] %v", err)
		}
	}

	if err := eng.Start(ctx); err != nil {
		eng.Stop()
		return err
	}
	if cfg.Socket != "" {
		log.Printf("[CONTROL] Listening on %s", cfg.Socket)
	}

	<-ctx.Done()
	log.Printf("[CONTROL] Shutting down")
	eng.Stop()
	return nil
}

// terminalPrompter asks on the terminal the daemon was started from
type terminalPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p terminalPrompter) Prompt(context.Context) (bool, error) {
	fmt.Fprint(p.out, "Allow fast-alarm to show desktop notifications? [y/N] ")
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func prompterFor(policy string, in io.Reader, out io.Writer) notify.Prompter {
	switch policy {
	case models.NotificationsAllow:
		return notify.StaticPrompter(true)
	case models.NotificationsDeny:
		return notify.StaticPrompter(false)
	}
	return terminalPrompter{in: in, out: out}
}

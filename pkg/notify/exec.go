package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/borgmon/fast-alarm/pkg/models"
)

// ExecChannel shows notifications with notify-send on Linux and osascript on macOS
type ExecChannel struct {
	goos string
	run  func(name string, args ...string) error
}

func NewExecChannel() *ExecChannel {
	return &ExecChannel{
		goos: runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (c *ExecChannel) Show(n models.Notification) error {
	name, args, err := c.command(n)
	if err != nil {
		return err
	}
	if err := c.run(name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (c *ExecChannel) command(n models.Notification) (string, []string, error) {
	switch c.goos {
	case "linux", "freebsd", "openbsd":
		urgency := "normal"
		if n.RequireInteraction {
			urgency = "critical"
		}
		args := []string{"-a", "fast-alarm", "-u", urgency}
		if n.Icon != "" {
			args = append(args, "-i", n.Icon)
		}
		return "notify-send", append(args, n.Title, n.Message), nil
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(n.Message), appleScriptString(n.Title))
		if n.RequireInteraction {
			script += ` sound name "Glass"`
		}
		return "osascript", []string{"-e", script}, nil
	}
	return "", nil, fmt.Errorf("desktop notifications are not supported on %s", c.goos)
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

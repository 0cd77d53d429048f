package store

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// LoadConfig reads .fast-alarm.yaml from $HOME or the working directory, or the
// file at path when given. Environment variables prefixed FAST_ALARM_ override it.
func LoadConfig(path string) (*models.AppConfig, error) {
	v := viper.New()

	v.SetDefault("data_dir", "~/.fast-alarm")
	v.SetDefault("source", models.SourceNone)
	v.SetDefault("ical", "")
	v.SetDefault("timetable", "~/.fast-alarm/timetable.db")
	v.SetDefault("socket", "~/.fast-alarm/control.sock")
	v.SetDefault("sahar_names", []string{"imsak", "sahur", "suhoor"})
	v.SetDefault("iftar_names", []string{"iftar", "maghrib"})
	v.SetDefault("autostart", false)
	v.SetDefault("notifications", models.NotificationsPrompt)
	v.SetDefault("recovery_pick", "first")
	v.SetDefault("replan_cron", "0 * * * *")

	v.SetEnvPrefix("FAST_ALARM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".fast-alarm") // .yaml is implicit
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath("./")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &models.AppConfig{
		Source:        v.GetString("source"),
		ICal:          v.GetString("ical"),
		SaharNames:    v.GetStringSlice("sahar_names"),
		IftarNames:    v.GetStringSlice("iftar_names"),
		AutoStart:     v.GetBool("autostart"),
		Notifications: v.GetString("notifications"),
		RecoveryPick:  v.GetString("recovery_pick"),
		ReplanCron:    v.GetString("replan_cron"),
	}

	var err error
	if cfg.DataDir, err = expandPath(v.GetString("data_dir")); err != nil {
		return nil, err
	}
	if cfg.Timetable, err = expandPath(v.GetString("timetable")); err != nil {
		return nil, err
	}
	if cfg.Socket, err = expandPath(v.GetString("socket")); err != nil {
		return nil, err
	}
	if cfg.ICal != "" && !isURL(cfg.ICal) {
		if cfg.ICal, err = expandPath(cfg.ICal); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

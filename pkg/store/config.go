package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/timeutil"
)

// Backend selects the KV implementation.
type Backend string

const (
	BackendDisk   Backend = "disk"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Config is what Open needs to find the buckets.
type Config interface {
	BasePath() string
	Backend() Backend
}

// Settings is the full taskflow configuration read from .taskflow files and
// TASKFLOW_* environment variables.
type Settings struct {
	Path       string  `mapstructure:"path"`
	Store      Backend `mapstructure:"backend"`
	User       string  `mapstructure:"user"`
	WeekStart  string  `mapstructure:"week_start"`
	BotName    string  `mapstructure:"bot_name"`
	LogLevel   string  `mapstructure:"log_level"`
	SeriesDays int     `mapstructure:"series_days"`
}

func (s *Settings) BasePath() string { return s.Path }

func (s *Settings) Backend() Backend {
	if s.Store == "" {
		return BackendDisk
	}
	return s.Store
}

// FirstWeekday is the configured first day of the week.
func (s *Settings) FirstWeekday() time.Weekday {
	return timeutil.ParseWeekday(s.WeekStart)
}

// LoadConfig reads settings, searching $TASKFLOW_CONFIG_PATH, the working
// directory and the home directory for a .taskflow file.
func LoadConfig() (*Settings, error) {
	v := viper.New()
	v.SetDefault("path", "~/.taskflow.db")
	v.SetDefault("backend", string(BackendDisk))
	v.SetDefault("week_start", "monday")
	v.SetDefault("bot_name", "Chinni")
	v.SetDefault("log_level", "warn")
	v.SetDefault("series_days", 30)
	v.SetConfigName(".taskflow") // .yaml is implicit
	v.SetEnvPrefix("TASKFLOW")
	v.AutomaticEnv()

	if override := os.Getenv("TASKFLOW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("store: decode config: %w", err)
	}
	path, err := homedir.Expand(s.Path)
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	s.Path = path
	s.Store = Backend(strings.ToLower(strings.TrimSpace(string(s.Store))))
	if s.SeriesDays <= 0 {
		s.SeriesDays = 30
	}
	return s, nil
}

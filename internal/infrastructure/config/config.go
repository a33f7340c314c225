package config

import (
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"focustrack/internal/timer"
	"focustrack/internal/util"
)

// App holds the full focustrack configuration, loaded from FOCUSTRACK_*
// environment variables. The core treats the interval settings as opaque
// numbers; debug mode reinterprets them as seconds so a full cycle can be
// exercised in under a minute.
type App struct {
	DatabasePath string `envconfig:"FOCUSTRACK_DB_PATH"`

	WorkMinutes       int64 `envconfig:"FOCUSTRACK_WORK_MINUTES" default:"25"`
	ShortBreakMinutes int64 `envconfig:"FOCUSTRACK_SHORT_BREAK_MINUTES" default:"5"`
	LongBreakMinutes  int64 `envconfig:"FOCUSTRACK_LONG_BREAK_MINUTES" default:"15"`

	PomodorosUntilLongBreak int64 `envconfig:"FOCUSTRACK_POMODOROS_UNTIL_LONG_BREAK" default:"4"`
	DailyGoal               int64 `envconfig:"FOCUSTRACK_DAILY_GOAL" default:"8"`

	DebugMode             bool  `envconfig:"FOCUSTRACK_DEBUG_MODE" default:"false"`
	DebugWorkSeconds      int64 `envconfig:"FOCUSTRACK_DEBUG_WORK_SECONDS" default:"10"`
	DebugShortBreakSecs   int64 `envconfig:"FOCUSTRACK_DEBUG_SHORT_BREAK_SECONDS" default:"5"`
	DebugLongBreakSeconds int64 `envconfig:"FOCUSTRACK_DEBUG_LONG_BREAK_SECONDS" default:"10"`
}

// Load reads the configuration from the environment and fills in the
// default database location under the XDG data directory.
func Load() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.DatabasePath == "" {
		dataDir, err := util.EnsureDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DatabasePath = filepath.Join(dataDir, "focustrack.db")
	}

	return &cfg, nil
}

// TimerConfig renders the interval settings for the state machine.
func (a *App) TimerConfig() timer.Config {
	if a.DebugMode {
		return timer.Config{
			WorkSeconds:             a.DebugWorkSeconds,
			ShortBreakSeconds:       a.DebugShortBreakSecs,
			LongBreakSeconds:        a.DebugLongBreakSeconds,
			PomodorosUntilLongBreak: a.PomodorosUntilLongBreak,
			DailyGoal:               a.DailyGoal,
		}
	}
	return timer.Config{
		WorkSeconds:             a.WorkMinutes * 60,
		ShortBreakSeconds:       a.ShortBreakMinutes * 60,
		LongBreakSeconds:        a.LongBreakMinutes * 60,
		PomodorosUntilLongBreak: a.PomodorosUntilLongBreak,
		DailyGoal:               a.DailyGoal,
	}
}

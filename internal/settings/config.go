package settings

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	trackererrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

const (
	// AppName is the application name used for the config directory
	AppName = "growth"
	// SettingsFile is the name of the TOML settings file
	SettingsFile = "settings.toml"
	// DateLayout is the calendar-day format used for the overwork request date
	DateLayout = "2006-01-02"
)

// Settings is the persisted work-time policy. The overwork request is
// tracked with the calendar day it was made on so a stale request from a
// previous day can be dropped on load.
type Settings struct {
	// BaseHoursPerDay is the base daily work-time limit in hours (1-24)
	BaseHoursPerDay int `toml:"base_hours_per_day"`
	// GraceMinutes is the buffer past the base limit when no overwork was requested
	GraceMinutes int `toml:"grace_minutes"`
	// MaxOverworkMinutes bounds the per-day overwork request
	MaxOverworkMinutes int `toml:"max_overwork_minutes"`
	// MaxSessionsPerDay limits sessions started per calendar day (0 = unlimited)
	MaxSessionsPerDay int `toml:"max_sessions_per_day"`
	// OverworkMinutesRequested is the extra allowance opted into for OverworkRequestDate
	OverworkMinutesRequested int `toml:"overwork_minutes_requested"`
	// OverworkRequestDate is the calendar day the request applies to (YYYY-MM-DD)
	OverworkRequestDate string `toml:"overwork_request_date"`
}

// DefaultSettings returns Settings with the stock policy:
// 8h base day, 15 minutes of grace, up to 2h of requested overwork,
// no session-count limit, no overwork requested.
func DefaultSettings() Settings {
	return Settings{
		BaseHoursPerDay:    8,
		GraceMinutes:       15,
		MaxOverworkMinutes: 120,
		MaxSessionsPerDay:  0,
	}
}

// Normalize fills zero-valued policy fields with their defaults.
// A zero base limit or grace is treated as unset, not as a choice.
func (s *Settings) Normalize() {
	defaults := DefaultSettings()
	if s.BaseHoursPerDay == 0 {
		s.BaseHoursPerDay = defaults.BaseHoursPerDay
	}
	if s.GraceMinutes == 0 {
		s.GraceMinutes = defaults.GraceMinutes
	}
	if s.MaxOverworkMinutes == 0 {
		s.MaxOverworkMinutes = defaults.MaxOverworkMinutes
	}
}

// Validate checks the settings for out-of-range values
func (s Settings) Validate() error {
	const op = "settings.Validate"
	if s.BaseHoursPerDay < 1 || s.BaseHoursPerDay > 24 {
		return trackererrors.NewValidation(op, "base_hours_per_day", "must be between 1 and 24")
	}
	if s.GraceMinutes < 0 {
		return trackererrors.NewValidation(op, "grace_minutes", "cannot be negative")
	}
	if s.MaxOverworkMinutes < 0 {
		return trackererrors.NewValidation(op, "max_overwork_minutes", "cannot be negative")
	}
	if s.MaxSessionsPerDay < 0 {
		return trackererrors.NewValidation(op, "max_sessions_per_day", "cannot be negative")
	}
	if s.OverworkMinutesRequested < 0 || s.OverworkMinutesRequested > s.MaxOverworkMinutes {
		return trackererrors.NewValidation(op, "overwork_minutes_requested", "must be between 0 and max_overwork_minutes")
	}
	return nil
}

// Policy returns the policy snapshot the limit engine consumes
func (s Settings) Policy() types.LimitPolicyConfig {
	return types.LimitPolicyConfig{
		BaseHoursPerDay:          s.BaseHoursPerDay,
		GraceMinutes:             s.GraceMinutes,
		MaxOverworkMinutes:       s.MaxOverworkMinutes,
		OverworkMinutesRequested: s.OverworkMinutesRequested,
		MaxSessionsPerDay:        s.MaxSessionsPerDay,
	}
}

// LoadOrDefault reads settings from path, returning defaults when the
// file does not exist. A malformed or invalid file is an error.
func LoadOrDefault(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, trackererrors.NewTrackerErrorWithContext(
			"settings.LoadOrDefault", err, trackererrors.ErrCodeCorruption,
			map[string]string{"path": path})
	}

	s.Normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// DefaultPath returns the settings file path under the user config
// directory, creating the application directory if needed.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, AppName)
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, SettingsFile), nil
}

package settings

import (
	"fmt"
	"os"
	"sync"
	"time"

	trackererrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// Service owns the persisted policy settings. All mutations go through
// it: validate first, write the file, then swap the in-memory copy, so
// a failed write never leaves memory and disk disagreeing.
type Service struct {
	mu       sync.Mutex
	path     string
	settings Settings
	logger   logging.Logger
}

// NewService creates a Service holding the given settings
func NewService(path string, s Settings, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Service{
		path:     path,
		settings: s,
		logger:   logger,
	}
}

// NewServiceFromFile loads settings from path (defaults when missing)
// and wraps them in a Service.
func NewServiceFromFile(path string, logger logging.Logger) (*Service, error) {
	s, err := LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	return NewService(path, s, logger), nil
}

// Get returns a copy of the current settings
func (s *Service) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Policy returns the current policy snapshot
func (s *Service) Policy() types.LimitPolicyConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Policy()
}

// Path returns the settings file path
func (s *Service) Path() string {
	return s.path
}

// Update replaces the settings after normalizing and validating them
func (s *Service) Update(next Settings) error {
	next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(next)
}

// SetOverworkMinutesRequested records an overwork request for the given
// day. Minutes outside [0, MaxOverworkMinutes] are a validation error;
// zero withdraws the request.
func (s *Service) SetOverworkMinutesRequested(minutes int, today time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if minutes < 0 || minutes > s.settings.MaxOverworkMinutes {
		return trackererrors.NewValidation("settings.SetOverworkMinutesRequested",
			"minutes", fmt.Sprintf("must be between 0 and %d", s.settings.MaxOverworkMinutes))
	}

	next := s.settings
	next.OverworkMinutesRequested = minutes
	next.OverworkRequestDate = today.Format(DateLayout)
	if minutes == 0 {
		next.OverworkRequestDate = ""
	}
	return s.commit(next)
}

// ClearOverworkRequest drops any pending overwork request. Used after a
// forced clock-out so the allowance does not carry into a new session.
func (s *Service) ClearOverworkRequest() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings.OverworkMinutesRequested == 0 {
		return nil
	}
	next := s.settings
	next.OverworkMinutesRequested = 0
	next.OverworkRequestDate = ""
	return s.commit(next)
}

// ResetOverworkForNewDay drops an overwork request that was made on an
// earlier calendar day. A request made today is kept.
func (s *Service) ResetOverworkForNewDay(today time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings.OverworkMinutesRequested == 0 {
		return nil
	}
	if s.settings.OverworkRequestDate == today.Format(DateLayout) {
		return nil
	}

	s.logger.Info("settings: dropping stale overwork request",
		"requestDate", s.settings.OverworkRequestDate,
		"minutes", s.settings.OverworkMinutesRequested)

	next := s.settings
	next.OverworkMinutesRequested = 0
	next.OverworkRequestDate = ""
	return s.commit(next)
}

// commit writes next to disk and swaps it into memory. Callers hold s.mu.
func (s *Service) commit(next Settings) error {
	if err := s.writeSettings(next); err != nil {
		return trackererrors.NewTrackerErrorWithContext(
			"settings.commit", err, trackererrors.ErrCodeConnection,
			map[string]string{"path": s.path})
	}
	s.settings = next
	return nil
}

// writeSettings writes the settings file atomically: the content goes
// to a temp file in the same directory, then renames over the target.
func (s *Service) writeSettings(cfg Settings) error {
	content := fmt.Sprintf(`# growth work-time settings

# Base daily work-time limit in hours (1-24)
base_hours_per_day = %d

# Buffer past the base limit when no overwork was requested, in minutes
grace_minutes = %d

# Upper bound for a per-day overwork request, in minutes
max_overwork_minutes = %d

# Sessions allowed per calendar day; 0 means unlimited
max_sessions_per_day = %d

# Overwork requested for the day below, in minutes
overwork_minutes_requested = %d
overwork_request_date = %q
`, cfg.BaseHoursPerDay, cfg.GraceMinutes, cfg.MaxOverworkMinutes,
		cfg.MaxSessionsPerDay, cfg.OverworkMinutesRequested, cfg.OverworkRequestDate)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

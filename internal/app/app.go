package app

import (
	"context"
	"time"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/database"
	trackererrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/repository"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/services"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/settings"
)

// DefaultUserID is used when the host does not identify the user
const DefaultUserID = "default"

// Options configures application assembly
type Options struct {
	// Environment selects the database configuration
	// (development/test/production)
	Environment string
	// UserID identifies whose sessions the tracker manages
	UserID string
	// SettingsPath overrides the settings file location; empty means the
	// user config directory
	SettingsPath string
	// EnforceInterval is the limit enforcer tick cadence; zero means the
	// enforcer default
	EnforceInterval time.Duration
}

// App wires the time-tracking engine: logger, database, migrations,
// repository, settings, tracker and limit enforcer. It owns startup and
// shutdown ordering.
type App struct {
	environment string
	dbService   database.Service
	repository  repository.SessionRepository
	settings    *settings.Service
	tracker     *services.SessionTracker
	enforcer    *services.LimitEnforcer
	logger      logging.Logger
}

// New assembles the application. The database is connected and migrated
// before any component that depends on it is built.
func New(opts Options) (*App, error) {
	logger := logging.NewDefaultLogger()

	if opts.UserID == "" {
		opts.UserID = DefaultUserID
	}

	config := database.ConfigForEnvironment(opts.Environment)
	dbService := database.NewSQLiteService(logger)
	if err := dbService.Connect(context.Background(), config); err != nil {
		return nil, err
	}
	if err := dbService.Migrate(context.Background()); err != nil {
		dbService.Close()
		return nil, err
	}

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		var err error
		settingsPath, err = settings.DefaultPath()
		if err != nil {
			dbService.Close()
			return nil, trackererrors.NewTrackerError("app.New", err, trackererrors.ErrCodePermission)
		}
	}
	settingsService, err := settings.NewServiceFromFile(settingsPath, logger)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	repo := repository.NewSQLiteRepository(dbService, logger)
	tracker := services.NewSessionTracker(opts.UserID, repo, settingsService, logger)
	enforcer := services.NewLimitEnforcer(tracker, settingsService, opts.EnforceInterval, logger)

	return &App{
		environment: opts.Environment,
		dbService:   dbService,
		repository:  repo,
		settings:    settingsService,
		tracker:     tracker,
		enforcer:    enforcer,
		logger:      logger,
	}, nil
}

// Startup restores any open session from the database and starts the
// limit enforcer loop.
func (a *App) Startup(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.dbService.Health(healthCtx); err != nil {
		return err
	}

	if err := a.tracker.Restore(ctx); err != nil {
		return err
	}

	// Enforce immediately so a session that crossed the cap while the
	// process was down is closed before any command runs
	if err := a.enforcer.Tick(ctx); err != nil {
		logging.LogError(a.logger, err, "app.Startup", map[string]interface{}{
			"operation": "initial_enforcement",
		})
	}

	a.enforcer.Start(ctx)
	a.logger.Info("application started", "environment", a.environment)
	return nil
}

// Shutdown stops the enforcer and closes the database
func (a *App) Shutdown(ctx context.Context) {
	a.enforcer.Stop()

	if err := a.dbService.Close(); err != nil {
		logging.LogError(a.logger, err, "app.Shutdown", map[string]interface{}{
			"operation": "close_connection",
		})
		return
	}
	a.logger.Info("application shut down")
}

// Tracker returns the session state machine
func (a *App) Tracker() *services.SessionTracker {
	return a.tracker
}

// Settings returns the policy settings service
func (a *App) Settings() *settings.Service {
	return a.settings
}

// Enforcer returns the limit enforcer
func (a *App) Enforcer() *services.LimitEnforcer {
	return a.enforcer
}

// Logger returns the application's structured logger
func (a *App) Logger() logging.Logger {
	return a.logger
}

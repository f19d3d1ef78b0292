// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/law-makers/leadcrawl/internal/auth"
	"github.com/law-makers/leadcrawl/internal/browser"
	"github.com/law-makers/leadcrawl/internal/config"
	"github.com/law-makers/leadcrawl/internal/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation. Use Close() to ensure the
// browser and the log file are released on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	RateLimiter *ratelimit.DomainLimiter
	Sessions    *auth.Store
	Browser     *browser.Session
	browserMu   sync.Mutex
	logFile     *lumberjack.Logger
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the rate limiter for page throttling
//   - Opens the session store (keyring, or files when no keyring is available)
//
// The browser is not started here; see EnsureBrowser.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger, logFile := NewLogger(cfg, os.Stderr)
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Str("log_file", cfg.LogFile).
		Msg("Logger initialized")

	rateLimiter := ratelimit.NewDomainLimiter(cfg.PagesPerMinute, cfg.RateBurst)
	logger.Debug().
		Float64("pages_per_minute", cfg.PagesPerMinute).
		Int("burst", cfg.RateBurst).
		Msg("Rate limiter initialized")

	sessions, err := auth.DefaultStore()
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	logger.Debug().Str("backend", sessions.Backend()).Msg("Session store initialized")

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		RateLimiter: rateLimiter,
		Sessions:    sessions,
		logFile:     logFile,
		startTime:   time.Now(),
	}

	logger.Debug().Msg("Application initialized successfully")
	return app, nil
}

// NewLogger builds the process logger: console or JSON output on stderr,
// teed into a rotated JSON file when cfg.LogFile is set
func NewLogger(cfg *config.Config, stderr io.Writer) (zerolog.Logger, *lumberjack.Logger) {
	var logLevel zerolog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	// Info lines stay quiet unless -v is used; the progress bar covers them
	default:
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		// JSON logs to stderr
		logWriter = stderr
	} else {
		// Human-friendly console output otherwise
		logWriter = zerolog.ConsoleWriter{Out: stderr}
	}

	var logFile *lumberjack.Logger
	if cfg.LogFile != "" {
		logFile = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    config.DefaultLogFileMaxSizeMB,
			MaxBackups: config.DefaultLogFileMaxBackups,
			Compress:   true,
		}
		logWriter = zerolog.MultiLevelWriter(logWriter, logFile)
	}

	return zerolog.New(logWriter).With().Timestamp().Logger(), logFile
}

// BrowserOptions maps the configuration onto browser launch options
func (a *Application) BrowserOptions() browser.Options {
	return browser.Options{
		Headless:          a.Config.Headless,
		UserAgent:         a.Config.UserAgent,
		Proxy:             a.Config.Proxy,
		ChromePath:        a.Config.ChromePath,
		NavigationTimeout: a.Config.NavigationTimeout,
		Logger:            *a.Logger,
	}
}

// EnsureBrowser lazily launches the browser session if it has not already
// been started and returns it
func (a *Application) EnsureBrowser(ctx context.Context) (*browser.Session, error) {
	if a == nil {
		return nil, fmt.Errorf("application is nil")
	}

	a.browserMu.Lock()
	defer a.browserMu.Unlock()

	if a.Browser != nil {
		return a.Browser, nil
	}

	opts := a.BrowserOptions()
	if opts.ChromePath == "" {
		opts.ChromePath = browser.FindChrome()
	}
	if opts.ChromePath == "" {
		a.Logger.Debug().Msg("No Chrome found on disk, trying the chromedp default")
	}

	a.Logger.Debug().Msg("Starting browser on demand")
	session, err := browser.Launch(ctx, opts)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to start browser")
		if opts.ChromePath == "" {
			return nil, errors.Join(browser.ErrBrowserNotFound, err)
		}
		return nil, err
	}

	a.Browser = session
	a.Logger.Debug().Bool("headless", opts.Headless).Msg("Browser started on demand")
	return session, nil
}

// Close gracefully shuts down the application and all its resources.
//
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	a.browserMu.Lock()
	if a.Browser != nil {
		if err := a.Browser.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser")
		}
		a.Browser = nil
	}
	a.browserMu.Unlock()

	uptime := time.Since(a.startTime)
	a.Logger.Debug().Dur("uptime", uptime).Msg("Application shutdown complete")

	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

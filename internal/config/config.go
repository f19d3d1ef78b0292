package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool
	LogFile  string

	// Browser
	NavigationTimeout time.Duration
	UserAgent         string
	Proxy             string
	Headless          bool
	ChromePath        string

	// Sign in
	CredentialsPath string
	Account         string
	Session         string

	// Pagination
	WaitBetweenPages time.Duration
	WaitAfterLoad    time.Duration
	WaitAfterScroll  time.Duration
	ReadyTimeout     time.Duration

	// Rate Limiting
	PagesPerMinute float64
	RateBurst      int

	// Output
	SaveFormat string
	OutDir     string
	BackupDir  string
	NoBackup   bool
	NoPause    bool

	// Visiting
	VisitPageLoad time.Duration
	VisitMinWait  time.Duration
	VisitMaxWait  time.Duration
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		NavigationTimeout: DefaultNavigationTimeout,
		UserAgent:         DefaultUserAgent,
		Headless:          DefaultBrowserHeadless,
		CredentialsPath:   DefaultCredentialsPath,
		WaitBetweenPages:  DefaultWaitBetweenPages,
		WaitAfterLoad:     DefaultWaitAfterLoad,
		WaitAfterScroll:   DefaultWaitAfterScroll,
		ReadyTimeout:      DefaultReadyTimeout,
		PagesPerMinute:    DefaultPagesPerMinute,
		RateBurst:         DefaultRateBurst,
		SaveFormat:        DefaultSaveFormat,
		OutDir:            DefaultOutDir,
		VisitPageLoad:     DefaultVisitPageLoad,
		VisitMinWait:      DefaultVisitMinWait,
		VisitMaxWait:      DefaultVisitMaxWait,
	}
}

// Load builds a Config by combining defaults, environment variables, and CLI flags.
// Caller should pass the executing *cobra.Command so both persistent and
// command flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	// Override from environment variables (simple helpers)
	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv(EnvChromePath); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv(EnvCredentials); v != "" {
		cfg.CredentialsPath = v
	}

	// Read CLI flags if provided
	if cmd != nil {
		lookupString(cmd, "user-agent", &cfg.UserAgent)
		lookupString(cmd, "proxy", &cfg.Proxy)
		lookupString(cmd, "log-file", &cfg.LogFile)
		lookupString(cmd, "credentials", &cfg.CredentialsPath)
		lookupString(cmd, "account", &cfg.Account)
		lookupString(cmd, "session", &cfg.Session)
		lookupString(cmd, "save-format", &cfg.SaveFormat)
		lookupString(cmd, "out-dir", &cfg.OutDir)
		lookupString(cmd, "backup-dir", &cfg.BackupDir)

		if err := lookupDuration(cmd, "timeout", &cfg.NavigationTimeout); err != nil {
			return nil, err
		}
		for name, dst := range map[string]*time.Duration{
			"wait-between-pages": &cfg.WaitBetweenPages,
			"wait-after-load":    &cfg.WaitAfterLoad,
			"wait-after-scroll":  &cfg.WaitAfterScroll,
			"ready-timeout":      &cfg.ReadyTimeout,
			"page-load":          &cfg.VisitPageLoad,
			"min-wait":           &cfg.VisitMinWait,
			"max-wait":           &cfg.VisitMaxWait,
		} {
			if err := lookupDuration(cmd, name, dst); err != nil {
				return nil, err
			}
		}

		if f := cmd.Flags().Lookup("max-pages-per-minute"); f != nil {
			v, err := strconv.ParseFloat(f.Value.String(), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --max-pages-per-minute: %w", err)
			}
			cfg.PagesPerMinute = v
		}

		lookupBool(cmd, "headless", &cfg.Headless)
		lookupBool(cmd, "json", &cfg.JSONLog)
		lookupBool(cmd, "no-backup", &cfg.NoBackup)
		lookupBool(cmd, "no-pause", &cfg.NoPause)

		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func lookupString(cmd *cobra.Command, name string, dst *string) {
	if f := cmd.Flags().Lookup(name); f != nil {
		if s := f.Value.String(); s != "" {
			*dst = s
		}
	}
}

func lookupBool(cmd *cobra.Command, name string, dst *bool) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*dst = f.Value.String() == "true"
	}
}

func lookupDuration(cmd *cobra.Command, name string, dst *time.Duration) error {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return nil
	}
	s := f.Value.String()
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", name, err)
	}
	*dst = d
	return nil
}

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "recruiter", RunE: func(*cobra.Command, []string) error { return nil }}
	RegisterFlags(cmd)
	RegisterScrapeFlags(cmd, DefaultRecruiterBackupDir)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newCommand(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WaitBetweenPages != 5*time.Second || cfg.WaitAfterLoad != 3*time.Second || cfg.WaitAfterScroll != 3*time.Second {
		t.Errorf("waits = %v %v %v", cfg.WaitBetweenPages, cfg.WaitAfterLoad, cfg.WaitAfterScroll)
	}
	if cfg.BackupDir != DefaultRecruiterBackupDir {
		t.Errorf("BackupDir = %q", cfg.BackupDir)
	}
	if cfg.CredentialsPath != DefaultCredentialsPath {
		t.Errorf("CredentialsPath = %q", cfg.CredentialsPath)
	}
	if cfg.LogLevel != "info" || cfg.Headless {
		t.Errorf("LogLevel = %q, Headless = %v", cfg.LogLevel, cfg.Headless)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvProxy, "http://env:8080")
	t.Setenv(EnvCredentials, "/env/creds.json")

	cmd := newCommand(t,
		"--wait-between-pages", "0s",
		"--wait-after-load", "250ms",
		"--save-format", "xlsx",
		"--credentials", "/flag/creds.json",
		"--headless",
		"--verbose",
		"--max-pages-per-minute", "12",
	)
	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Proxy != "http://env:8080" {
		t.Errorf("Proxy = %q", cfg.Proxy)
	}
	if cfg.CredentialsPath != "/flag/creds.json" {
		t.Errorf("flag should win over env: %q", cfg.CredentialsPath)
	}
	if cfg.WaitBetweenPages != 0 || cfg.WaitAfterLoad != 250*time.Millisecond {
		t.Errorf("waits = %v %v", cfg.WaitBetweenPages, cfg.WaitAfterLoad)
	}
	if cfg.SaveFormat != "xlsx" || !cfg.Headless || cfg.LogLevel != "debug" || cfg.PagesPerMinute != 12 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"negative wait", []string{"--wait-after-scroll", "-1s"}, "wait after scroll"},
		{"bad format", []string{"--save-format", "pdf"}, "save format"},
		{"zero timeout", []string{"--timeout", "0s"}, "navigation timeout"},
		{"bad duration", []string{"--timeout", "soon"}, "--timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newCommand(t, tt.args...))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadVisitJitterBounds(t *testing.T) {
	cmd := &cobra.Command{Use: "visit"}
	RegisterFlags(cmd)
	RegisterVisitFlags(cmd)
	if err := cmd.ParseFlags([]string{"--min-wait", "9s", "--max-wait", "2s"}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cmd); err == nil || !strings.Contains(err.Error(), "min wait") {
		t.Errorf("err = %v", err)
	}
}

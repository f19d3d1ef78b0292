package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/leadcrawl/internal/config"
	"github.com/rs/zerolog"
)

func TestNewLoggerLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := config.Default()
			cfg.LogLevel = tt.level
			NewLogger(cfg, &bytes.Buffer{})
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("global level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	cfg := config.Default()
	cfg.JSONLog = true
	cfg.LogFile = filepath.Join(t.TempDir(), "leadcrawl.log")

	var stderr bytes.Buffer
	logger, file := NewLogger(cfg, &stderr)
	if file == nil {
		t.Fatal("expected a rotating log file")
	}
	logger.Warn().Str("page", "1").Msg("Scroll failed")
	if err := file.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"Scroll failed"`) {
		t.Errorf("log file = %s", data)
	}
	if !strings.Contains(stderr.String(), "Scroll failed") {
		t.Errorf("stderr = %s", stderr.String())
	}
}

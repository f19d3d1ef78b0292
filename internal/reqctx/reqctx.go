// Package reqctx tags a command invocation with a run identifier that
// follows it through logs and returned errors.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type key int

const runKey key = 0

type RunContext struct {
	RunID     string
	Command   string
	StartTime time.Time
}

func WithRunContext(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     generateID(),
		Command:   command,
		StartTime: time.Now(),
	})
}

func GetRunContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns base annotated with the run id and command
func Logger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	rc := GetRunContext(ctx)
	c := base.With().Str("run", rc.RunID)
	if rc.Command != "" {
		c = c.Str("command", rc.Command)
	}
	return c.Logger()
}

// Elapsed is the time since the run started
func Elapsed(ctx context.Context) time.Duration {
	return time.Since(GetRunContext(ctx).StartTime)
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RunError wraps an error with the run that produced it
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[%s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError creates a new RunError from context
func NewRunError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	rc := GetRunContext(ctx)
	return &RunError{
		RunID: rc.RunID,
		Err:   err,
	}
}

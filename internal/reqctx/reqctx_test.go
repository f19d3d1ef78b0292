package reqctx

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRunContext(t *testing.T) {
	ctx := WithRunContext(context.Background(), "recruiter")
	rc := GetRunContext(ctx)
	if len(rc.RunID) != 16 || rc.Command != "recruiter" {
		t.Errorf("run context = %+v", rc)
	}

	if got := GetRunContext(context.Background()).RunID; got != "unknown" {
		t.Errorf("bare context run id = %q", got)
	}

	var buf bytes.Buffer
	logger := Logger(ctx, zerolog.New(&buf))
	logger.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"run":"`+rc.RunID+`"`) || !strings.Contains(buf.String(), `"command":"recruiter"`) {
		t.Errorf("log line = %s", buf.String())
	}
}

func TestRunError(t *testing.T) {
	ctx := WithRunContext(context.Background(), "visit")
	base := errors.New("navigation failed")

	err := NewRunError(ctx, base)
	if !errors.Is(err, base) {
		t.Error("RunError should unwrap to the cause")
	}
	if !strings.HasPrefix(err.Error(), "["+GetRunContext(ctx).RunID+"]") {
		t.Errorf("Error() = %q", err.Error())
	}
	if NewRunError(ctx, nil) != nil {
		t.Error("nil error should stay nil")
	}
}

// internal/cli/prompt.go
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/law-makers/leadcrawl/internal/ui"
)

var stdin io.Reader = os.Stdin

// waitForEnter prints msg and blocks until the operator presses Enter or
// ctx is cancelled
func waitForEnter(ctx context.Context, msg string) error {
	fmt.Fprintf(os.Stderr, "\n%s ", ui.Info(msg))

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(stdin).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// enterPrompt adapts waitForEnter to the sign in challenge hook
func enterPrompt(ctx context.Context) func(string) error {
	return func(msg string) error {
		return waitForEnter(ctx, msg)
	}
}

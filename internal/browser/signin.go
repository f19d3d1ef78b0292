// internal/browser/signin.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/leadcrawl/internal/auth"
	"github.com/law-makers/leadcrawl/internal/linkedin"
	"github.com/rs/zerolog"
)

var (
	ErrSignIn          = errors.New("sign in failed")
	ErrBrowserNotFound = errors.New("no Chrome or Chromium executable found")
)

// FormPage is the part of a browser tab the sign in flow drives
type FormPage interface {
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	CurrentURL(ctx context.Context) (string, error)
}

// SignInOptions tunes the sign in flow
type SignInOptions struct {
	// LoginURL defaults to linkedin.LoginURL
	LoginURL string
	// Prompt blocks until the operator has solved a verification
	// challenge in the visible browser. Nil fails on a challenge.
	Prompt func(msg string) error
	// SettleDelay is the unit of the pauses around form submission
	SettleDelay time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
	Logger      zerolog.Logger
}

func (o *SignInOptions) defaults() {
	if o.LoginURL == "" {
		o.LoginURL = linkedin.LoginURL
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = time.Second
	}
	if o.Sleep == nil {
		o.Sleep = sleep
	}
}

// SignIn fills the login form with creds and submits it. When LinkedIn
// answers with a checkpoint challenge, the flow waits on Prompt.
func SignIn(ctx context.Context, page FormPage, creds auth.Credentials, opts SignInOptions) error {
	opts.defaults()
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrSignIn, err)
	}

	logger := opts.Logger.With().Str("account", creds.String()).Logger()
	logger.Info().Msg("Signing in")

	if err := page.Navigate(ctx, opts.LoginURL); err != nil {
		return fmt.Errorf("%w: open login page: %w", ErrSignIn, err)
	}
	if err := opts.Sleep(ctx, 2*opts.SettleDelay); err != nil {
		return err
	}
	if err := page.Fill(ctx, linkedin.UsernameSelector, creds.Email); err != nil {
		return fmt.Errorf("%w: fill username: %w", ErrSignIn, err)
	}
	if err := page.Fill(ctx, linkedin.PasswordSelector, creds.Password); err != nil {
		return fmt.Errorf("%w: fill password: %w", ErrSignIn, err)
	}
	if err := opts.Sleep(ctx, opts.SettleDelay); err != nil {
		return err
	}
	if err := page.Click(ctx, linkedin.SubmitSelector); err != nil {
		return fmt.Errorf("%w: submit: %w", ErrSignIn, err)
	}
	if err := opts.Sleep(ctx, 5*opts.SettleDelay); err != nil {
		return err
	}

	current, err := page.CurrentURL(ctx)
	if err != nil {
		return fmt.Errorf("%w: read location: %w", ErrSignIn, err)
	}
	if strings.Contains(current, linkedin.ChallengeMarker) {
		logger.Warn().Str("url", current).Msg("Verification challenge")
		if opts.Prompt == nil {
			return fmt.Errorf("%w: verification challenge at %s", ErrSignIn, current)
		}
		if err := opts.Prompt("Solve the verification in the browser, then press Enter"); err != nil {
			return fmt.Errorf("%w: %w", ErrSignIn, err)
		}
	}

	logger.Info().Msg("Signed in")
	return nil
}

// SelectContract picks the first Recruiter contract offered after sign in
func SelectContract(ctx context.Context, page FormPage, opts SignInOptions) error {
	opts.defaults()
	if err := page.Click(ctx, linkedin.ContractSelector); err != nil {
		return fmt.Errorf("select contract: %w", err)
	}
	return opts.Sleep(ctx, 4*opts.SettleDelay)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// internal/cli/signin.go
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/leadcrawl/internal/app"
	"github.com/law-makers/leadcrawl/internal/auth"
	"github.com/law-makers/leadcrawl/internal/browser"
	"github.com/law-makers/leadcrawl/internal/linkedin"
)

// authenticate signs session in, either by restoring the cookies of the
// configured saved session or by filling the login form with the
// configured credentials
func authenticate(ctx context.Context, a *app.Application, session *browser.Session) error {
	cfg := a.Config
	logger := *a.Logger

	if cfg.Session != "" {
		saved, err := a.Sessions.Load(cfg.Session)
		if err != nil {
			return fmt.Errorf("failed to load session '%s': %w", cfg.Session, err)
		}
		if err := session.SetCookies(ctx, saved.CookieParams()); err != nil {
			return fmt.Errorf("failed to restore session cookies: %w", err)
		}
		logger.Info().
			Str("session", saved.Name).
			Int("cookies", len(saved.Cookies)).
			Msg("Session restored")
		return nil
	}

	creds, err := auth.ResolveCredentials(cfg.CredentialsPath, cfg.Account)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}
	return browser.SignIn(ctx, session, creds, browser.SignInOptions{
		LoginURL: linkedin.LoginURL,
		Prompt:   enterPrompt(ctx),
		Logger:   logger,
	})
}

// saveSession stores the cookies of a signed in browser under name
func saveSession(ctx context.Context, a *app.Application, session *browser.Session, name, account string) (*auth.SessionData, error) {
	cookies, err := session.Cookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	current, err := session.CurrentURL(ctx)
	if err != nil {
		current = linkedin.LoginURL
	}

	data := auth.NewSession(name, current, auth.CookiesFromNetwork(cookies), time.Now())
	data.Account = account
	if err := a.Sessions.Save(data); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return data, nil
}

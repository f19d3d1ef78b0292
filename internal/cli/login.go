// internal/cli/login.go
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/leadcrawl/internal/auth"
	"github.com/law-makers/leadcrawl/internal/browser"
	"github.com/law-makers/leadcrawl/internal/linkedin"
	"github.com/law-makers/leadcrawl/internal/reqctx"
	"github.com/law-makers/leadcrawl/internal/ui"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to LinkedIn and save the session",
	Long: `Opens Chrome, signs in with the credentials file (or the keyring account)
and saves the browser cookies as a named session. Verification challenges
are solved by hand in the browser window.

Later runs can pass --session to skip the sign in form entirely.`,
	Example: `  # Sign in and save the cookies as "work"
  $ leadcrawl login --session work

  # Remember the credentials in the OS keyring for later runs
  $ leadcrawl login --session work --credentials ./lk_credentials.json --remember

  # Use the saved session
  $ leadcrawl salesnav --search-url "..." --session work`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringP("session", "s", "", "Session name to save (required)")
	loginCmd.Flags().String("credentials", "", "JSON file with {\"email\", \"password\"} (default "+auth.DefaultCredentialsPath+")")
	loginCmd.Flags().String("account", "", "Keyring account to read credentials from, or to remember them under")
	loginCmd.Flags().Bool("remember", false, "Store the credentials in the OS keyring")
	loginCmd.MarkFlagRequired("session")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()
	cfg := a.Config
	name, _ := cmd.Flags().GetString("session")
	remember, _ := cmd.Flags().GetBool("remember")

	creds, err := auth.ResolveCredentials(cfg.CredentialsPath, cfg.Account)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", ui.Bold("🔐 LinkedIn sign in"))
	fmt.Fprintln(os.Stderr, ui.Rule)
	fmt.Fprintln(os.Stderr, ui.Field("Session", name))
	fmt.Fprintln(os.Stderr, ui.Field("Account", creds.String()))
	fmt.Fprintln(os.Stderr, ui.Field("Storage", a.Sessions.Backend()))

	session, err := a.EnsureBrowser(ctx)
	if err != nil {
		return reqctx.NewRunError(ctx, err)
	}
	err = browser.SignIn(ctx, session, creds, browser.SignInOptions{
		LoginURL: linkedin.LoginURL,
		Prompt:   enterPrompt(ctx),
		Logger:   *a.Logger,
	})
	if err != nil {
		return reqctx.NewRunError(ctx, err)
	}

	data, err := saveSession(ctx, a, session, name, creds.Email)
	if err != nil {
		return reqctx.NewRunError(ctx, err)
	}

	if remember {
		account := cfg.Account
		if account == "" {
			account = creds.Email
		}
		if err := auth.SaveCredentials(account, creds); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, ui.Field("Remembered", account))
	}

	fmt.Fprintln(os.Stderr, ui.Success("\n✓ Session saved successfully!"))
	fmt.Fprintf(os.Stderr, "\n%s\n", ui.Bold("You can now use this session with:"))
	fmt.Fprintf(os.Stderr, "  %s%s\n", ui.ColorCyan+"leadcrawl salesnav --search-url <url> --session="+ui.ColorReset, ui.ColorWhite+name+ui.ColorReset)
	fmt.Fprintf(os.Stderr, "  %s%s\n\n", ui.ColorCyan+"leadcrawl visit --profile-file <file> --session="+ui.ColorReset, ui.ColorWhite+name+ui.ColorReset)

	if !data.ExpiresAt.IsZero() {
		fmt.Fprintf(os.Stderr, "Session expires: %s\n\n", data.ExpiresAt.Format(time.RFC1123))
	}
	return nil
}

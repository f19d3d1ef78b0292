// internal/cli/sessions.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/leadcrawl/internal/auth"
	"github.com/law-makers/leadcrawl/internal/linkedin"
	"github.com/law-makers/leadcrawl/internal/ui"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved LinkedIn sessions",
	Long: `List, view, import and delete saved LinkedIn sessions.

Sessions are stored in your OS keyring (or ~/.leadcrawl/sessions when no
keyring is available) and hold the cookies of a signed in browser.`,
	Example: `  # List all saved sessions
  $ leadcrawl sessions list

  # View details of a specific session
  $ leadcrawl sessions view work

  # Import cookies exported from your own browser
  $ leadcrawl sessions import work --file cookies.json

  # Delete a session
  $ leadcrawl sessions delete old`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsViewCmd = &cobra.Command{
	Use:   "view <session-name>",
	Short: "View details of a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsView,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-name>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsImportCmd = &cobra.Command{
	Use:   "import <session-name>",
	Short: "Create a session from cookies exported by your browser",
	Long: `Creates a session from cookies exported by a browser extension (JSON) or
in the Netscape cookies.txt format, for machines where the sign in form
cannot be used. The li_at cookie is the one LinkedIn needs.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsImport,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsViewCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsImportCmd)

	sessionsDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	sessionsImportCmd.Flags().String("file", "-", "Cookie file to read, - for stdin")
	sessionsImportCmd.Flags().String("format", "json", "Import format: json or netscape")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	sessions, err := a.Sessions.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("\nNo saved sessions found.")
		fmt.Println("\nCreate a session with:")
		fmt.Println("  leadcrawl login --session=<name>")
		fmt.Println()
		return nil
	}

	fmt.Printf("\n📋 Saved Sessions (%d)\n", len(sessions))
	fmt.Println(ui.Rule)
	fmt.Println()

	for i, name := range sessions {
		fmt.Printf("%d. %s\n", i+1, name)

		session, err := a.Sessions.Load(name)
		if err != nil {
			fmt.Printf("   ⚠️  %v\n", err)
			continue
		}

		if session.Account != "" {
			fmt.Printf("   Account: %s\n", session.Account)
		}
		fmt.Printf("   Cookies: %d\n", len(session.Cookies))
		fmt.Printf("   Created: %s\n", session.CreatedAt.Format(time.RFC1123))
		if !session.ExpiresAt.IsZero() {
			fmt.Printf("   Expires: %s (in %s)\n",
				session.ExpiresAt.Format(time.RFC1123),
				time.Until(session.ExpiresAt).Round(time.Hour))
		}

		if i < len(sessions)-1 {
			fmt.Println()
		}
	}

	fmt.Println()
	return nil
}

func runSessionsView(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	name := args[0]

	session, err := a.Sessions.Load(name)
	if err != nil {
		return fmt.Errorf("failed to load session '%s': %w", name, err)
	}

	fmt.Printf("\n🔍 Session Details: %s\n", name)
	fmt.Println(ui.Rule)
	fmt.Println()

	fmt.Printf("Name:     %s\n", session.Name)
	fmt.Printf("Account:  %s\n", session.Account)
	fmt.Printf("URL:      %s\n", session.URL)
	fmt.Printf("Created:  %s\n", session.CreatedAt.Format(time.RFC1123))
	if !session.ExpiresAt.IsZero() {
		fmt.Printf("Expires:  %s\n", session.ExpiresAt.Format(time.RFC1123))
	}

	fmt.Printf("\nCookies (%d):\n", len(session.Cookies))
	for i, cookie := range session.Cookies {
		if i >= 5 {
			fmt.Printf("  ... and %d more\n", len(session.Cookies)-5)
			break
		}
		fmt.Printf("  • %s (domain: %s)\n", cookie.Name, cookie.Domain)
	}

	fmt.Println()
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	name := args[0]

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		fmt.Printf("\n⚠️  Delete session '%s'? [y/N]: ", name)
		answer, _ := bufio.NewReader(stdin).ReadString('\n')
		answer = strings.TrimSpace(answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := a.Sessions.Delete(name); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Printf("\n✓ Session '%s' deleted successfully.\n\n", name)
	return nil
}

func runSessionsImport(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	name := args[0]
	path, _ := cmd.Flags().GetString("file")
	format, _ := cmd.Flags().GetString("format")

	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open cookie file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var (
		cookies []auth.Cookie
		err     error
	)
	switch format {
	case "json":
		cookies, err = auth.ParseCookiesJSON(r)
	case "netscape":
		cookies, err = auth.ParseCookiesNetscape(r)
	default:
		return fmt.Errorf("unsupported format: %s (use: json, netscape)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to import cookies: %w", err)
	}

	var linkedinCookies []auth.Cookie
	for _, c := range cookies {
		if strings.HasSuffix(strings.TrimPrefix(c.Domain, "."), "linkedin.com") {
			linkedinCookies = append(linkedinCookies, c)
		}
	}
	if len(linkedinCookies) == 0 {
		return fmt.Errorf("no linkedin.com cookies found")
	}

	session := auth.NewSession(name, linkedin.LoginURL, linkedinCookies, time.Now())
	if err := a.Sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("\n✅ Session '%s' created successfully!\n", name)
	fmt.Printf("   Cookies: %d\n", len(linkedinCookies))
	if !session.ExpiresAt.IsZero() {
		fmt.Printf("   Expires: %s\n", session.ExpiresAt.Format(time.RFC1123))
	}
	fmt.Printf("\nUse with:\n")
	fmt.Printf("  leadcrawl recruiter --search-url <url> --session=%s\n\n", name)
	return nil
}

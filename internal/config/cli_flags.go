package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format only")
	cmd.PersistentFlags().String("proxy", "", "Set HTTP/SOCKS5 proxy for the browser (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", DefaultNavigationTimeout.String(), "Set hard timeout for each browser action")
	cmd.PersistentFlags().String("user-agent", "", "Custom browser user agent string")
	cmd.PersistentFlags().Bool("headless", DefaultBrowserHeadless, "Run Chrome without a window (verification challenges cannot be solved)")
	cmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this size-rotated file")
}

// RegisterScrapeFlags registers the flags shared by the search export commands
func RegisterScrapeFlags(cmd *cobra.Command, backupDir string) {
	f := cmd.Flags()
	f.String("search-url", "", "Search results URL copied from the browser (required)")
	f.String("credentials", "", "JSON file with {\"email\", \"password\"} (default "+DefaultCredentialsPath+")")
	f.String("account", "", "Keyring account to use when no credentials file exists")
	f.String("session", "", "Restore cookies from a saved session instead of signing in")
	f.String("out-dir", DefaultOutDir, "Directory for the final export")
	f.String("backup-dir", backupDir, "Directory for per-page snapshots")
	f.Bool("no-backup", false, "Do not write per-page snapshots")
	f.String("save-format", DefaultSaveFormat, "Export format: csv, xlsx or json")
	f.Duration("wait-between-pages", DefaultWaitBetweenPages, "Pause before each page")
	f.Duration("wait-after-load", DefaultWaitAfterLoad, "Pause after a page loads")
	f.Duration("wait-after-scroll", DefaultWaitAfterScroll, "Pause after scrolling a page")
	f.Duration("ready-timeout", DefaultReadyTimeout, "Poll for results up to this long before extracting (0 disables)")
	f.Float64("max-pages-per-minute", DefaultPagesPerMinute, "Upper bound on page loads per minute")
	f.String("rules", "", "JSON rules file replacing the built-in extraction rules")
	f.Bool("no-pause", false, "Do not wait for Enter before the first page")
	f.Int("preview", 0, "Print the first N records as a table when done")
}

// RegisterVisitFlags registers the flags of the visit command
func RegisterVisitFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("profile-file", "", "CSV or XLSX export listing the profiles to visit (required)")
	f.String("column", "linkedin_url", "Column holding the profile URLs")
	f.String("credentials", "", "JSON file with {\"email\", \"password\"} (default "+DefaultCredentialsPath+")")
	f.String("account", "", "Keyring account to use when no credentials file exists")
	f.String("session", "", "Restore cookies from a saved session instead of signing in")
	f.Duration("min-wait", DefaultVisitMinWait, "Shortest pause between actions")
	f.Duration("max-wait", DefaultVisitMaxWait, "Longest pause between actions")
	f.Duration("page-load", DefaultVisitPageLoad, "Pause after a profile loads")
}

// internal/cli/search.go
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/leadcrawl/internal/app"
	"github.com/law-makers/leadcrawl/internal/browser"
	"github.com/law-makers/leadcrawl/internal/config"
	"github.com/law-makers/leadcrawl/internal/extract"
	"github.com/law-makers/leadcrawl/internal/linkedin"
	"github.com/law-makers/leadcrawl/internal/paginate"
	"github.com/law-makers/leadcrawl/internal/reqctx"
	"github.com/law-makers/leadcrawl/internal/sink"
	"github.com/law-makers/leadcrawl/internal/ui"
	"github.com/law-makers/leadcrawl/internal/utils/output"
	urlutil "github.com/law-makers/leadcrawl/internal/utils/url"
)

var recruiterCmd = &cobra.Command{
	Use:   "recruiter",
	Short: "Export the results of a LinkedIn Recruiter search",
	Long: `Signs in, opens the Recruiter search and walks its result pages one after
the other. Each page is scrolled to load every result, extracted, and backed
up before the next page is requested.

Pages hold 25 results; page N starts at result offset (N-1)*25.`,
	Example: `  # Export the first three pages
  $ leadcrawl recruiter --search-url "https://www.linkedin.com/talent/search?searchContextId=..." --start 1 --end 3

  # Export to Excel with a saved session and no zoom pause
  $ leadcrawl recruiter --search-url "..." --end 10 --session work --save-format xlsx --no-pause`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearchExport(cmd, linkedin.Recruiter, "start", "end")
	},
}

var salesNavCmd = &cobra.Command{
	Use:     "salesnav",
	Aliases: []string{"sales-navigator"},
	Short:   "Export the results of a LinkedIn Sales Navigator lead search",
	Long: `Signs in, opens the Sales Navigator lead search and walks its result pages
one after the other. Each page is scrolled to load every lead, extracted, and
backed up before the next page is requested.

Every record carries the public profile URL derived from the lead link.`,
	Example: `  # Export pages 2 to 5
  $ leadcrawl salesnav --search-url "https://www.linkedin.com/sales/search/people?query=..." --start-page 2 --end-page 5

  # Preview the first ten leads after the run
  $ leadcrawl salesnav --search-url "..." --preview 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearchExport(cmd, linkedin.SalesNavigator, "start-page", "end-page")
	},
}

func init() {
	rootCmd.AddCommand(recruiterCmd)
	config.RegisterScrapeFlags(recruiterCmd, config.DefaultRecruiterBackupDir)
	recruiterCmd.Flags().Int("start", 1, "First page to export")
	recruiterCmd.Flags().Int("end", 1, "Last page to export")
	recruiterCmd.MarkFlagRequired("search-url")

	rootCmd.AddCommand(salesNavCmd)
	config.RegisterScrapeFlags(salesNavCmd, config.DefaultSalesNavBackupDir)
	salesNavCmd.Flags().Int("start-page", 1, "First page to export")
	salesNavCmd.Flags().Int("end-page", 1, "Last page to export")
	salesNavCmd.MarkFlagRequired("search-url")
}

// pageExtractor returns the built-in extractor of variant, or the one
// described by a rules file
func pageExtractor(cmd *cobra.Command, a *app.Application, variant linkedin.Variant) (*extract.PageExtractor, error) {
	rulesPath, _ := cmd.Flags().GetString("rules")
	if rulesPath == "" {
		return extract.NewPageExtractor(variant.Locator(), variant.Rules(time.Now), *a.Logger), nil
	}
	rf, err := extract.LoadRulesFile(rulesPath)
	if err != nil {
		return nil, err
	}
	a.Logger.Info().Str("rules", rulesPath).Int("fields", rf.Ruleset().Len()).Msg("Using rules file")
	return rf.PageExtractor(*a.Logger), nil
}

func runSearchExport(cmd *cobra.Command, variant linkedin.Variant, startFlag, endFlag string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()
	cfg := a.Config
	logger := a.Logger.With().Stringer("variant", variant).Logger()

	searchURL, _ := cmd.Flags().GetString("search-url")
	if err := urlutil.ValidateURL(searchURL); err != nil {
		return fmt.Errorf("invalid --search-url: %w", err)
	}
	start, _ := cmd.Flags().GetInt(startFlag)
	end, _ := cmd.Flags().GetInt(endFlag)
	pages := variant.Pages(start, end)
	if len(pages) == 0 {
		return fmt.Errorf("--%s (%d) must not exceed --%s (%d)", startFlag, start, endFlag, end)
	}
	format, err := output.ParseFormat(cfg.SaveFormat)
	if err != nil {
		return err
	}
	base, err := variant.BaseURL(searchURL)
	if err != nil {
		return fmt.Errorf("invalid --search-url: %w", err)
	}
	extractor, err := pageExtractor(cmd, a, variant)
	if err != nil {
		return err
	}

	backupDir := cfg.BackupDir
	if cfg.NoBackup {
		backupDir = ""
	}
	for _, dir := range []string{backupDir, cfg.OutDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	acc := sink.New(sink.Options{
		Columns:        extractor.Columns(),
		Defaults:       extractor.Ruleset().Defaults(),
		Dir:            backupDir,
		ExportDir:      cfg.OutDir,
		Prefix:         variant.Prefix(),
		ExportPrefix:   variant.ExportPrefix(),
		SnapshotFormat: format,
		Logger:         logger,
	})

	fmt.Fprintf(os.Stderr, "\n%s\n", ui.Bold("🔎 "+variant.String()+" export"))
	fmt.Fprintln(os.Stderr, ui.Rule)
	fmt.Fprintln(os.Stderr, ui.Field("Pages", fmt.Sprintf("%d to %d", pages[0], pages[len(pages)-1])))
	fmt.Fprintln(os.Stderr, ui.Field("Format", format.String()))
	if cfg.PagesPerMinute > 0 {
		fmt.Fprintln(os.Stderr, ui.Field("Page budget", fmt.Sprintf("%g per minute", a.RateLimiter.PagesPerMinute())))
	}
	if backupDir != "" {
		fmt.Fprintln(os.Stderr, ui.Field("Backups", backupDir))
	}

	session, err := a.EnsureBrowser(ctx)
	if err != nil {
		return reqctx.NewRunError(ctx, err)
	}
	if err := prepareSearch(ctx, a, session, variant, searchURL); err != nil {
		return reqctx.NewRunError(ctx, err)
	}

	bar := progressbar.NewOptions(len(pages),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)

	opts := paginate.Options{
		Waits: paginate.Waits{
			BetweenPages: cfg.WaitBetweenPages,
			AfterLoad:    cfg.WaitAfterLoad,
			AfterScroll:  cfg.WaitAfterScroll,
		},
		URL: func(p int) (string, error) {
			return variant.PageURL(base, p)
		},
		Scroll: variant.ScrollScript(),
		OnPage: func(pr paginate.PageResult) {
			bar.Describe(fmt.Sprintf("page %d, %d records", pr.Page, pr.Total))
			bar.Add(1)
		},
		Logger: logger,
	}
	if cfg.PagesPerMinute > 0 {
		opts.Limiter = a.RateLimiter
	}
	if cfg.ReadyTimeout > 0 {
		opts.Ready = &paginate.Readiness{
			Selector: extractor.Locator().Selector,
			Timeout:  cfg.ReadyTimeout,
		}
	}

	res, runErr := paginate.New(session, extractor, acc, opts).Run(ctx, pages)
	bar.Finish()

	fmt.Fprintln(os.Stderr, ui.Field("Pages done", fmt.Sprintf("%d/%d", res.Pages, len(pages))))
	fmt.Fprintln(os.Stderr, ui.Field("Records", fmt.Sprint(acc.Len())))
	if n := len(res.Snapshots); n > 0 {
		fmt.Fprintln(os.Stderr, ui.Field("Latest backup", res.Snapshots[n-1]))
	}

	if runErr != nil {
		return reqctx.NewRunError(ctx, runErr)
	}

	path, err := acc.Finalize(format)
	if err != nil {
		return reqctx.NewRunError(ctx, err)
	}
	fmt.Fprintln(os.Stderr, ui.Success("\n✓ Saved "+path))

	if n, _ := cmd.Flags().GetInt("preview"); n > 0 {
		renderPreview(os.Stdout, extractor.Columns(), acc.Records(), extractor.Ruleset().Defaults(), n)
	}

	logger.Info().
		Int("pages", res.Pages).
		Int("records", res.Records).
		Dur("elapsed", reqctx.Elapsed(ctx)).
		Msg("Export complete")
	return nil
}

// prepareSearch signs in, picks the Recruiter contract and opens the search
// so the operator can adjust the page before the first export
func prepareSearch(ctx context.Context, a *app.Application, session *browser.Session, variant linkedin.Variant, searchURL string) error {
	if err := authenticate(ctx, a, session); err != nil {
		return err
	}

	if variant == linkedin.Recruiter {
		if err := browser.SelectContract(ctx, session, browser.SignInOptions{Logger: *a.Logger}); err != nil {
			a.Logger.Warn().Err(err).Msg("No contract chooser, continuing")
		}
	}

	if err := session.Navigate(ctx, searchURL); err != nil {
		return fmt.Errorf("%w: %w", paginate.ErrNavigate, err)
	}

	if !a.Config.NoPause {
		return waitForEnter(ctx, "Zoom out until every result is visible, then press Enter")
	}
	return nil
}

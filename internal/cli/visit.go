// internal/cli/visit.go
package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/leadcrawl/internal/config"
	"github.com/law-makers/leadcrawl/internal/input"
	"github.com/law-makers/leadcrawl/internal/linkedin"
	"github.com/law-makers/leadcrawl/internal/reqctx"
	"github.com/law-makers/leadcrawl/internal/ui"
	"github.com/law-makers/leadcrawl/internal/visitor"
)

var visitCmd = &cobra.Command{
	Use:   "visit",
	Short: "Visit every profile listed in an export",
	Long: `Signs in and opens each profile URL of a CSV or XLSX export in turn,
waiting, moving the mouse, opening the activity section and scrolling with
random pauses between actions. The visited members see the view in their
"who viewed your profile" list.`,
	Example: `  # Visit the leads of a Sales Navigator export
  $ leadcrawl visit --profile-file 1700000000000_lk_salesnav_export.csv

  # Slower pacing, profile URLs in a custom column
  $ leadcrawl visit --profile-file leads.xlsx --column profile --min-wait 8s --max-wait 15s`,
	Args: cobra.NoArgs,
	RunE: runVisit,
}

func init() {
	rootCmd.AddCommand(visitCmd)
	config.RegisterVisitFlags(visitCmd)
	visitCmd.MarkFlagRequired("profile-file")
}

func runVisit(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	ctx := cmd.Context()
	cfg := a.Config

	path, _ := cmd.Flags().GetString("profile-file")
	column, _ := cmd.Flags().GetString("column")
	urls, err := input.ReadURLs(path, column)
	if err != nil {
		return err
	}

	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		abs, err := linkedin.AbsoluteURL(u)
		if err != nil {
			a.Logger.Warn().Str("url", u).Err(err).Msg("Skipping invalid profile URL")
			continue
		}
		valid = append(valid, abs)
	}
	if len(valid) == 0 {
		return fmt.Errorf("no profile URLs in column %q of %s", column, path)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", ui.Bold("👀 Profile visits"))
	fmt.Fprintln(os.Stderr, ui.Rule)
	fmt.Fprintln(os.Stderr, ui.Field("Profiles", fmt.Sprint(len(valid))))
	fmt.Fprintln(os.Stderr, ui.Field("Pauses", fmt.Sprintf("%s to %s", cfg.VisitMinWait, cfg.VisitMaxWait)))

	session, err := a.EnsureBrowser(ctx)
	if err != nil {
		return reqctx.NewRunError(ctx, err)
	}
	if err := authenticate(ctx, a, session); err != nil {
		return reqctx.NewRunError(ctx, err)
	}

	bar := progressbar.NewOptions(len(valid),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("profiles"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	v := visitor.New(session, *a.Logger)
	v.PageLoad = cfg.VisitPageLoad
	v.Jitter = visitor.Jitter{Min: cfg.VisitMinWait, Max: cfg.VisitMaxWait}

	n, err := v.Visit(ctx, valid, func(int, string) {
		bar.Add(1)
	})
	bar.Finish()
	fmt.Fprintln(os.Stderr, ui.Field("Visited", fmt.Sprintf("%d/%d", n, len(valid))))
	if err != nil {
		return reqctx.NewRunError(ctx, err)
	}

	fmt.Fprintln(os.Stderr, ui.Success("\n✓ All profiles visited"))
	return nil
}

// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/leadcrawl/internal/app"
	"github.com/law-makers/leadcrawl/internal/config"
	"github.com/law-makers/leadcrawl/internal/reqctx"
	"github.com/law-makers/leadcrawl/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leadcrawl",
	Short: "Export LinkedIn Recruiter and Sales Navigator search results",
	Long: `Leadcrawl drives a signed-in Chrome window through the pages of a LinkedIn
Recruiter or Sales Navigator search, extracts one record per result and
writes them to CSV, XLSX or JSON.

Every page is backed up as soon as it is extracted, so an interrupted run
keeps what it already collected.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// activeApp is the Application of the running command, closed by Execute
var activeApp *app.Application

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Cancelling ctx stops a run between browser actions.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)

	if activeApp != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = activeApp.Close(closeCtx)
		cancel()
		activeApp = nil
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, ui.Warn("Interrupted. Snapshots written so far are kept."))
			return 130
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("Error:"), err)
		return 1
	}
	return 0
}

func init() {
	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		appCtx, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		activeApp = appCtx

		cmd.SetContext(reqctx.WithRunContext(ctx, cmd.Name()))
		// Store app in the current command's context for commands to access
		SetApp(cmd, appCtx)

		logger := reqctx.Logger(cmd.Context(), log.Logger)
		appCtx.Logger = &logger
		logger.Debug().Str("user_agent", cfg.UserAgent).Msg("Configuration loaded")
		return nil
	}

	// Register centralized flags
	config.RegisterFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for leadcrawl")
	rootCmd.Flags().Bool("version", false, "Version for leadcrawl")

	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Set custom help function
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)
}

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Blimmp/miro-svg-dl/pkg/auth"
	"github.com/Blimmp/miro-svg-dl/pkg/config"
	"github.com/Blimmp/miro-svg-dl/pkg/fetcher"
	"github.com/Blimmp/miro-svg-dl/pkg/logger"
	"github.com/Blimmp/miro-svg-dl/pkg/miro"
	"github.com/Blimmp/miro-svg-dl/pkg/ui"
)

var (
	// Fetch command flags
	outputDir      string
	accessToken    string
	accountName    string
	includeDocs    bool
	rateLimit      float64
	maxRetries     int
	timeoutSeconds int
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <board-id>",
	Short: "Download all SVG assets from a Miro board",
	Long: `Download every SVG asset reachable from a Miro board.

This command requires a valid Miro access token configured through:
  - Stored tokens (use 'mirosvg auth login' to store)
  - The MIRO_ACCESS_TOKEN environment variable
  - Configuration file

The board argument accepts either a bare board ID or a full board URL.
All item types that can carry media are scanned; use --include-docs to
also probe document items, which rarely yield SVG content.`,
	Example: `  # Download using default settings
  mirosvg fetch uXjVKKNherE=

  # A full board URL works too
  mirosvg fetch https://miro.com/app/board/uXjVKKNherE=/

  # Download to a specific directory with a slower rate limit
  mirosvg fetch uXjVKKNherE= --out ./assets --rate-limit 2

  # Use a specific stored token
  mirosvg fetch uXjVKKNherE= --account work`,
	Args: cobra.ExactArgs(1),
	Run:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory for downloads (default: ./svgs)")
	fetchCmd.Flags().StringVar(&accessToken, "token", "", "Miro access token (overrides stored tokens)")
	fetchCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored token")
	fetchCmd.Flags().BoolVar(&includeDocs, "include-docs", false, "also probe document items")
	fetchCmd.Flags().Float64Var(&rateLimit, "rate-limit", 4, "requests per second")
	fetchCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "maximum retry attempts per request")
	fetchCmd.Flags().IntVar(&timeoutSeconds, "timeout", 20, "request timeout in seconds")
}

func runFetch(cmd *cobra.Command, args []string) {
	boardID := miro.SanitizeBoardID(strings.TrimSpace(args[0]))
	if !miro.IsValidBoardID(boardID) {
		ui.PrintError("Invalid board ID", args[0])
		os.Exit(1)
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if accessToken != "" {
		flags["token"] = accessToken
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if rateLimit != 4 {
		flags["rate-limit"] = rateLimit
	}
	if maxRetries != 3 {
		flags["max-retries"] = maxRetries
	}
	if timeoutSeconds != 20 {
		flags["timeout"] = time.Duration(timeoutSeconds) * time.Second
	}
	if includeDocs {
		flags["include-docs"] = true
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("mirosvg starting")

	// Fill in the token from stored tokens when nothing explicit was given
	if cfg.Miro.Token == "" || accountName != "" {
		manager, err := auth.NewManager()
		if err != nil {
			ui.PrintError("Failed to initialize token manager", err.Error())
			os.Exit(1)
		}

		var token *auth.Token
		if accountName != "" {
			token, err = manager.Retrieve(accountName)
			if err != nil {
				ui.PrintError("Token not found", accountName)
				ui.PrintInfo("Stored tokens", "Use 'mirosvg auth list' to see stored tokens")
				os.Exit(1)
			}
		} else {
			token, err = manager.RetrieveDefault()
			if err != nil {
				logger.Error("No access token found")
				ui.PrintError("No Miro access token found", "")
				fmt.Println("\nTo store a token securely, run:")
				fmt.Println("  mirosvg auth login")
				fmt.Println("\nOr set an environment variable:")
				fmt.Println("  export MIRO_ACCESS_TOKEN=your_token")
				os.Exit(1)
			}
		}

		cfg.Miro.Token = token.AccessToken
		logger.WithField("account", token.Name).Info("Using stored token")
		ui.PrintInfo("Using token", token.Name)
	}

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Invalid configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Board", boardID)
	ui.PrintInfo("Output", cfg.Output.Directory)

	f, err := fetcher.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize fetcher", err.Error())
		os.Exit(1)
	}

	stats, err := f.Run(boardID)
	if err != nil {
		logger.WithError(err).WithField("board_id", boardID).Error("Fetch failed")
		ui.PrintError("FETCH FAILED", err.Error())
		os.Exit(1)
	}

	logger.WithField("board_id", boardID).Info("Fetch completed")
	printSummary(stats)
}

func printSummary(stats *fetcher.Stats) {
	ui.PrintSuccess(fmt.Sprintf("Saved %d SVG file(s)", stats.Saved))
	ui.PrintInfo("Items scanned", fmt.Sprintf("%d", stats.Scanned))
	ui.PrintInfo("Candidates probed", fmt.Sprintf("%d", stats.Candidates))
	ui.PrintInfo("Original names", fmt.Sprintf("%d", stats.OriginalNames))
	ui.PrintInfo("Generated names", fmt.Sprintf("%d", stats.GeneratedNames))
	if stats.Misses > 0 {
		ui.PrintInfo("Items without SVG", fmt.Sprintf("%d", stats.Misses))
	}
	if stats.WriteFailures > 0 {
		ui.PrintWarning("Write failures", stats.WriteFailures)
	}
	if len(stats.SkippedTypes) > 0 {
		ui.PrintWarning("Skipped item types", strings.Join(stats.SkippedTypes, ", "))
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Blimmp/miro-svg-dl/pkg/auth"
	"github.com/Blimmp/miro-svg-dl/pkg/config"
	"github.com/Blimmp/miro-svg-dl/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage mirosvg configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.mirosvg.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration including values from all sources.

The access token is masked for security.`,
	Run: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".mirosvg.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# mirosvg configuration file
#
# Environment variables override these values:
#   MIRO_ACCESS_TOKEN, MIROSVG_BASE_URL, MIROSVG_REQUESTS_PER_SECOND,
#   MIROSVG_OUTPUT_DIR, MIROSVG_INCLUDE_DOCUMENTS, MIROSVG_LOG_LEVEL

# Miro API access
miro:
  # Access token with the boards:read scope.
  # Prefer 'mirosvg auth login' over putting the token here.
  token: ""

  # API base URL, only needs changing for testing
  base_url: "https://api.miro.com/v2"

# Rate limiting and retries
rate_limit:
  # Requests per second against the Miro API
  requests_per_second: 4

  # Retry attempts for rate limited or failing requests
  max_retries: 3

# Output
output:
  # Where downloaded SVG files land
  directory: "./svgs"

  # Write a manifest.json describing the saved files
  write_manifest: true

# Download behavior
download:
  # Also probe document items (rarely yields SVG content)
  include_documents: false

# Logging
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional, stderr when empty)
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run 'mirosvg auth login' to store your access token")
	fmt.Println("2. Start downloading with 'mirosvg fetch <board-id>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Mask the token for display
	displayCfg := *cfg
	if displayCfg.Miro.Token != "" {
		displayCfg.Miro.Token = auth.MaskToken(displayCfg.Miro.Token)
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (MIRO_*, MIROSVG_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (auto-detected)")
	}
	fmt.Println("4. Default values")
}

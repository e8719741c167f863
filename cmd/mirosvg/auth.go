package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Blimmp/miro-svg-dl/pkg/auth"
	"github.com/Blimmp/miro-svg-dl/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Miro access tokens",
	Long: `Manage stored Miro access tokens securely.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - The MIRO_ACCESS_TOKEN environment variable (read-only)

Never share your tokens or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a Miro access token securely",
	Long: `Store a Miro access token securely in the system keychain or an
encrypted file.

Create a token in the Miro developer settings, under "Your apps".
The token needs the boards:read scope.`,
	Example: `  # Interactive login
  mirosvg auth login

  # Store under a name
  mirosvg auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a stored token",
	Long: `Remove a stored Miro access token.

If no name is provided, you will be shown a list of stored tokens to
choose from.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored tokens",
	Long:  `List all stored Miro access tokens with their values masked.`,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if name == "" {
		fmt.Print("Token name (e.g. work, personal): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read token name", err.Error())
			os.Exit(1)
		}
		name = strings.TrimSpace(input)
	}

	if name == "" {
		ui.PrintError("Token name is required", "")
		os.Exit(1)
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("Token '%s' already exists. Update it? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("Access token (hidden as you type): ")
	accessToken, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read access token", err.Error())
		os.Exit(1)
	}

	if accessToken == "" {
		ui.PrintError("Access token is required", "")
		os.Exit(1)
	}

	token := &auth.Token{
		Name:         name,
		AccessToken:  accessToken,
		LastModified: time.Now(),
	}

	if err := manager.Store(token); err != nil {
		ui.PrintError("Failed to store token", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Token saved: " + name)
	fmt.Println("\nDownload SVGs from any board you can read:")
	fmt.Printf("  $ mirosvg fetch <board-id> --account %s\n", name)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	if len(args) > 0 {
		name := args[0]
		if err := manager.Delete(name); err != nil {
			ui.PrintError("Failed to remove token", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Token removed: " + name)
		return
	}

	tokens, err := manager.List()
	if err != nil || len(tokens) == 0 {
		ui.PrintError("No stored tokens found", "")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(tokens) == 1 {
		token := tokens[0]
		fmt.Printf("Remove token '%s'? (y/N): ", token.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}

		if err := manager.Delete(token.Name); err != nil {
			ui.PrintError("Failed to remove token", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Token removed: " + token.Name)
		return
	}

	fmt.Println("Select token to remove:")
	for i, token := range tokens {
		fmt.Printf("  %d. %s\n", i+1, token.Name)
	}
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	if choice < 1 || choice > len(tokens) {
		return
	}

	token := tokens[choice-1]
	if err := manager.Delete(token.Name); err != nil {
		ui.PrintError("Failed to remove token", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Token removed: " + token.Name)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	tokens, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list tokens", err.Error())
		os.Exit(1)
	}

	if len(tokens) == 0 {
		ui.PrintInfo("No stored tokens", "Use 'mirosvg auth login' to add one")
		return
	}

	ui.PrintHighlight("Stored Tokens")
	fmt.Println()

	for i, token := range tokens {
		fmt.Printf("%d. Name: %s\n", i+1, token.Name)
		fmt.Printf("   Token: %s\n", auth.MaskToken(token.AccessToken))
		fmt.Printf("   Last Modified: %s\n", token.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readPassword reads a token from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after input
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

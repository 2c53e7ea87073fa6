package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vkleads/pkg/auth"
	"vkleads/pkg/config"
	"vkleads/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage VK access tokens",
	Long: `Manage stored VK access tokens securely.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (VK_TOKEN, read only)

Never share your token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a VK access token securely",
	Long: `Store a VK access token in the system keychain or encrypted file.

The command prints the authorization link, then asks for the address the
browser lands on. Either the full redirect URL or the bare access_token value
is accepted. The account name defaults to "default".`,
	Example: `  # Interactive login
  vkleads auth login

  # Store under a name
  vkleads auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a stored token",
	Long: `Remove a stored VK access token.

If no name is provided, you will be shown a list of stored accounts to
choose from.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked tokens.`,
	Run:   runList,
}

// urlCmd represents the auth url command
var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the token authorization link",
	Run:   runURL,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
	authCmd.AddCommand(urlCmd)
}

func newManager() *auth.Manager {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}
	return manager
}

func tokenLink() string {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return auth.TokenURL(cfg.VK.OAuthURI, cfg.VK.ClientID, cfg.VK.Scopes, cfg.VK.APIVersion)
}

func runURL(cmd *cobra.Command, args []string) {
	fmt.Println(tokenLink())
}

func runLogin(cmd *cobra.Command, args []string) {
	manager := newManager()

	name := "default"
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowTokenGuide(os.Stdout, tokenLink())

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\n⚠️  Account '%s' already exists. Replace its token? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	var accessToken, userID string
	for {
		fmt.Print("\n🔐 Redirect URL or access token (hidden): ")
		input, err := readSecret(reader)
		if err != nil {
			ui.PrintError("Failed to read token", err.Error())
			os.Exit(1)
		}

		accessToken, userID, err = auth.TokenFromRedirect(input)
		if err == nil {
			break
		}

		fmt.Printf("\n❌ %v\n", err)
		fmt.Print("Try again? (Y/n): ")
		retry, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(retry)) == "n" {
			os.Exit(1)
		}
	}

	account := &auth.Account{
		Name:        name,
		AccessToken: accessToken,
		UserID:      userID,
	}

	fmt.Println("\n📋 Summary:")
	fmt.Printf("   Name: %s\n", name)
	fmt.Printf("   Token: %s (hidden)\n", auth.MaskToken(accessToken))
	if userID != "" {
		fmt.Printf("   User: https://vk.com/id%s\n", userID)
	}

	fmt.Println("\n💾 Storing token securely...")
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Account saved: %s", name))
	fmt.Println("\n📖 Next:")
	fmt.Println("   $ vkleads run --full")
	fmt.Printf("   $ vkleads run --command search --account %s\n", name)
	fmt.Println("\n⚠️  Never share your token or config files!")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager := newManager()

	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil || len(accounts) == 0 {
			ui.PrintError("No stored accounts found")
			return
		}

		reader := bufio.NewReader(os.Stdin)
		if len(accounts) == 1 {
			fmt.Printf("Remove account '%s'? (y/N): ", accounts[0].Name)
			input, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
				return
			}
			name = accounts[0].Name
		} else {
			fmt.Println("Select account to remove:")
			for i, account := range accounts {
				fmt.Printf("  %d. %s\n", i+1, account.Name)
			}
			fmt.Printf("  0. Cancel\n\n")

			fmt.Print("Choice: ")
			input, _ := reader.ReadString('\n')

			var choice int
			fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)
			if choice == 0 {
				return
			}
			if choice < 0 || choice > len(accounts) {
				ui.PrintError("Invalid choice")
				os.Exit(1)
			}
			name = accounts[choice-1].Name
		}
	}

	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove account", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Account removed: " + name)
}

func runList(cmd *cobra.Command, args []string) {
	manager := newManager()

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'vkleads auth login' to add an account")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Printf("   Token: %s\n", sanitized.AccessToken)
		if sanitized.UserID != "" {
			fmt.Printf("   User ID: %s\n", sanitized.UserID)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readSecret reads a line from stdin without echoing when it is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

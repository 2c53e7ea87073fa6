package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vkleads/pkg/auth"
	"vkleads/pkg/config"
	"vkleads/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage VK Leads configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (VK_TOKEN, VKLEADS_*)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'vkleads.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources.

The access token is masked.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Run:   runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

// exampleConfig is written by config init
const exampleConfig = `# VK Leads Configuration File
#
# Environment variables override this file:
# VK_TOKEN, VKLEADS_QUERY, VKLEADS_GROUPS_LIMIT, VKLEADS_REPORTS_DIR, ...

vk:
  # Access token (prefer 'vkleads auth login' or VK_TOKEN)
  token: ""
  api_version: "5.199"
  api_uri: "https://api.vk.com/method"
  # Root of generated profile, post and photo links
  base_uri: "https://vk.com"
  oauth_uri: "https://oauth.vk.com"
  client_id: "5446787"
  scopes: "wall,groups,offline,photos"
  timeout: 30s

rate_limit:
  # Minimum pause between API requests
  interval: 340ms
  # Group search waits this many intervals
  search_multiplier: 2

files:
  reports_dir: "reports"
  groups_search: "groups_search.json"
  groups_search_actual: "groups_search_actual.json"
  wall_posts: "wall_posts.json"
  wall_comments: "wall_comments.json"
  wall_likes: "wall_likes.json"
  photos_comments: "photos_comments.json"
  photos_likes: "photos_likes.json"
  report: "report.txt"
  report_unique_users: "report_unic_users.txt"

pipeline:
  query: "фотограф новосибирск"
  groups_limit: 20
  # Groups without posts for longer are dropped
  months: 3
  days_wall: 15
  days_photos: 15
  # Your own group, excluded from search results
  my_group_id: ""
  my_group_short_name: ""

notifications:
  enabled: false
  on_complete: true

logging:
  # debug, info, warn, error, disabled
  level: "info"
  # Optional log file, console only when empty
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "vkleads.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			ui.PrintError("Failed to create configuration directory", err.Error())
			os.Exit(1)
		}
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run 'vkleads auth login' to store your access token")
	fmt.Println("2. Edit the query and your own group in the configuration file")
	fmt.Println("3. Run 'vkleads config validate' to check the configuration")
	fmt.Println("4. Start with 'vkleads run --full'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	displayCfg := *cfg
	if displayCfg.VK.Token != "" {
		displayCfg.VK.Token = auth.MaskToken(displayCfg.VK.Token)
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
	fmt.Println("2. Environment variables (VK_TOKEN, VKLEADS_*)")
	fmt.Println("3. .env file")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (searched in standard locations)")
	}
	fmt.Println("5. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	var warnings, problems []string

	if cfg.VK.Token == "" {
		warnings = append(warnings, "VK access token not configured (remote stages will use stored accounts)")
	}
	if cfg.Pipeline.MyGroupID == "" && cfg.Pipeline.MyGroupShortName == "" {
		warnings = append(warnings, "own group not configured, it may appear among the leads")
	}

	if err := os.MkdirAll(cfg.Files.ReportsDir, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create reports directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Query: %s\n", cfg.Pipeline.Query)
	fmt.Printf("  Groups limit: %d\n", cfg.Pipeline.GroupsLimit)
	fmt.Printf("  Windows: %d months, %d wall days, %d photo days\n", cfg.Pipeline.Months, cfg.Pipeline.DaysWall, cfg.Pipeline.DaysPhotos)
	fmt.Printf("  Request interval: %s\n", cfg.RateLimit.Interval)
	fmt.Printf("  Reports directory: %s\n", cfg.Files.ReportsDir)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}

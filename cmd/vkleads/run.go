package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vkleads/pkg/auth"
	"vkleads/pkg/config"
	"vkleads/pkg/logger"
	"vkleads/pkg/scraper"
	"vkleads/pkg/ui"
)

var (
	// Run command flags
	command          string
	runFull          bool
	token            string
	accountName      string
	searchQuery      string
	daysWall         int
	daysPhotos       int
	months           int
	groupsLimit      int
	myGroupID        string
	myGroupShortName string
	reportsDir       string
	notifications    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one pipeline stage or the full pipeline",
	Long: `Run a single stage with --command, or every stage in order with --full.

Remote stages need a VK access token, resolved in this order:
  - the --token flag
  - VK_TOKEN in the environment, .env or the config file
  - the account named by --account, or the first stored account

The report stage works offline from the existing snapshots.`,
	Example: `  # Build the report from existing snapshots
  vkleads run

  # Search groups for a query
  vkleads run --command search --search "wedding photographer" --groups-limit 50

  # Full pipeline excluding your own group
  vkleads run --full --my-group-short-name mystudio

  # Collect wall leads from the last week with a stored account
  vkleads run --command inspect_wall --days-wall 7 --account work`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&command, "command", string(scraper.StageReport), "stage to run: search, remove_old, inspect_wall, inspect_photos, report")
	runCmd.Flags().BoolVar(&runFull, "full", false, "run every stage in order")
	runCmd.Flags().StringVar(&token, "token", "", "VK access token (or VK_TOKEN env)")
	runCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	runCmd.Flags().StringVar(&searchQuery, "search", "", "group search query")
	runCmd.Flags().IntVar(&daysWall, "days-wall", 0, "days of wall posts to inspect")
	runCmd.Flags().IntVar(&daysPhotos, "days-photos", 0, "days of photos to inspect")
	runCmd.Flags().IntVar(&months, "months", 0, "months without posts after which a group is dropped")
	runCmd.Flags().IntVar(&groupsLimit, "groups-limit", 0, "maximum number of groups to find")
	runCmd.Flags().StringVar(&myGroupID, "my-group-id", "", "id of your own group, excluded from search results")
	runCmd.Flags().StringVar(&myGroupShortName, "my-group-short-name", "", "short name of your own group, excluded from search results")
	runCmd.Flags().StringVar(&reportsDir, "reports-dir", "", "directory for snapshots and reports")
	runCmd.Flags().BoolVar(&notifications, "notifications", false, "send a desktop notification when the full run ends")
}

// runFlags collects the flags set on the command line
func runFlags(cmd *cobra.Command) map[string]interface{} {
	flags := map[string]interface{}{}
	set := func(name string, value interface{}) {
		if cmd.Flags().Changed(name) {
			flags[name] = value
		}
	}

	set("token", token)
	set("search", searchQuery)
	set("days-wall", daysWall)
	set("days-photos", daysPhotos)
	set("months", months)
	set("groups-limit", groupsLimit)
	set("my-group-id", myGroupID)
	set("my-group-short-name", myGroupShortName)
	set("reports-dir", reportsDir)
	set("notifications", notifications)
	return flags
}

func runPipeline(cmd *cobra.Command, args []string) error {
	stage, err := scraper.ParseStage(command)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(runFlags(cmd))
	if err != nil {
		return err
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("VK Leads starting")

	if runFull || stage.Remote() {
		if err := resolveToken(cfg, log); err != nil {
			return err
		}
	}

	s, err := scraper.New(cfg, scraper.Options{
		Progress: ui.NewStageProgress(quiet),
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runFull {
		ui.PrintHighlight("[FULL PIPELINE]")
		err = s.RunAll(ctx)
	} else {
		ui.PrintInfo("Command", stage.String())
		err = s.Run(ctx, stage)
	}
	if err != nil {
		return err
	}

	ui.PrintSuccess("[COMPLETED]")
	return nil
}

// resolveToken fills cfg.VK.Token from the credential store when neither
// a flag nor the environment supplied one. An explicit --account always
// wins over the environment.
func resolveToken(cfg *config.Config, log logger.Logger) error {
	if cfg.VK.Token != "" && accountName == "" {
		return nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		log.WithError(err).Warn("Credential manager unavailable")
		// the scraper reports the missing token as a configuration error
		return nil
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
		if err != nil {
			return fmt.Errorf("account %q: %w (see 'vkleads auth list')", accountName, err)
		}
	} else {
		account, err = manager.RetrieveDefault()
		if err != nil {
			return nil
		}
	}

	cfg.VK.Token = account.AccessToken
	log.WithField("account", account.Name).Info("Using stored credentials")
	ui.PrintInfo("Using account", account.Name)
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
)

var (
	// Command-line flags
	configFiles []string
	serverPort  int
	serverHost  string

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "onboarder",
	Short: "Generate onboarding packs from GitHub repository documentation",
	Long: `Onboarder fetches the markdown documentation of a GitHub repository,
summarizes each file with an LLM and assembles an onboarding pack as HTML
and, optionally, PDF.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times, later files override earlier ones)")
	rootCmd.PersistentFlags().IntVarP(&serverPort, "port", "p", 0, "Server port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverHost, "host", "", "Server host (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	common.InstallCrashHandler(common.LogsDirectory())
	defer common.RecoverWithCrashFile()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig runs the startup sequence shared by every command:
// defaults -> config files -> env -> CLI flags, then the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == versionCmd.Name() {
		return nil
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("onboarder.toml"); err == nil {
			configFiles = append(configFiles, "onboarder.toml")
		} else if _, err := os.Stat("deployments/local/onboarder.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/onboarder.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration %v: %w", configFiles, err)
	}

	common.ApplyFlagOverrides(config, serverPort, serverHost)

	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.InitLogger(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("badger_path", config.Storage.Badger.Path).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Str("llm_provider", string(config.LLM.DefaultProvider)).
		Str("pdf_mode", config.PDF.Mode).
		Msg("Resolved configuration (sanitized)")

	return nil
}

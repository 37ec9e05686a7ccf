package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/loaneda-cli/internal/config"
	"github.com/KaramelBytes/loaneda-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "loaneda",
	Short: "loaneda: exploratory charts for loan-approval datasets",
	Long: `loaneda loads a loan-approval dataset (CSV, TSV or JSON) and answers the usual
exploratory questions with six charts: income and debt-to-income ratio by loan status,
approval rates by dependents, self-employment and education, and CIBIL score densities.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.loaneda/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	level := cfg.LogLevel
	if rootCmd.PersistentFlags().Changed("log-level") {
		level = logLevel
	}
	if debug {
		level = "debug"
	}
	if level != "" && !logging.SetLevel(level) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: unknown log level %q, keeping %s\n", level, logging.GetLevel())
	}
	logging.Debugf("config loaded: backend=%s format=%s output_dir=%s", cfg.Backend, cfg.Format, cfg.OutputDir)
}

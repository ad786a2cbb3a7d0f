package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Koson7970/wood-strength-prediction-model/internal/config"
	"github.com/Koson7970/wood-strength-prediction-model/internal/logging"
	"github.com/Koson7970/wood-strength-prediction-model/internal/version"
)

var (
	configDir string
	logLevel  string

	// Loaded before every subcommand runs
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "timbermatch",
	Short: "Composite Timber Member Sizing Tool",
	Long: `timbermatch - Composite Timber Member Sizing

A CLI tool that assigns timber stock from a strength-prediction catalog
to the members of a structural analysis model.

Each member is paired with one catalog entry by rank (largest bending
demand to largest bending capacity). The tool then determines how many
identical pieces must be bundled side by side to carry:
  - Bending moment
  - Axial compression, including an Euler buckling check
  - Shear

Settings are read from timbermatch.yaml, a .env file and TIMBERMATCH_*
environment variables, in increasing order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configDir)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		logger, err = logging.New(cfg.LogLevel)
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   %s v%-43s║\n", version.Name, version.Version)
		fmt.Println("  ║   Composite Timber Member Sizing                          ║")
		fmt.Printf("  ║   %s ©  %-44s║\n", version.Author, version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Pairs analysis members with predicted-strength timber stock")
		fmt.Println("  and sizes the composite section of every member.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Member import from CSV, XLSX or YAML analysis output")
		fmt.Println("    • Reproducible nominal size assignment for the catalog")
		fmt.Println("    • Bending, compression, buckling and shear checks")
		fmt.Println("    • CSV, XLSX and PDF reports, section layout drawings")
		fmt.Println("    • HTTP API with Prometheus metrics")
		fmt.Println()
		fmt.Printf("  Use '%s --help' to see available commands.\n", version.Name)
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding timbermatch.yaml and .env (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

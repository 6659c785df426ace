// Package cli provides the command-line interface for the tracker.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"atrad-tracker/internal/config"
	"atrad-tracker/internal/logging"
	"atrad-tracker/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-28"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.SplitStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.DBPath()).Msg("Failed to open state database, split persistence unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.DBPath()).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "ATrad portfolio tracker - tax-lot accounting for CSE broker exports",
		Long: `ATrad portfolio tracker rebuilds FIFO tax lots from broker CSV exports.

Import your order tracker, watchlist, portfolio summary and action price range
CSVs, then inspect holdings, realized gains, sell-order verification and
rule-based recommendations. Stock splits entered here are applied
retroactively on every rebuild.

Use 'tracker help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/atrad-tracker)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addImportCommands(rootCmd, app)
	addPortfolioCommands(rootCmd, app)
	addSplitCommands(rootCmd, app)
	addExportCommands(rootCmd, app)
	addAdvisorCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("ATrad portfolio tracker v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Data")
			output.Printf("  Directory:       %s\n", app.Config.Data.Dir)
			output.Printf("  Export dir:      %s\n", app.Config.Data.ExportDir)
			output.Printf("  Database:        %s\n", app.Config.DBPath())
			output.Println()
			output.Bold("Logging")
			output.Printf("  Level:           %s\n", app.Config.Logging.Level)
			output.Printf("  Console:         %v\n", app.Config.Logging.Console)
			output.Printf("  File:            %v (%s)\n", app.Config.Logging.File, app.Config.Logging.FilePath)
			output.Println()
			output.Bold("Advisor")
			output.Printf("  Model:           %s\n", app.Config.Advisor.Model)
			output.Printf("  API key set:     %v\n", app.Config.Advisor.APIKey != "")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	return cmd
}

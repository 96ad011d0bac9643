package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	dbPath     string
	configPath string
	locale     string
	seed       int64
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pickdegree",
	Short: "Pick My Degree - find your degree through a knockout tournament",
	Long: `pickdegree plays the Pick My Degree tournament in the terminal.

Each command applies one step to the saved run and prints where you are:
remove whole categories, filter degrees one by one, then decide head-to-head
matches until a single degree is left.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runStatus,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "pickdegree.db", "SQLite database holding the saved run")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "data/game_config.json", "Game configuration file")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "Display locale (default from config)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the clock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	simulateCmd.Flags().IntVar(&simulateRuns, "runs", 1, "Number of runs to simulate")
	simulateCmd.Flags().StringVar(&simulateStrategy, "strategy", "", "Bot strategy: first, random or favorite-category (default from config)")
	simulateCmd.Flags().StringVar(&simulateFavorite, "favorite", "", "Category preferred by favorite-category")
	certificateCmd.Flags().StringVar(&playerName, "name", "", "Name printed on the certificate")

	rootCmd.AddCommand(
		statusCmd,
		resetCmd,
		rulesCmd,
		welcomeCmd,
		donateCmd,
		newCmd,
		removeCategoryCmd,
		restoreCategoryCmd,
		categoriesDoneCmd,
		toggleCmd,
		undoCmd,
		phase1DoneCmd,
		keepCmd,
		keepRandomCmd,
		pickCmd,
		repairCmd,
		certificateCmd,
		verifyCmd,
		simulateCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

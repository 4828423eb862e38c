package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/camka14/mvp-site/internal/config"
	"github.com/camka14/mvp-site/internal/db"
)

var (
	configPath string
	dbPath     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dbtools",
	Short: "Maintenance tools for the scheduling database",
	Long: `Maintenance commands for the facility scheduling database: schema
migrations, cross-event conflict sweeps and offline time slot previews.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/app.yaml", "Path to the app configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a SQLite database (overrides the configuration file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// openDatabase opens the database named by --db, or by the configuration
// file when --db is empty. Pending migrations are applied on open.
func openDatabase() (*db.DB, error) {
	if dbPath != "" {
		return db.New(dbPath)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return db.NewFromConfig(cfg)
}

// sqlitePath resolves the SQLite file the migrate commands operate on.
func sqlitePath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	if cfg.Database.Driver != "sqlite" {
		return "", fmt.Errorf("migrate supports sqlite databases only, configured driver is %s", cfg.Database.Driver)
	}
	return cfg.Database.Filename, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dbtools: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

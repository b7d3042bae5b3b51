// Package cli provides the filldb command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnwards/filldb/internal/config"
	"github.com/johnwards/filldb/internal/database"
	"github.com/johnwards/filldb/internal/seed"
)

// Flags holds the values of the command line flags.
type Flags struct {
	APIClients int
	Users      int
	UseSeed    bool
	Seed       int64
}

// NewRootCmd builds the filldb command.
func NewRootCmd() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "filldb",
		Short: "Fill the database with mock data generated randomly",
		Long: `filldb creates random API clients and users, then replays the seed data
fixture (DEBUG_USE_SEED_DATA_PATH) into the message tree store.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			return run(cmd, config.Load(), flags)
		},
	}

	cmd.Flags().IntVar(&flags.APIClients, "api_client", 1, "Amount of API Clients that we want to create")
	cmd.Flags().IntVar(&flags.Users, "users", 1, "Amount of Users that we want to create")
	cmd.Flags().Int64Var(&flags.Seed, "seed", 0, "The value we want to use as seed")
	cmd.Flags().BoolVar(&flags.UseSeed, "use_seed", true, "Whether we want to use seed for the random messages")

	return cmd
}

func run(cmd *cobra.Command, cfg config.Config, flags Flags) error {
	if flags.APIClients < 0 || flags.Users < 0 {
		return fmt.Errorf("--api_client and --users must not be negative")
	}

	policy, err := seed.ParseReplayErrorPolicy(cfg.ReplayErrors)
	if err != nil {
		return err
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = closeLog() }()

	ctx := cmd.Context()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	rng, err := seed.NewRand(flags.UseSeed, flags.Seed)
	if err != nil {
		return err
	}

	s := seed.New(db, rng, seed.Options{
		NumAPIClients: flags.APIClients,
		NumUsers:      flags.Users,
		SeedDataPath:  cfg.SeedDataPath,
		DummyAPIKey:   cfg.DummyAPIKey,
		ReplayErrors:  policy,
		Logger:        logger,
	})

	logger.Info("filling database", "db", cfg.DBPath, "api_clients", flags.APIClients, "users", flags.Users,
		"use_seed", flags.UseSeed, "seed", flags.Seed)
	return s.Run(ctx)
}

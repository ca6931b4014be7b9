package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/talent-console/internal/api"
	"github.com/jonathan/talent-console/internal/auth"
	"github.com/jonathan/talent-console/internal/config"
	"github.com/jonathan/talent-console/internal/db"
	"github.com/jonathan/talent-console/internal/observability"
	"github.com/jonathan/talent-console/internal/session"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	apiURL         string
	apiToken       string
	timeoutSeconds int
	databaseURL    string
	verbose        bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to JSON config file")
	flags.StringVar(&apiURL, "api-url", "", "API base URL (overrides TALENT_API_URL)")
	flags.StringVar(&apiToken, "token", "", "Bearer token (overrides TALENT_TOKEN)")
	flags.IntVar(&timeoutSeconds, "timeout", 0, "Request timeout in seconds")
	flags.StringVar(&databaseURL, "db-url", "", "PostgreSQL URL for the journal (overrides DATABASE_URL)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

// loadSettings layers flags over environment over the config file over
// built-in defaults.
func loadSettings() (config.Config, error) {
	cfg := config.Config{
		BaseURL:        apiURL,
		Token:          apiToken,
		TimeoutSeconds: timeoutSeconds,
		DatabaseURL:    databaseURL,
		Verbose:        verbose,
	}

	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.MergeWithDefaults(env)

	if configPath != "" {
		file, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*file)
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newClient(cfg config.Config) *api.Client {
	var authorizer api.Authorizer
	if cfg.Token != "" {
		authorizer = auth.NewBearerToken(cfg.Token)
	}
	return api.NewClient(cfg.BaseURL, authorizer, &api.Options{Timeout: cfg.Timeout()})
}

// openJournal connects to the journal database when one is configured. A
// journal that cannot be reached is reported and skipped.
func openJournal(ctx context.Context, cmd *cobra.Command, cfg config.Config) (*db.DB, session.Journal) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: journal disabled: %v\n", err)
		return nil, nil
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: journal disabled: %v\n", err)
		return nil, nil
	}
	if cfg.Verbose {
		log.Printf("[db] journal enabled")
	}
	return database, database
}

// env bundles what every command needs.
type env struct {
	cfg     config.Config
	client  *api.Client
	printer *observability.Printer
	journal session.Journal
	close   func()
}

func setup(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	database, journal := openJournal(ctx, cmd, cfg)
	e := &env{
		cfg:     cfg,
		client:  newClient(cfg),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
		journal: journal,
		close:   func() {},
	}
	if database != nil {
		e.close = database.Close
	}
	return e, nil
}

// openJob creates a session store and selects jobID.
func (e *env) openJob(ctx context.Context, jobID int64) (*session.Store, error) {
	if jobID <= 0 {
		return nil, fmt.Errorf("--job is required")
	}
	store := session.NewStore(e.client, session.Options{
		PruneSelection:    e.cfg.PruneSelection,
		ToggleConcurrency: e.cfg.ToggleConcurrency,
		Journal:           e.journal,
	})
	if err := store.SelectJob(ctx, jobID); err != nil {
		return nil, err
	}
	return store, nil
}

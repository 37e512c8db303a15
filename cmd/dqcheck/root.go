package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dqengine/internal/platform/config"
	"dqengine/internal/platform/logger"
	"dqengine/internal/platform/postgres"
	"dqengine/internal/quality/engine"
	"dqengine/internal/quality/models"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	rulesFile   string
	databaseURL string
	entityType  string
	logLevel    string
	concurrency int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "dqcheck",
		Short:         "Validate, cleanse and enrich citizen and business records",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.rulesFile, "rules", "", "YAML rule seed for the in-memory rule store")
	f.StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres DSN; rules and uniqueness are read from it when set")
	f.StringVarP(&opts.entityType, "entity-type", "e", string(models.EntityCitizen), "entity type of the records (citizen or business)")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")
	f.IntVar(&opts.concurrency, "concurrency", 8, "maximum concurrent validations")

	root.AddCommand(
		newValidateCmd(opts),
		newCleanseCmd(opts),
		newEnrichCmd(opts),
		newBatchCmd(opts),
	)
	return root
}

// session is an engine opened for one command run.
type session struct {
	*engine.Engine
	db *sql.DB
}

func (s *session) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (o *rootOptions) open(ctx context.Context, cmd *cobra.Command) (*session, error) {
	log := logger.NewWithWriter(cmd.ErrOrStderr(), o.logLevel)

	db, err := postgres.Open(ctx, config.DatabaseConfig{URL: o.databaseURL})
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(engine.Deps{
		DB:          db,
		Logger:      log,
		RulesFile:   o.rulesFile,
		Concurrency: o.concurrency,
	})
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}
	return &session{Engine: eng, db: db}, nil
}

func (o *rootOptions) entity() models.EntityType {
	return models.EntityType(o.entityType)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"manuals/internal/domain/repositories"
)

// RepositoryConfig holds what every repository implementation needs
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names
type TableNames struct {
	Documents            string
	Sections             string
	ContentModules       string
	Components           string
	SectionComponents    string
	Boms                 string
	BomItems             string
	Languages            string
	DocumentTranslations string
	SectionTranslations  string
	ModuleTranslations   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Documents:            prefix + "documents",
		Sections:             prefix + "sections",
		ContentModules:       prefix + "content_modules",
		Components:           prefix + "components",
		SectionComponents:    prefix + "section_components",
		Boms:                 prefix + "boms",
		BomItems:             prefix + "bom_items",
		Languages:            prefix + "languages",
		DocumentTranslations: prefix + "document_translations",
		SectionTranslations:  prefix + "section_translations",
		ModuleTranslations:   prefix + "content_module_translations",
	}
}

// All returns every table, children before parents (safe drop order)
func (t *TableNames) All() []string {
	return []string{
		t.ModuleTranslations,
		t.SectionTranslations,
		t.DocumentTranslations,
		t.BomItems,
		t.Boms,
		t.SectionComponents,
		t.ContentModules,
		t.Sections,
		t.Components,
		t.Languages,
		t.Documents,
	}
}

// CreateConnectionPool creates a pgx pool and verifies it with a ping.
//
// Port 6543 is the transaction-mode PgBouncer port, which cannot hold
// prepared statements. Unless the connection string chose a mode itself,
// the pool switches to QueryExecModeCacheDescribe there: it keeps the
// extended protocol (needed to encode map[string]any as JSONB) without
// creating server-side statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 20
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or the pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.TxFrom(ctx); tx != nil {
		return tx
	}
	return pool
}

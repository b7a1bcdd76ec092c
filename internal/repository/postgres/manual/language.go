package manual

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualRepo "manuals/internal/domain/repositories/manual"
	"manuals/internal/repository/postgres"
)

// PostgresLanguageRepository implements the LanguageRepository interface
type PostgresLanguageRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewLanguageRepository creates a new language repository
func NewLanguageRepository(config *postgres.RepositoryConfig) manualRepo.LanguageRepository {
	return &PostgresLanguageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a language; codes are unique
func (r *PostgresLanguageRepository) Create(ctx context.Context, lang *models.Language) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (code, name, is_active, is_default)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.tables.Languages)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, lang.Code, lang.Name, lang.IsActive, lang.IsDefault).Scan(&lang.ID)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("language '%s' already exists", lang.Code),
				ResourceType: "language",
			}
		}
		return fmt.Errorf("create language: %w", err)
	}

	return nil
}

// GetByID retrieves a language by ID
func (r *PostgresLanguageRepository) GetByID(ctx context.Context, id int64) (*models.Language, error) {
	query := fmt.Sprintf(`
		SELECT id, code, name, is_active, is_default
		FROM %s
		WHERE id = $1
	`, r.tables.Languages)

	var lang models.Language
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&lang.ID, &lang.Code, &lang.Name, &lang.IsActive, &lang.IsDefault)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("language %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get language: %w", err)
	}

	return &lang, nil
}

// List returns every language, default first, then active ones
func (r *PostgresLanguageRepository) List(ctx context.Context) ([]models.Language, error) {
	query := fmt.Sprintf(`
		SELECT id, code, name, is_active, is_default
		FROM %s
		ORDER BY is_default DESC, is_active DESC, name ASC
	`, r.tables.Languages)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	languages := make([]models.Language, 0)
	for rows.Next() {
		var lang models.Language
		if err := rows.Scan(&lang.ID, &lang.Code, &lang.Name, &lang.IsActive, &lang.IsDefault); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		languages = append(languages, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate languages: %w", err)
	}

	return languages, nil
}

// Update writes name and flags
func (r *PostgresLanguageRepository) Update(ctx context.Context, lang *models.Language) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, is_active = $2, is_default = $3
		WHERE id = $4
	`, r.tables.Languages)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, lang.Name, lang.IsActive, lang.IsDefault, lang.ID)
	if err != nil {
		return fmt.Errorf("update language: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("language %d: %w", lang.ID, domain.ErrNotFound)
	}

	return nil
}

// ClearDefault unsets the default flag everywhere but keepID
func (r *PostgresLanguageRepository) ClearDefault(ctx context.Context, keepID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET is_default = false WHERE is_default AND id <> $1`, r.tables.Languages)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, keepID); err != nil {
		return fmt.Errorf("clear default language: %w", err)
	}

	return nil
}

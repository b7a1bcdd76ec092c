package manual

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualRepo "manuals/internal/domain/repositories/manual"
	"manuals/internal/repository/postgres"
)

// PostgresTranslationRepository implements the TranslationRepository interface.
// Every translation table is keyed by (entity id, language_id).
type PostgresTranslationRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewTranslationRepository creates a new translation repository
func NewTranslationRepository(config *postgres.RepositoryConfig) manualRepo.TranslationRepository {
	return &PostgresTranslationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const metaColumns = `language_id, status, translator_id, reviewer_id, updated_at`

func metaDest(m *models.TranslationMeta) []any {
	return []any{&m.LanguageID, &m.Status, &m.TranslatorID, &m.ReviewerID, &m.UpdatedAt}
}

// GetDocument returns the document translation, nil when there is none
func (r *PostgresTranslationRepository) GetDocument(ctx context.Context, documentID, languageID int64) (*models.DocumentTranslation, error) {
	query := fmt.Sprintf(`
		SELECT document_id, title, description, version, %s
		FROM %s
		WHERE document_id = $1 AND language_id = $2
	`, metaColumns, r.tables.DocumentTranslations)

	var tr models.DocumentTranslation
	dest := append([]any{&tr.DocumentID, &tr.Title, &tr.Description, &tr.Version}, metaDest(&tr.TranslationMeta)...)

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, documentID, languageID).Scan(dest...); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document translation: %w", err)
	}

	return &tr, nil
}

// GetSection returns the section translation, nil when there is none
func (r *PostgresTranslationRepository) GetSection(ctx context.Context, sectionID, languageID int64) (*models.SectionTranslation, error) {
	query := fmt.Sprintf(`
		SELECT section_id, title, description, %s
		FROM %s
		WHERE section_id = $1 AND language_id = $2
	`, metaColumns, r.tables.SectionTranslations)

	var tr models.SectionTranslation
	dest := append([]any{&tr.SectionID, &tr.Title, &tr.Description}, metaDest(&tr.TranslationMeta)...)

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, sectionID, languageID).Scan(dest...); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section translation: %w", err)
	}

	return &tr, nil
}

// GetModule returns the module translation, nil when there is none
func (r *PostgresTranslationRepository) GetModule(ctx context.Context, moduleID, languageID int64) (*models.ModuleTranslation, error) {
	query := fmt.Sprintf(`
		SELECT module_id, content, %s
		FROM %s
		WHERE module_id = $1 AND language_id = $2
	`, metaColumns, r.tables.ModuleTranslations)

	var tr models.ModuleTranslation
	var content string
	dest := append([]any{&tr.ModuleID, &content}, metaDest(&tr.TranslationMeta)...)

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, moduleID, languageID).Scan(dest...); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module translation: %w", err)
	}
	tr.Content = json.RawMessage(content)

	return &tr, nil
}

// UpsertDocument creates or replaces the document translation
func (r *PostgresTranslationRepository) UpsertDocument(ctx context.Context, tr *models.DocumentTranslation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, language_id, title, description, version, status, translator_id, reviewer_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (document_id, language_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			version = EXCLUDED.version,
			status = EXCLUDED.status,
			translator_id = EXCLUDED.translator_id,
			reviewer_id = EXCLUDED.reviewer_id,
			updated_at = NOW()
		RETURNING updated_at
	`, r.tables.DocumentTranslations)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		tr.DocumentID, tr.LanguageID, tr.Title, tr.Description, tr.Version,
		tr.Status, tr.TranslatorID, tr.ReviewerID,
	).Scan(&tr.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("document or language: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("upsert document translation: %w", err)
	}

	return nil
}

// UpsertSection creates or replaces the section translation
func (r *PostgresTranslationRepository) UpsertSection(ctx context.Context, tr *models.SectionTranslation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (section_id, language_id, title, description, status, translator_id, reviewer_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (section_id, language_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			translator_id = EXCLUDED.translator_id,
			reviewer_id = EXCLUDED.reviewer_id,
			updated_at = NOW()
		RETURNING updated_at
	`, r.tables.SectionTranslations)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		tr.SectionID, tr.LanguageID, tr.Title, tr.Description,
		tr.Status, tr.TranslatorID, tr.ReviewerID,
	).Scan(&tr.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("section or language: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("upsert section translation: %w", err)
	}

	return nil
}

// UpsertModule creates or replaces the module translation
func (r *PostgresTranslationRepository) UpsertModule(ctx context.Context, tr *models.ModuleTranslation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (module_id, language_id, content, status, translator_id, reviewer_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (module_id, language_id) DO UPDATE SET
			content = EXCLUDED.content,
			status = EXCLUDED.status,
			translator_id = EXCLUDED.translator_id,
			reviewer_id = EXCLUDED.reviewer_id,
			updated_at = NOW()
		RETURNING updated_at
	`, r.tables.ModuleTranslations)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		tr.ModuleID, tr.LanguageID, string(tr.Content),
		tr.Status, tr.TranslatorID, tr.ReviewerID,
	).Scan(&tr.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("module or language: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("upsert module translation: %w", err)
	}

	return nil
}

// ListSectionsByDocument returns the section translations of a document in one language
func (r *PostgresTranslationRepository) ListSectionsByDocument(ctx context.Context, documentID, languageID int64) ([]models.SectionTranslation, error) {
	query := fmt.Sprintf(`
		SELECT t.section_id, t.title, t.description, t.language_id, t.status, t.translator_id, t.reviewer_id, t.updated_at
		FROM %s t
		JOIN %s s ON s.id = t.section_id
		WHERE s.document_id = $1 AND t.language_id = $2
		ORDER BY t.section_id ASC
	`, r.tables.SectionTranslations, r.tables.Sections)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID, languageID)
	if err != nil {
		return nil, fmt.Errorf("list section translations: %w", err)
	}
	defer rows.Close()

	translations := make([]models.SectionTranslation, 0)
	for rows.Next() {
		var tr models.SectionTranslation
		dest := append([]any{&tr.SectionID, &tr.Title, &tr.Description}, metaDest(&tr.TranslationMeta)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan section translation: %w", err)
		}
		translations = append(translations, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate section translations: %w", err)
	}

	return translations, nil
}

// ListModulesByDocument returns the module translations of a document in one language
func (r *PostgresTranslationRepository) ListModulesByDocument(ctx context.Context, documentID, languageID int64) ([]models.ModuleTranslation, error) {
	query := fmt.Sprintf(`
		SELECT t.module_id, t.content, t.language_id, t.status, t.translator_id, t.reviewer_id, t.updated_at
		FROM %s t
		JOIN %s m ON m.id = t.module_id
		JOIN %s s ON s.id = m.section_id
		WHERE s.document_id = $1 AND t.language_id = $2
		ORDER BY t.module_id ASC
	`, r.tables.ModuleTranslations, r.tables.ContentModules, r.tables.Sections)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID, languageID)
	if err != nil {
		return nil, fmt.Errorf("list module translations: %w", err)
	}
	defer rows.Close()

	translations := make([]models.ModuleTranslation, 0)
	for rows.Next() {
		var tr models.ModuleTranslation
		var content string
		dest := append([]any{&tr.ModuleID, &content}, metaDest(&tr.TranslationMeta)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan module translation: %w", err)
		}
		tr.Content = json.RawMessage(content)
		translations = append(translations, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate module translations: %w", err)
	}

	return translations, nil
}

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

// PostgresSectionRepository implements the SectionRepository interface
type PostgresSectionRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(config *postgres.RepositoryConfig) manualRepo.SectionRepository {
	return &PostgresSectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const sectionColumns = `id, document_id, title, description, sort_order, parent_id, is_module`

func scanSection(row interface{ Scan(...any) error }, s *models.Section) error {
	return row.Scan(&s.ID, &s.DocumentID, &s.Title, &s.Description, &s.Order, &s.ParentID, &s.IsModule)
}

// Create inserts a section. The (document_id, parent_id, sort_order) unique
// index reports sibling order collisions as a ConflictError.
func (r *PostgresSectionRepository) Create(ctx context.Context, s *models.Section) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, title, description, sort_order, parent_id, is_module)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, r.tables.Sections)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		s.DocumentID,
		s.Title,
		s.Description,
		s.Order,
		s.ParentID,
		s.IsModule,
	).Scan(&s.ID)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("order %d is already used by a sibling section", s.Order),
				ResourceType: "section",
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("document or parent section: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create section: %w", err)
	}

	return nil
}

// GetByID retrieves a section by ID
func (r *PostgresSectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, sectionColumns, r.tables.Sections)

	var s models.Section
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanSection(executor.QueryRow(ctx, query, id), &s); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("section %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	return &s, nil
}

// ListByDocument returns all sections of a document
func (r *PostgresSectionRepository) ListByDocument(ctx context.Context, documentID int64) ([]models.Section, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1
		ORDER BY parent_id NULLS FIRST, sort_order ASC, id ASC
	`, sectionColumns, r.tables.Sections)

	return r.list(ctx, query, documentID)
}

// ListChildren returns the direct children of a parent (nil = top level)
func (r *PostgresSectionRepository) ListChildren(ctx context.Context, documentID int64, parentID *int64) ([]models.Section, error) {
	if parentID == nil {
		query := fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE document_id = $1 AND parent_id IS NULL
			ORDER BY sort_order ASC, id ASC
		`, sectionColumns, r.tables.Sections)
		return r.list(ctx, query, documentID)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1 AND parent_id = $2
		ORDER BY sort_order ASC, id ASC
	`, sectionColumns, r.tables.Sections)
	return r.list(ctx, query, documentID, *parentID)
}

// ListLibrary returns reusable library sections
func (r *PostgresSectionRepository) ListLibrary(ctx context.Context) ([]models.Section, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE is_module = TRUE
		ORDER BY title ASC, id ASC
	`, sectionColumns, r.tables.Sections)

	return r.list(ctx, query)
}

func (r *PostgresSectionRepository) list(ctx context.Context, query string, args ...any) ([]models.Section, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	sections := make([]models.Section, 0)
	for rows.Next() {
		var s models.Section
		if err := scanSection(rows, &s); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}

	return sections, nil
}

// Update writes title, description, order, parent and library flag
func (r *PostgresSectionRepository) Update(ctx context.Context, s *models.Section) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, sort_order = $3, parent_id = $4, is_module = $5
		WHERE id = $6
	`, r.tables.Sections)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, s.Title, s.Description, s.Order, s.ParentID, s.IsModule, s.ID)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("order %d is already used by a sibling section", s.Order),
				ResourceType: "section",
			}
		}
		return fmt.Errorf("update section: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %d: %w", s.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a section; children, modules and translations cascade
func (r *PostgresSectionRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Sections)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

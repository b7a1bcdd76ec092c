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

// PostgresModuleRepository implements the ModuleRepository interface.
// Content lives in a TEXT column so that records written by older editors
// with invalid JSON can still be read and passed through.
type PostgresModuleRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewModuleRepository creates a new content module repository
func NewModuleRepository(config *postgres.RepositoryConfig) manualRepo.ModuleRepository {
	return &PostgresModuleRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanModule(row interface{ Scan(...any) error }, m *models.ContentModule) error {
	var content string
	if err := row.Scan(&m.ID, &m.SectionID, &m.Type, &content, &m.Order); err != nil {
		return err
	}
	m.Content = json.RawMessage(content)
	return nil
}

// Create inserts a module
func (r *PostgresModuleRepository) Create(ctx context.Context, m *models.ContentModule) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (section_id, type, content, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.tables.ContentModules)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, m.SectionID, m.Type, string(m.Content), m.Order).Scan(&m.ID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("section %d: %w", m.SectionID, domain.ErrNotFound)
		}
		return fmt.Errorf("create module: %w", err)
	}

	return nil
}

// GetByID retrieves a module by ID
func (r *PostgresModuleRepository) GetByID(ctx context.Context, id int64) (*models.ContentModule, error) {
	query := fmt.Sprintf(`
		SELECT id, section_id, type, content, sort_order
		FROM %s
		WHERE id = $1
	`, r.tables.ContentModules)

	var m models.ContentModule
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanModule(executor.QueryRow(ctx, query, id), &m); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("module %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get module: %w", err)
	}

	return &m, nil
}

// ListBySection returns a section's modules in order
func (r *PostgresModuleRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.ContentModule, error) {
	query := fmt.Sprintf(`
		SELECT id, section_id, type, content, sort_order
		FROM %s
		WHERE section_id = $1
		ORDER BY sort_order ASC, id ASC
	`, r.tables.ContentModules)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	modules := make([]models.ContentModule, 0)
	for rows.Next() {
		var m models.ContentModule
		if err := scanModule(rows, &m); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modules: %w", err)
	}

	return modules, nil
}

// ListByDocument loads every module of a document in one query
func (r *PostgresModuleRepository) ListByDocument(ctx context.Context, documentID int64) (map[int64][]models.ContentModule, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.section_id, m.type, m.content, m.sort_order
		FROM %s m
		JOIN %s s ON s.id = m.section_id
		WHERE s.document_id = $1
		ORDER BY m.section_id ASC, m.sort_order ASC, m.id ASC
	`, r.tables.ContentModules, r.tables.Sections)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document modules: %w", err)
	}
	defer rows.Close()

	bySection := make(map[int64][]models.ContentModule)
	for rows.Next() {
		var m models.ContentModule
		if err := scanModule(rows, &m); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		bySection[m.SectionID] = append(bySection[m.SectionID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modules: %w", err)
	}

	return bySection, nil
}

// Update writes type, content and order
func (r *PostgresModuleRepository) Update(ctx context.Context, m *models.ContentModule) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET type = $1, content = $2, sort_order = $3
		WHERE id = $4
	`, r.tables.ContentModules)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, m.Type, string(m.Content), m.Order, m.ID)
	if err != nil {
		return fmt.Errorf("update module: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("module %d: %w", m.ID, domain.ErrNotFound)
	}

	return nil
}

// SetOrder updates only the order of a module
func (r *PostgresModuleRepository) SetOrder(ctx context.Context, id int64, order int) error {
	query := fmt.Sprintf(`UPDATE %s SET sort_order = $1 WHERE id = $2`, r.tables.ContentModules)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, order, id)
	if err != nil {
		return fmt.Errorf("reorder module: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("module %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a module and its translations
func (r *PostgresModuleRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.ContentModules)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete module: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("module %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

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

// PostgresComponentRepository implements the ComponentRepository interface
type PostgresComponentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewComponentRepository creates a new component repository
func NewComponentRepository(config *postgres.RepositoryConfig) manualRepo.ComponentRepository {
	return &PostgresComponentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a component; a duplicate code is a ConflictError carrying the existing id
func (r *PostgresComponentRepository) Create(ctx context.Context, c *models.Component) error {
	if c.Details == nil {
		c.Details = map[string]any{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (code, description, details)
		VALUES ($1, $2, $3)
		RETURNING id
	`, r.tables.Components)

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, c.Code, c.Description, c.Details).Scan(&c.ID); err != nil {
		if postgres.IsPgDuplicateError(err) {
			conflict := &domain.ConflictError{
				Message:      fmt.Sprintf("component '%s' already exists", c.Code),
				ResourceType: "component",
			}
			if existing, getErr := r.GetByCode(ctx, c.Code); getErr == nil {
				conflict.ResourceID = existing.ID
			}
			return conflict
		}
		return fmt.Errorf("create component: %w", err)
	}

	return nil
}

// GetByID retrieves a component by ID
func (r *PostgresComponentRepository) GetByID(ctx context.Context, id int64) (*models.Component, error) {
	query := fmt.Sprintf(`SELECT id, code, description, details FROM %s WHERE id = $1`, r.tables.Components)
	return r.get(ctx, query, id, fmt.Sprintf("component %d", id))
}

// GetByCode retrieves a component by its unique code
func (r *PostgresComponentRepository) GetByCode(ctx context.Context, code string) (*models.Component, error) {
	query := fmt.Sprintf(`SELECT id, code, description, details FROM %s WHERE code = $1`, r.tables.Components)
	return r.get(ctx, query, code, fmt.Sprintf("component '%s'", code))
}

func (r *PostgresComponentRepository) get(ctx context.Context, query string, arg any, label string) (*models.Component, error) {
	var c models.Component
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Code, &c.Description, &c.Details); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("%s: %w", label, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get component: %w", err)
	}
	return &c, nil
}

// Search lists components by code prefix
func (r *PostgresComponentRepository) Search(ctx context.Context, prefix string, limit int) ([]models.Component, error) {
	query := fmt.Sprintf(`
		SELECT id, code, description, details
		FROM %s
		WHERE code ILIKE $1 || '%%'
		ORDER BY code ASC
		LIMIT $2
	`, r.tables.Components)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("search components: %w", err)
	}
	defer rows.Close()

	components := make([]models.Component, 0)
	for rows.Next() {
		var c models.Component
		if err := rows.Scan(&c.ID, &c.Code, &c.Description, &c.Details); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}

	return components, nil
}

// Attach links a component to a section (upsert on the pair)
func (r *PostgresComponentRepository) Attach(ctx context.Context, link *models.SectionComponent) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (section_id, component_id, quantity, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (section_id, component_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, notes = EXCLUDED.notes
	`, r.tables.SectionComponents)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, link.SectionID, link.ComponentID, link.Quantity, link.Notes); err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("section or component: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("attach component: %w", err)
	}

	return nil
}

// Detach removes a section/component link
func (r *PostgresComponentRepository) Detach(ctx context.Context, sectionID, componentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE section_id = $1 AND component_id = $2`, r.tables.SectionComponents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, sectionID, componentID)
	if err != nil {
		return fmt.Errorf("detach component: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("component %d on section %d: %w", componentID, sectionID, domain.ErrNotFound)
	}

	return nil
}

// ListBySection returns the components of a section
func (r *PostgresComponentRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.SectionComponent, error) {
	query := fmt.Sprintf(`
		SELECT sc.section_id, sc.component_id, sc.quantity, sc.notes, c.id, c.code, c.description, c.details
		FROM %s sc
		JOIN %s c ON c.id = sc.component_id
		WHERE sc.section_id = $1
		ORDER BY c.code ASC
	`, r.tables.SectionComponents, r.tables.Components)

	links, err := r.listLinks(ctx, query, sectionID)
	if err != nil {
		return nil, err
	}
	if links[sectionID] == nil {
		return []models.SectionComponent{}, nil
	}
	return links[sectionID], nil
}

// ListByDocument returns every section link of a document
func (r *PostgresComponentRepository) ListByDocument(ctx context.Context, documentID int64) (map[int64][]models.SectionComponent, error) {
	query := fmt.Sprintf(`
		SELECT sc.section_id, sc.component_id, sc.quantity, sc.notes, c.id, c.code, c.description, c.details
		FROM %s sc
		JOIN %s c ON c.id = sc.component_id
		JOIN %s s ON s.id = sc.section_id
		WHERE s.document_id = $1
		ORDER BY sc.section_id ASC, c.code ASC
	`, r.tables.SectionComponents, r.tables.Components, r.tables.Sections)

	return r.listLinks(ctx, query, documentID)
}

func (r *PostgresComponentRepository) listLinks(ctx context.Context, query string, arg int64) (map[int64][]models.SectionComponent, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list section components: %w", err)
	}
	defer rows.Close()

	bySection := make(map[int64][]models.SectionComponent)
	for rows.Next() {
		var link models.SectionComponent
		if err := rows.Scan(
			&link.SectionID,
			&link.ComponentID,
			&link.Quantity,
			&link.Notes,
			&link.Component.ID,
			&link.Component.Code,
			&link.Component.Description,
			&link.Component.Details,
		); err != nil {
			return nil, fmt.Errorf("scan section component: %w", err)
		}
		bySection[link.SectionID] = append(bySection[link.SectionID], link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate section components: %w", err)
	}

	return bySection, nil
}

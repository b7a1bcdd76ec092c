package manual

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	"manuals/internal/domain/repositories"
	manualRepo "manuals/internal/domain/repositories/manual"
	"manuals/internal/repository/postgres"
)

// PostgresBomRepository implements the BomRepository interface
type PostgresBomRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewBomRepository creates a new BOM repository
func NewBomRepository(config *postgres.RepositoryConfig) manualRepo.BomRepository {
	return &PostgresBomRepository{
		pool:   config.Pool,
		tables: config.Tables,
		tx:     postgres.NewTransactionManager(config.Pool, config.Logger),
		logger: config.Logger,
	}
}

// Create inserts the BOM header and its items atomically
func (r *PostgresBomRepository) Create(ctx context.Context, bom *models.Bom) error {
	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (name, version)
		VALUES ($1, $2)
		RETURNING id
	`, r.tables.Boms)
	itemQuery := fmt.Sprintf(`
		INSERT INTO %s (bom_id, component_id, quantity, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.tables.BomItems)

	return r.tx.ExecTx(ctx, func(ctx context.Context) error {
		executor := postgres.GetExecutor(ctx, r.pool)
		if err := executor.QueryRow(ctx, headerQuery, bom.Name, bom.Version).Scan(&bom.ID); err != nil {
			if postgres.IsPgDuplicateError(err) {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("BOM '%s' version '%s' already exists", bom.Name, bom.Version),
					ResourceType: "bom",
				}
			}
			return fmt.Errorf("create bom: %w", err)
		}

		for i := range bom.Items {
			item := &bom.Items[i]
			item.BomID = bom.ID
			if err := executor.QueryRow(ctx, itemQuery, bom.ID, item.ComponentID, item.Quantity, item.Order).Scan(&item.ID); err != nil {
				if postgres.IsPgForeignKeyError(err) {
					return fmt.Errorf("component %d: %w", item.ComponentID, domain.ErrNotFound)
				}
				return fmt.Errorf("create bom item: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a BOM with its items and their components
func (r *PostgresBomRepository) GetByID(ctx context.Context, id int64) (*models.Bom, error) {
	headerQuery := fmt.Sprintf(`SELECT id, name, version FROM %s WHERE id = $1`, r.tables.Boms)

	var bom models.Bom
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, headerQuery, id).Scan(&bom.ID, &bom.Name, &bom.Version); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("bom %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}

	itemsQuery := fmt.Sprintf(`
		SELECT i.id, i.bom_id, i.component_id, i.quantity, i.sort_order,
		       c.id, c.code, c.description, c.details
		FROM %s i
		JOIN %s c ON c.id = i.component_id
		WHERE i.bom_id = $1
		ORDER BY i.sort_order ASC, i.id ASC
	`, r.tables.BomItems, r.tables.Components)

	rows, err := executor.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list bom items: %w", err)
	}
	defer rows.Close()

	bom.Items = make([]models.BomItem, 0)
	for rows.Next() {
		var item models.BomItem
		if err := rows.Scan(
			&item.ID,
			&item.BomID,
			&item.ComponentID,
			&item.Quantity,
			&item.Order,
			&item.Component.ID,
			&item.Component.Code,
			&item.Component.Description,
			&item.Component.Details,
		); err != nil {
			return nil, fmt.Errorf("scan bom item: %w", err)
		}
		bom.Items = append(bom.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bom items: %w", err)
	}

	return &bom, nil
}

// List returns BOM headers without items
func (r *PostgresBomRepository) List(ctx context.Context) ([]models.Bom, error) {
	query := fmt.Sprintf(`SELECT id, name, version FROM %s ORDER BY name ASC, version ASC`, r.tables.Boms)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list boms: %w", err)
	}
	defer rows.Close()

	boms := make([]models.Bom, 0)
	for rows.Next() {
		var bom models.Bom
		if err := rows.Scan(&bom.ID, &bom.Name, &bom.Version); err != nil {
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		boms = append(boms, bom)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boms: %w", err)
	}

	return boms, nil
}

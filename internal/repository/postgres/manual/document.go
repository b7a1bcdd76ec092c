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

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) manualRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, title, description, status, version, created_by, updated_by, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.Status,
		&doc.Version,
		&doc.CreatedBy,
		&doc.UpdatedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, description, status, version, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.Title,
		doc.Description,
		doc.Status,
		doc.Version,
		doc.CreatedBy,
		doc.UpdatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, id), &doc); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// List returns documents, most recently updated first
func (r *PostgresDocumentRepository) List(ctx context.Context, status *models.DocumentStatus) ([]models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, documentColumns, r.tables.Documents)
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	documents := make([]models.Document, 0)
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return documents, nil
}

// Update writes the editable fields of a document
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, status = $3, version = $4, updated_by = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.Description,
		doc.Status,
		doc.Version,
		doc.UpdatedBy,
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %d: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a document
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

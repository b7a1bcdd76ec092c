package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create inserts a document and fills in its ID and timestamps
	Create(ctx context.Context, doc *manual.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id int64) (*manual.Document, error)

	// List returns documents ordered by updated_at DESC, optionally filtered by status
	List(ctx context.Context, status *manual.DocumentStatus) ([]manual.Document, error)

	// Update writes title, description, status, version and updated_by
	Update(ctx context.Context, doc *manual.Document) error

	// Delete removes a document; sections and modules cascade
	Delete(ctx context.Context, id int64) error
}

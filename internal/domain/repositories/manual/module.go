package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// ModuleRepository defines data access operations for content modules
type ModuleRepository interface {
	Create(ctx context.Context, module *manual.ContentModule) error

	GetByID(ctx context.Context, id int64) (*manual.ContentModule, error)

	// ListBySection returns a section's modules ordered by order
	ListBySection(ctx context.Context, sectionID int64) ([]manual.ContentModule, error)

	// ListByDocument returns every module of a document grouped by section id
	ListByDocument(ctx context.Context, documentID int64) (map[int64][]manual.ContentModule, error)

	Update(ctx context.Context, module *manual.ContentModule) error

	// SetOrder updates only the order column
	SetOrder(ctx context.Context, id int64, order int) error

	Delete(ctx context.Context, id int64) error
}

package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// SectionRepository defines data access operations for sections
type SectionRepository interface {
	Create(ctx context.Context, section *manual.Section) error

	GetByID(ctx context.Context, id int64) (*manual.Section, error)

	// ListByDocument returns every section of a document ordered by parent, then order
	ListByDocument(ctx context.Context, documentID int64) ([]manual.Section, error)

	// ListChildren returns the direct children of parentID (nil = top level)
	ListChildren(ctx context.Context, documentID int64, parentID *int64) ([]manual.Section, error)

	// ListLibrary returns sections flagged as reusable modules
	ListLibrary(ctx context.Context) ([]manual.Section, error)

	Update(ctx context.Context, section *manual.Section) error

	Delete(ctx context.Context, id int64) error
}

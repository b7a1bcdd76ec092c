package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// ComponentRepository defines data access operations for components and their section links
type ComponentRepository interface {
	Create(ctx context.Context, component *manual.Component) error

	GetByID(ctx context.Context, id int64) (*manual.Component, error)

	GetByCode(ctx context.Context, code string) (*manual.Component, error)

	// Search lists components whose code starts with prefix (empty = all), ordered by code
	Search(ctx context.Context, prefix string, limit int) ([]manual.Component, error)

	// Attach links a component to a section, replacing quantity/notes if already linked
	Attach(ctx context.Context, link *manual.SectionComponent) error

	Detach(ctx context.Context, sectionID, componentID int64) error

	// ListBySection returns a section's components with the component loaded, ordered by code
	ListBySection(ctx context.Context, sectionID int64) ([]manual.SectionComponent, error)

	// ListByDocument returns every section link of a document grouped by section id
	ListByDocument(ctx context.Context, documentID int64) (map[int64][]manual.SectionComponent, error)
}

// BomRepository defines data access operations for bills of materials
type BomRepository interface {
	// Create inserts the BOM and its items
	Create(ctx context.Context, bom *manual.Bom) error

	// GetByID retrieves a BOM with items (component loaded) in order
	GetByID(ctx context.Context, id int64) (*manual.Bom, error)

	List(ctx context.Context) ([]manual.Bom, error)
}

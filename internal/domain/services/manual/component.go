package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// ComponentService handles the parts catalogue and section attachments
type ComponentService interface {
	CreateComponent(ctx context.Context, req *CreateComponentRequest) (*manual.Component, error)

	GetComponentByCode(ctx context.Context, code string) (*manual.Component, error)

	// SearchComponents lists components by code prefix
	SearchComponents(ctx context.Context, prefix string, limit int) ([]manual.Component, error)

	AttachComponent(ctx context.Context, req *AttachComponentRequest) error

	DetachComponent(ctx context.Context, sectionID, componentID int64) error

	ListSectionComponents(ctx context.Context, sectionID int64) ([]manual.SectionComponent, error)
}

// BomService handles bills of materials
type BomService interface {
	CreateBom(ctx context.Context, req *CreateBomRequest) (*manual.Bom, error)

	GetBom(ctx context.Context, id int64) (*manual.Bom, error)

	ListBoms(ctx context.Context) ([]manual.Bom, error)

	// CompareBoms reports what changed from base to target, by component code
	CompareBoms(ctx context.Context, baseID, targetID int64) (*manual.BomComparison, error)
}

type CreateComponentRequest struct {
	Code        string         `json:"code"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
}

type AttachComponentRequest struct {
	SectionID   int64   `json:"-"`
	ComponentID int64   `json:"component_id"`
	Quantity    int     `json:"quantity"`
	Notes       *string `json:"notes,omitempty"`
}

type CreateBomRequest struct {
	Name    string           `json:"name"`
	Version string           `json:"version"`
	Items   []BomItemRequest `json:"items"`
}

// BomItemRequest references a component by code
type BomItemRequest struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

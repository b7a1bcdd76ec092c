package manual

import (
	"context"
	"encoding/json"

	"manuals/internal/domain/models/manual"
)

// ModuleService handles the content modules of a section
type ModuleService interface {
	// CreateModule validates the type and that content is a JSON object
	CreateModule(ctx context.Context, req *CreateModuleRequest) (*manual.ContentModule, error)

	GetModule(ctx context.Context, id int64) (*manual.ContentModule, error)

	ListModules(ctx context.Context, sectionID int64) ([]manual.ContentModule, error)

	UpdateModule(ctx context.Context, id int64, req *UpdateModuleRequest) (*manual.ContentModule, error)

	DeleteModule(ctx context.Context, id int64) error

	// ReorderModules assigns orders 0..n-1 following ids; ids must be exactly the section's modules
	ReorderModules(ctx context.Context, sectionID int64, ids []int64) ([]manual.ContentModule, error)
}

// CreateModuleRequest represents a module creation request
type CreateModuleRequest struct {
	SectionID int64             `json:"section_id"`
	Type      manual.ModuleType `json:"type"`
	Content   json.RawMessage   `json:"content"`
	Order     *int              `json:"order,omitempty"` // nil = append
}

// UpdateModuleRequest represents a partial module update
type UpdateModuleRequest struct {
	Type    *manual.ModuleType `json:"type,omitempty"`
	Content json.RawMessage    `json:"content,omitempty"`
}

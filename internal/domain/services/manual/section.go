package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// SectionService handles the section outline of a document
type SectionService interface {
	// CreateSection validates that the parent belongs to the same document and
	// that the order is free among siblings
	CreateSection(ctx context.Context, req *CreateSectionRequest) (*manual.Section, error)

	GetSection(ctx context.Context, id int64) (*manual.Section, error)

	UpdateSection(ctx context.Context, id int64, req *UpdateSectionRequest) (*manual.Section, error)

	// MoveSection changes parent and order; a section cannot move under itself or its descendants
	MoveSection(ctx context.Context, id int64, req *MoveSectionRequest) (*manual.Section, error)

	DeleteSection(ctx context.Context, id int64) error

	// ListLibrary lists reusable sections (is_module = true) across documents
	ListLibrary(ctx context.Context) ([]manual.Section, error)

	// CopyLibrarySection copies a library section and its modules into a document
	CopyLibrarySection(ctx context.Context, req *CopySectionRequest) (*manual.Section, error)
}

// CreateSectionRequest represents a section creation request
type CreateSectionRequest struct {
	DocumentID  int64  `json:"document_id"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       *int   `json:"order,omitempty"` // nil = after the last sibling
	IsModule    bool   `json:"is_module"`
}

// UpdateSectionRequest represents a partial section update
type UpdateSectionRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsModule    *bool   `json:"is_module,omitempty"`
}

// MoveSectionRequest places a section under ParentID (nil = top level) at Order
type MoveSectionRequest struct {
	ParentID *int64 `json:"parent_id"`
	Order    int    `json:"order"`
}

// CopySectionRequest copies a library section under ParentID of DocumentID
type CopySectionRequest struct {
	LibrarySectionID int64  `json:"library_section_id"`
	DocumentID       int64  `json:"document_id"`
	ParentID         *int64 `json:"parent_id,omitempty"`
	Order            *int   `json:"order,omitempty"`
}

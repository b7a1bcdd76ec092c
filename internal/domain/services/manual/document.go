package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// DocumentService handles manual lifecycle and tree assembly
type DocumentService interface {
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*manual.Document, error)

	GetDocument(ctx context.Context, id int64) (*manual.Document, error)

	// ListDocuments lists documents, optionally only those in one status
	ListDocuments(ctx context.Context, status *manual.DocumentStatus) ([]manual.Document, error)

	// UpdateDocument applies the non-nil fields; status changes must follow CanTransitionTo
	UpdateDocument(ctx context.Context, id int64, req *UpdateDocumentRequest) (*manual.Document, error)

	DeleteDocument(ctx context.Context, id int64) error

	// GetTree returns the document with nested sections, their modules and components
	GetTree(ctx context.Context, id int64) (*manual.DocumentTree, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	UserID      string `json:"-"` // Set by handler from auth context
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"` // Defaults to "1.0"
}

// UpdateDocumentRequest represents a partial document update
type UpdateDocumentRequest struct {
	UserID      string                 `json:"-"`
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Version     *string                `json:"version,omitempty"`
	Status      *manual.DocumentStatus `json:"status,omitempty"`
}

package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// LanguageService manages the languages a manual can be translated into.
// At most one language is the default.
type LanguageService interface {
	// CreateLanguage canonicalises the code as a BCP 47 tag
	CreateLanguage(ctx context.Context, req *CreateLanguageRequest) (*manual.Language, error)

	GetLanguage(ctx context.Context, id int64) (*manual.Language, error)

	ListLanguages(ctx context.Context) ([]manual.Language, error)

	UpdateLanguage(ctx context.Context, id int64, req *UpdateLanguageRequest) (*manual.Language, error)
}

type CreateLanguageRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	IsDefault bool   `json:"is_default"`
}

type UpdateLanguageRequest struct {
	Name      *string `json:"name,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

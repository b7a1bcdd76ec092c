package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// LanguageRepository defines data access operations for languages
type LanguageRepository interface {
	Create(ctx context.Context, lang *manual.Language) error

	GetByID(ctx context.Context, id int64) (*manual.Language, error)

	// List returns languages, default first, then active, then by name
	List(ctx context.Context) ([]manual.Language, error)

	Update(ctx context.Context, lang *manual.Language) error

	// ClearDefault unsets is_default on every language except keepID
	ClearDefault(ctx context.Context, keepID int64) error
}

package manual

import (
	"context"

	"manuals/internal/domain/models/manual"
)

// TranslationRepository defines data access operations for all translation records
type TranslationRepository interface {
	// GetDocument returns nil, nil when no record exists
	GetDocument(ctx context.Context, documentID, languageID int64) (*manual.DocumentTranslation, error)

	// GetSection returns nil, nil when no record exists
	GetSection(ctx context.Context, sectionID, languageID int64) (*manual.SectionTranslation, error)

	// GetModule returns nil, nil when no record exists
	GetModule(ctx context.Context, moduleID, languageID int64) (*manual.ModuleTranslation, error)

	// Upsert* insert on first edit of (entity, language) and update thereafter
	UpsertDocument(ctx context.Context, tr *manual.DocumentTranslation) error
	UpsertSection(ctx context.Context, tr *manual.SectionTranslation) error
	UpsertModule(ctx context.Context, tr *manual.ModuleTranslation) error

	// ListSectionsByDocument returns section translations of one document in one language
	ListSectionsByDocument(ctx context.Context, documentID, languageID int64) ([]manual.SectionTranslation, error)

	// ListModulesByDocument returns module translations of one document in one language
	ListModulesByDocument(ctx context.Context, documentID, languageID int64) ([]manual.ModuleTranslation, error)
}

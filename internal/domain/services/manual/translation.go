package manual

import (
	"context"
	"encoding/json"

	"manuals/internal/domain/models/manual"
)

// TranslationEntity names the kind of record a translation belongs to
type TranslationEntity string

const (
	EntityDocument TranslationEntity = "document"
	EntitySection  TranslationEntity = "section"
	EntityModule   TranslationEntity = "module"
)

// TranslationService handles the per-language translation workflow.
// Records are created on first edit of an (entity, language) pair and updated afterwards.
type TranslationService interface {
	GetDocumentTranslation(ctx context.Context, documentID, languageID int64) (*manual.DocumentTranslation, error)
	GetSectionTranslation(ctx context.Context, sectionID, languageID int64) (*manual.SectionTranslation, error)
	GetModuleTranslation(ctx context.Context, moduleID, languageID int64) (*manual.ModuleTranslation, error)

	// Save* store the translator's text and move the record to in_review
	SaveDocumentTranslation(ctx context.Context, req *SaveDocumentTranslationRequest) (*manual.DocumentTranslation, error)
	SaveSectionTranslation(ctx context.Context, req *SaveSectionTranslationRequest) (*manual.SectionTranslation, error)
	SaveModuleTranslation(ctx context.Context, req *SaveModuleTranslationRequest) (*manual.ModuleTranslation, error)

	// SetStatus changes the workflow status; approving records the reviewer
	SetStatus(ctx context.Context, req *SetTranslationStatusRequest) error

	// GetProgress counts sections and modules of a document per status
	GetProgress(ctx context.Context, documentID, languageID int64) (*manual.TranslationProgress, error)

	// SuggestSection and SuggestModule store a machine translation with status ai_suggested
	SuggestSection(ctx context.Context, req *SuggestRequest) (*manual.SectionTranslation, error)
	SuggestModule(ctx context.Context, req *SuggestRequest) (*manual.ModuleTranslation, error)
}

type SaveDocumentTranslationRequest struct {
	UserID      string  `json:"-"`
	DocumentID  int64   `json:"-"`
	LanguageID  int64   `json:"language_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Version     *string `json:"version"`
}

type SaveSectionTranslationRequest struct {
	UserID      string  `json:"-"`
	SectionID   int64   `json:"-"`
	LanguageID  int64   `json:"language_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type SaveModuleTranslationRequest struct {
	UserID     string          `json:"-"`
	ModuleID   int64           `json:"-"`
	LanguageID int64           `json:"language_id"`
	Content    json.RawMessage `json:"content"`
}

type SetTranslationStatusRequest struct {
	UserID     string                   `json:"-"`
	Entity     TranslationEntity        `json:"entity"`
	EntityID   int64                    `json:"entity_id"`
	LanguageID int64                    `json:"language_id"`
	Status     manual.TranslationStatus `json:"status"`
}

// SuggestRequest asks for a machine translation of one section or module
type SuggestRequest struct {
	UserID     string `json:"-"`
	EntityID   int64  `json:"-"`
	LanguageID int64  `json:"language_id"`
}

// Translator turns source strings into the target language, preserving order and count
type Translator interface {
	Translate(ctx context.Context, req *TranslateRequest) ([]string, error)
}

// TranslateRequest is a batch of strings for one target language.
// Texts may contain HTML, which must be preserved.
type TranslateRequest struct {
	SourceLanguage string
	TargetLanguage string
	Texts          []string
}

package manual

import (
	"encoding/json"
	"time"
)

// TranslationStatus is the workflow state of a translation record.
type TranslationStatus string

const (
	TranslationNotTranslated TranslationStatus = "not_translated"
	TranslationAISuggested   TranslationStatus = "ai_suggested"
	TranslationInReview      TranslationStatus = "in_review"
	TranslationApproved      TranslationStatus = "approved"
)

var TranslationStatuses = []TranslationStatus{
	TranslationNotTranslated,
	TranslationAISuggested,
	TranslationInReview,
	TranslationApproved,
}

// TranslationMeta is shared by every translation record.
type TranslationMeta struct {
	LanguageID   int64             `json:"language_id" db:"language_id"`
	Status       TranslationStatus `json:"status" db:"status"`
	TranslatorID *string           `json:"translator_id" db:"translator_id"`
	ReviewerID   *string           `json:"reviewer_id" db:"reviewer_id"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// DocumentTranslation overlays a document's header fields. Nil fields are
// rendered as empty strings, never as the source text.
type DocumentTranslation struct {
	DocumentID int64   `json:"document_id" db:"document_id"`
	Title      *string `json:"title" db:"title"`
	// Description and Version follow the same nil-means-empty rule as Title.
	Description *string `json:"description" db:"description"`
	Version     *string `json:"version" db:"version"`
	TranslationMeta
}

type SectionTranslation struct {
	SectionID   int64   `json:"section_id" db:"section_id"`
	Title       *string `json:"title" db:"title"`
	Description *string `json:"description" db:"description"`
	TranslationMeta
}

type ModuleTranslation struct {
	ModuleID int64           `json:"module_id" db:"module_id"`
	Content  json.RawMessage `json:"content" db:"content"`
	TranslationMeta
}

// MarshalJSON writes malformed stored content as a string with content_error set.
func (t ModuleTranslation) MarshalJSON() ([]byte, error) {
	type plain ModuleTranslation
	out := struct {
		plain
		Content      json.RawMessage `json:"content"`
		ContentError bool            `json:"content_error,omitempty"`
	}{plain: plain(t)}
	out.Content, out.ContentError = storedContent(t.Content)
	return json.Marshal(out)
}

// TranslationSet is every translation of one document for one language,
// keyed by the translated entity's id.
type TranslationSet struct {
	LanguageID int64
	Document   *DocumentTranslation
	Sections   map[int64]*SectionTranslation
	Modules    map[int64]*ModuleTranslation
}

// NewTranslationSet builds a lookup from flat translation lists.
func NewTranslationSet(languageID int64, doc *DocumentTranslation, sections []SectionTranslation, modules []ModuleTranslation) *TranslationSet {
	set := &TranslationSet{
		LanguageID: languageID,
		Document:   doc,
		Sections:   make(map[int64]*SectionTranslation, len(sections)),
		Modules:    make(map[int64]*ModuleTranslation, len(modules)),
	}
	for i := range sections {
		set.Sections[sections[i].SectionID] = &sections[i]
	}
	for i := range modules {
		set.Modules[modules[i].ModuleID] = &modules[i]
	}
	return set
}

// Section returns the translation for a section, nil when there is none.
func (s *TranslationSet) Section(id int64) *SectionTranslation {
	if s == nil {
		return nil
	}
	return s.Sections[id]
}

// Module returns the translation for a module, nil when there is none.
func (s *TranslationSet) Module(id int64) *ModuleTranslation {
	if s == nil {
		return nil
	}
	return s.Modules[id]
}

// StatusCount is a per-status tally used by translation progress reports.
type StatusCount map[TranslationStatus]int

// TranslationProgress summarises the state of one document in one language.
// Entities with no record count as not_translated.
type TranslationProgress struct {
	DocumentID int64       `json:"document_id"`
	LanguageID int64       `json:"language_id"`
	Sections   StatusCount `json:"sections"`
	Modules    StatusCount `json:"modules"`
}

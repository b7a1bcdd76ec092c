package manual

import (
	"bytes"
	"encoding/json"
)

// ModuleType tags the shape of a content module's payload.
type ModuleType string

const (
	ModuleText               ModuleType = "text"
	ModuleImage              ModuleType = "image"
	ModuleVideo              ModuleType = "video"
	ModulePDF                ModuleType = "pdf"
	ModuleFile               ModuleType = "file"
	ModuleTable              ModuleType = "table"
	ModuleChecklist          ModuleType = "checklist"
	ModuleWarning            ModuleType = "warning"
	ModuleDanger             ModuleType = "danger"
	ModuleWarningAlert       ModuleType = "warning-alert"
	ModuleCaution            ModuleType = "caution"
	ModuleNote               ModuleType = "note"
	ModuleSafetyInstructions ModuleType = "safety-instructions"
	ModuleLink               ModuleType = "link"
	ModuleComponent          ModuleType = "component"
	ModuleBOM                ModuleType = "bom"
	Module3DModel            ModuleType = "3d-model"
)

// ModuleTypes lists every type the editor can create.
var ModuleTypes = []ModuleType{
	ModuleText, ModuleImage, ModuleVideo, ModulePDF, ModuleFile, ModuleTable,
	ModuleChecklist, ModuleWarning, ModuleDanger, ModuleWarningAlert, ModuleCaution,
	ModuleNote, ModuleSafetyInstructions, ModuleLink, ModuleComponent, ModuleBOM,
	Module3DModel,
}

// IsNotice reports whether t belongs to the warning family.
func (t ModuleType) IsNotice() bool {
	switch t {
	case ModuleWarning, ModuleDanger, ModuleWarningAlert, ModuleCaution, ModuleNote, ModuleSafetyInstructions:
		return true
	}
	return false
}

// IsMedia reports whether t carries a caption/title/alt payload.
func (t ModuleType) IsMedia() bool {
	switch t {
	case ModuleImage, ModuleVideo, ModulePDF, ModuleFile:
		return true
	}
	return false
}

// IsKnown reports whether t is one of ModuleTypes.
func (t ModuleType) IsKnown() bool {
	for _, known := range ModuleTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ContentModule is a typed, ordered block inside a section.
// Content is kept as stored; it is only decoded when needed so that a
// malformed record can be passed through untouched.
type ContentModule struct {
	ID        int64           `json:"id" db:"id"`
	SectionID int64           `json:"section_id" db:"section_id"`
	Type      ModuleType      `json:"type" db:"type"`
	Content   json.RawMessage `json:"content" db:"content"`
	Order     int             `json:"order" db:"sort_order"`
}

// Clone returns a copy whose Content does not alias m's.
func (m ContentModule) Clone() ContentModule {
	if m.Content != nil {
		content := make(json.RawMessage, len(m.Content))
		copy(content, m.Content)
		m.Content = content
	}
	return m
}

// MarshalJSON writes stored content that is not valid JSON as a string and
// sets content_error, so one broken record does not fail a whole response.
func (m ContentModule) MarshalJSON() ([]byte, error) {
	type plain ContentModule
	out := struct {
		plain
		Content      json.RawMessage `json:"content"`
		ContentError bool            `json:"content_error,omitempty"`
	}{plain: plain(m)}
	out.Content, out.ContentError = storedContent(m.Content)
	return json.Marshal(out)
}

// storedContent returns raw as-is when it is valid JSON; otherwise the text
// encoded as a JSON string and false. Empty content is null.
func storedContent(raw json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), false
	}
	if json.Valid(trimmed) {
		return trimmed, false
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted, true
}

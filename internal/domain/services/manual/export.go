package manual

import (
	"context"
)

// ExportFormat selects the output of an export
type ExportFormat string

const (
	FormatHTML     ExportFormat = "html"
	FormatMarkdown ExportFormat = "markdown"
)

// ExportService renders a document, optionally in a target language, to a
// self-contained file
type ExportService interface {
	Export(ctx context.Context, req *ExportRequest) (*ExportResult, error)

	// Archive exports and stores the file in the configured export store
	Archive(ctx context.Context, req *ExportRequest) (*ArchivedExport, error)
}

type ExportRequest struct {
	DocumentID int64        `json:"-"`
	LanguageID *int64       `json:"language_id,omitempty"` // nil = source language
	Format     ExportFormat `json:"format"`
}

// ExportResult is a rendered file ready for download
type ExportResult struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
}

// ArchivedExport describes a stored export
type ArchivedExport struct {
	Key      string `json:"key"`
	FileName string `json:"file_name"`
	Location string `json:"location"`
	Size     int    `json:"size"`
}

// ExportStore persists export files
type ExportStore interface {
	// Put stores body under key and returns where it can be fetched
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

package handler

import (
	"log/slog"
	"net/http"

	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/httputil"
)

// ExportHandler handles document export HTTP requests
type ExportHandler struct {
	exportService manualSvc.ExportService
	logger        *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService manualSvc.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// Download renders a document and returns it as an attachment
// GET /api/documents/{id}/export?language_id=2&format=html
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	languageID, err := httputil.QueryID(r, "language_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.exportService.Export(r.Context(), &manualSvc.ExportRequest{
		DocumentID: id,
		LanguageID: languageID,
		Format:     manualSvc.ExportFormat(r.URL.Query().Get("format")),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondFile(w, result.ContentType, result.FileName, result.Body)
}

// Archive renders a document and stores it in the export store
// POST /api/documents/{id}/exports
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.ExportRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.DocumentID = id

	archived, err := h.exportService.Archive(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, archived)
}

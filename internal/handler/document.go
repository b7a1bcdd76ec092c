package handler

import (
	"log/slog"
	"net/http"
	"time"

	models "manuals/internal/domain/models/manual"
	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService manualSvc.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService manualSvc.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// ListDocuments lists documents, optionally filtered by status
// GET /api/documents?status=draft
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	var status *models.DocumentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.DocumentStatus(raw)
		status = &s
	}

	docs, err := h.docService.ListDocuments(r.Context(), status)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// CreateDocument creates a new document
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req manualSvc.CreateDocumentRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument updates a document
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.UpdateDocumentRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	doc, err := h.docService.UpdateDocument(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

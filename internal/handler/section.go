package handler

import (
	"log/slog"
	"net/http"

	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/httputil"
)

// SectionHandler handles section and library HTTP requests
type SectionHandler struct {
	sectionService manualSvc.SectionService
	logger         *slog.Logger
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(sectionService manualSvc.SectionService, logger *slog.Logger) *SectionHandler {
	return &SectionHandler{
		sectionService: sectionService,
		logger:         logger,
	}
}

// CreateSection creates a section in a document
// POST /api/sections
func (h *SectionHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req manualSvc.CreateSectionRequest
	if !parseBody(w, r, &req) {
		return
	}

	section, err := h.sectionService.CreateSection(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, section)
}

// GetSection retrieves a section by ID
// GET /api/sections/{id}
func (h *SectionHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	section, err := h.sectionService.GetSection(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// UpdateSection updates title, description or the library flag
// PATCH /api/sections/{id}
func (h *SectionHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.UpdateSectionRequest
	if !parseBody(w, r, &req) {
		return
	}

	section, err := h.sectionService.UpdateSection(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// MoveSection changes a section's parent and order
// POST /api/sections/{id}/move
func (h *SectionHandler) MoveSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.MoveSectionRequest
	if !parseBody(w, r, &req) {
		return
	}

	section, err := h.sectionService.MoveSection(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// DeleteSection deletes a section and its subtree
// DELETE /api/sections/{id}
func (h *SectionHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sectionService.DeleteSection(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListLibrary lists reusable library sections
// GET /api/library/sections
func (h *SectionHandler) ListLibrary(w http.ResponseWriter, r *http.Request) {
	sections, err := h.sectionService.ListLibrary(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sections)
}

// CopyLibrarySection copies a library section with its modules into a document
// POST /api/library/sections/{id}/copy
func (h *SectionHandler) CopyLibrarySection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.CopySectionRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.LibrarySectionID = id

	section, err := h.sectionService.CopyLibrarySection(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, section)
}

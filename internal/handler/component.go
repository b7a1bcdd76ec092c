package handler

import (
	"log/slog"
	"net/http"

	"manuals/internal/config"
	models "manuals/internal/domain/models/manual"
	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/httputil"
)

// ComponentHandler handles component, attachment and BOM HTTP requests
type ComponentHandler struct {
	componentService manualSvc.ComponentService
	bomService       manualSvc.BomService
	logger           *slog.Logger
}

// NewComponentHandler creates a new component handler
func NewComponentHandler(componentService manualSvc.ComponentService, bomService manualSvc.BomService, logger *slog.Logger) *ComponentHandler {
	return &ComponentHandler{
		componentService: componentService,
		bomService:       bomService,
		logger:           logger,
	}
}

// CreateComponent registers a component
// POST /api/components
// Returns 201 if created, 409 with the existing component if the code is taken
func (h *ComponentHandler) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var req manualSvc.CreateComponentRequest
	if !parseBody(w, r, &req) {
		return
	}

	component, err := h.componentService.CreateComponent(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func() (*models.Component, error) {
			return h.componentService.GetComponentByCode(r.Context(), req.Code)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, component)
}

// SearchComponents lists components by code prefix
// GET /api/components?prefix=A8&limit=20
func (h *ComponentHandler) SearchComponents(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", config.DefaultSearchLimit)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	components, err := h.componentService.SearchComponents(r.Context(), r.URL.Query().Get("prefix"), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, components)
}

// GetComponent retrieves a component by code
// GET /api/components/{code}
func (h *ComponentHandler) GetComponent(w http.ResponseWriter, r *http.Request) {
	component, err := h.componentService.GetComponentByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, component)
}

// ListSectionComponents
// GET /api/sections/{id}/components
func (h *ComponentHandler) ListSectionComponents(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	links, err := h.componentService.ListSectionComponents(r.Context(), sectionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, links)
}

// AttachComponent
// POST /api/sections/{id}/components
func (h *ComponentHandler) AttachComponent(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.AttachComponentRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.SectionID = sectionID

	if err := h.componentService.AttachComponent(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DetachComponent
// DELETE /api/sections/{id}/components/{componentId}
func (h *ComponentHandler) DetachComponent(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	componentID, ok := pathID(w, r, "componentId")
	if !ok {
		return
	}

	if err := h.componentService.DetachComponent(r.Context(), sectionID, componentID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBoms
// GET /api/boms
func (h *ComponentHandler) ListBoms(w http.ResponseWriter, r *http.Request) {
	boms, err := h.bomService.ListBoms(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, boms)
}

// CreateBom
// POST /api/boms
func (h *ComponentHandler) CreateBom(w http.ResponseWriter, r *http.Request) {
	var req manualSvc.CreateBomRequest
	if !parseBody(w, r, &req) {
		return
	}

	bom, err := h.bomService.CreateBom(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, bom)
}

// GetBom
// GET /api/boms/{id}
func (h *ComponentHandler) GetBom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	bom, err := h.bomService.GetBom(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, bom)
}

// CompareBoms
// GET /api/boms/{id}/compare/{targetId}
func (h *ComponentHandler) CompareBoms(w http.ResponseWriter, r *http.Request) {
	baseID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "targetId")
	if !ok {
		return
	}

	cmp, err := h.bomService.CompareBoms(r.Context(), baseID, targetID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, cmp)
}

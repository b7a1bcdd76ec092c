package handler

import (
	"log/slog"
	"net/http"

	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/httputil"
)

// ModuleHandler handles content module HTTP requests
type ModuleHandler struct {
	moduleService manualSvc.ModuleService
	logger        *slog.Logger
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(moduleService manualSvc.ModuleService, logger *slog.Logger) *ModuleHandler {
	return &ModuleHandler{
		moduleService: moduleService,
		logger:        logger,
	}
}

// ListModules lists a section's modules in order
// GET /api/sections/{id}/modules
func (h *ModuleHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	modules, err := h.moduleService.ListModules(r.Context(), sectionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, modules)
}

// CreateModule adds a module to a section
// POST /api/sections/{id}/modules
func (h *ModuleHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.CreateModuleRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.SectionID = sectionID

	module, err := h.moduleService.CreateModule(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, module)
}

// reorderRequest lists every module id of the section in the new order
type reorderRequest struct {
	ModuleIDs []int64 `json:"module_ids"`
}

// ReorderModules rewrites module order
// PUT /api/sections/{id}/modules/order
func (h *ModuleHandler) ReorderModules(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req reorderRequest
	if !parseBody(w, r, &req) {
		return
	}

	modules, err := h.moduleService.ReorderModules(r.Context(), sectionID, req.ModuleIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, modules)
}

// GetModule retrieves a module by ID
// GET /api/modules/{id}
func (h *ModuleHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	module, err := h.moduleService.GetModule(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, module)
}

// UpdateModule replaces a module's type or content
// PATCH /api/modules/{id}
func (h *ModuleHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.UpdateModuleRequest
	if !parseBody(w, r, &req) {
		return
	}

	module, err := h.moduleService.UpdateModule(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, module)
}

// DeleteModule deletes a module
// DELETE /api/modules/{id}
func (h *ModuleHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.moduleService.DeleteModule(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

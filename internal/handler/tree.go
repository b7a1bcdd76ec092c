package handler

import (
	"log/slog"
	"net/http"

	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	docService manualSvc.DocumentService
	logger     *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(docService manualSvc.DocumentService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		docService: docService,
		logger:     logger,
	}
}

// GetTree returns the nested sections of a document with their modules
// GET /api/documents/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tree, err := h.docService.GetTree(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

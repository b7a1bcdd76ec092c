package handler

import (
	"log/slog"
	"net/http"

	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/httputil"
)

// TranslationHandler handles the translation workflow HTTP requests
type TranslationHandler struct {
	translationService manualSvc.TranslationService
	logger             *slog.Logger
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(translationService manualSvc.TranslationService, logger *slog.Logger) *TranslationHandler {
	return &TranslationHandler{
		translationService: translationService,
		logger:             logger,
	}
}

// entityAndLanguage reads the {id} and {languageId} path parameters
func entityAndLanguage(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return 0, 0, false
	}
	languageID, ok := pathID(w, r, "languageId")
	if !ok {
		return 0, 0, false
	}
	return id, languageID, true
}

// GetDocumentTranslation
// GET /api/documents/{id}/translations/{languageId}
func (h *TranslationHandler) GetDocumentTranslation(w http.ResponseWriter, r *http.Request) {
	id, languageID, ok := entityAndLanguage(w, r)
	if !ok {
		return
	}

	tr, err := h.translationService.GetDocumentTranslation(r.Context(), id, languageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr)
}

// SaveDocumentTranslation
// PUT /api/documents/{id}/translations
func (h *TranslationHandler) SaveDocumentTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.SaveDocumentTranslationRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.DocumentID = id
	req.UserID = httputil.GetUserID(r)

	tr, err := h.translationService.SaveDocumentTranslation(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr)
}

// GetProgress reports per-status counts for a document in one language
// GET /api/documents/{id}/translations/{languageId}/progress
func (h *TranslationHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id, languageID, ok := entityAndLanguage(w, r)
	if !ok {
		return
	}

	progress, err := h.translationService.GetProgress(r.Context(), id, languageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, progress)
}

// GetSectionTranslation
// GET /api/sections/{id}/translations/{languageId}
func (h *TranslationHandler) GetSectionTranslation(w http.ResponseWriter, r *http.Request) {
	id, languageID, ok := entityAndLanguage(w, r)
	if !ok {
		return
	}

	tr, err := h.translationService.GetSectionTranslation(r.Context(), id, languageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr)
}

// SaveSectionTranslation
// PUT /api/sections/{id}/translations
func (h *TranslationHandler) SaveSectionTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.SaveSectionTranslationRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.SectionID = id
	req.UserID = httputil.GetUserID(r)

	tr, err := h.translationService.SaveSectionTranslation(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr)
}

// SuggestSection stores a machine translation of a section
// POST /api/sections/{id}/translations/suggest
func (h *TranslationHandler) SuggestSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.SuggestRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.EntityID = id
	req.UserID = httputil.GetUserID(r)

	tr, err := h.translationService.SuggestSection(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr)
}

// GetModuleTranslation
// GET /api/modules/{id}/translations/{languageId}
func (h *TranslationHandler) GetModuleTranslation(w http.ResponseWriter, r *http.Request) {
	id, languageID, ok := entityAndLanguage(w, r)
	if !ok {
		return
	}

	tr, err := h.translationService.GetModuleTranslation(r.Context(), id, languageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr)
}

// SaveModuleTranslation
// PUT /api/modules/{id}/translations
func (h *TranslationHandler) SaveModuleTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.SaveModuleTranslationRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ModuleID = id
	req.UserID = httputil.GetUserID(r)

	tr, err := h.translationService.SaveModuleTranslation(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr)
}

// SuggestModule stores a machine translation of a module
// POST /api/modules/{id}/translations/suggest
func (h *TranslationHandler) SuggestModule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.SuggestRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.EntityID = id
	req.UserID = httputil.GetUserID(r)

	tr, err := h.translationService.SuggestModule(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr)
}

// SetStatus moves a translation through the review workflow
// POST /api/translations/status
func (h *TranslationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req manualSvc.SetTranslationStatusRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	if err := h.translationService.SetStatus(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

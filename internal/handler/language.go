package handler

import (
	"log/slog"
	"net/http"

	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/httputil"
)

// LanguageHandler handles language HTTP requests
type LanguageHandler struct {
	languageService manualSvc.LanguageService
	logger          *slog.Logger
}

// NewLanguageHandler creates a new language handler
func NewLanguageHandler(languageService manualSvc.LanguageService, logger *slog.Logger) *LanguageHandler {
	return &LanguageHandler{
		languageService: languageService,
		logger:          logger,
	}
}

// ListLanguages lists languages, default and active first
// GET /api/languages
func (h *LanguageHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.languageService.ListLanguages(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, languages)
}

// CreateLanguage registers a language
// POST /api/languages
func (h *LanguageHandler) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	var req manualSvc.CreateLanguageRequest
	if !parseBody(w, r, &req) {
		return
	}

	lang, err := h.languageService.CreateLanguage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, lang)
}

// GetLanguage retrieves a language by ID
// GET /api/languages/{id}
func (h *LanguageHandler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	lang, err := h.languageService.GetLanguage(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lang)
}

// UpdateLanguage changes a language's name or flags
// PATCH /api/languages/{id}
func (h *LanguageHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req manualSvc.UpdateLanguageRequest
	if !parseBody(w, r, &req) {
		return
	}

	lang, err := h.languageService.UpdateLanguage(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lang)
}

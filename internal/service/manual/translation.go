package manual

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"manuals/internal/config"
	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualRepo "manuals/internal/domain/repositories/manual"
	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/metrics"
)

// translationService implements the TranslationService interface
type translationService struct {
	docRepo     manualRepo.DocumentRepository
	sectionRepo manualRepo.SectionRepository
	moduleRepo  manualRepo.ModuleRepository
	langRepo    manualRepo.LanguageRepository
	trRepo      manualRepo.TranslationRepository
	translator  manualSvc.Translator
	logger      *slog.Logger
}

// NewTranslationService creates a new translation service
func NewTranslationService(
	docRepo manualRepo.DocumentRepository,
	sectionRepo manualRepo.SectionRepository,
	moduleRepo manualRepo.ModuleRepository,
	langRepo manualRepo.LanguageRepository,
	trRepo manualRepo.TranslationRepository,
	translator manualSvc.Translator,
	logger *slog.Logger,
) manualSvc.TranslationService {
	return &translationService{
		docRepo:     docRepo,
		sectionRepo: sectionRepo,
		moduleRepo:  moduleRepo,
		langRepo:    langRepo,
		trRepo:      trRepo,
		translator:  translator,
		logger:      logger,
	}
}

// GetDocumentTranslation returns ErrNotFound when no record exists
func (s *translationService) GetDocumentTranslation(ctx context.Context, documentID, languageID int64) (*models.DocumentTranslation, error) {
	tr, err := s.trRepo.GetDocument(ctx, documentID, languageID)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("translation of document %d in language %d: %w", documentID, languageID, domain.ErrNotFound)
	}
	return tr, nil
}

// GetSectionTranslation returns ErrNotFound when no record exists
func (s *translationService) GetSectionTranslation(ctx context.Context, sectionID, languageID int64) (*models.SectionTranslation, error) {
	tr, err := s.trRepo.GetSection(ctx, sectionID, languageID)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("translation of section %d in language %d: %w", sectionID, languageID, domain.ErrNotFound)
	}
	return tr, nil
}

// GetModuleTranslation returns ErrNotFound when no record exists
func (s *translationService) GetModuleTranslation(ctx context.Context, moduleID, languageID int64) (*models.ModuleTranslation, error) {
	tr, err := s.trRepo.GetModule(ctx, moduleID, languageID)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("translation of module %d in language %d: %w", moduleID, languageID, domain.ErrNotFound)
	}
	return tr, nil
}

// SaveDocumentTranslation stores the translated document header
func (s *translationService) SaveDocumentTranslation(ctx context.Context, req *manualSvc.SaveDocumentTranslationRequest) (*models.DocumentTranslation, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.LanguageID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if _, err := s.docRepo.GetByID(ctx, req.DocumentID); err != nil {
		return nil, err
	}
	if _, err := s.langRepo.GetByID(ctx, req.LanguageID); err != nil {
		return nil, err
	}

	tr := &models.DocumentTranslation{
		DocumentID:      req.DocumentID,
		Title:           req.Title,
		Description:     req.Description,
		Version:         req.Version,
		TranslationMeta: s.editedMeta(req.LanguageID, req.UserID),
	}
	if err := s.trRepo.UpsertDocument(ctx, tr); err != nil {
		return nil, err
	}

	s.logger.Info("document translation saved", "document_id", tr.DocumentID, "language_id", tr.LanguageID)

	return tr, nil
}

// SaveSectionTranslation stores a translated section title and description
func (s *translationService) SaveSectionTranslation(ctx context.Context, req *manualSvc.SaveSectionTranslationRequest) (*models.SectionTranslation, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.LanguageID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if _, err := s.sectionRepo.GetByID(ctx, req.SectionID); err != nil {
		return nil, err
	}
	if _, err := s.langRepo.GetByID(ctx, req.LanguageID); err != nil {
		return nil, err
	}

	tr := &models.SectionTranslation{
		SectionID:       req.SectionID,
		Title:           req.Title,
		Description:     req.Description,
		TranslationMeta: s.editedMeta(req.LanguageID, req.UserID),
	}
	if err := s.trRepo.UpsertSection(ctx, tr); err != nil {
		return nil, err
	}

	s.logger.Info("section translation saved", "section_id", tr.SectionID, "language_id", tr.LanguageID)

	return tr, nil
}

// SaveModuleTranslation stores a translated module payload
func (s *translationService) SaveModuleTranslation(ctx context.Context, req *manualSvc.SaveModuleTranslationRequest) (*models.ModuleTranslation, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.LanguageID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	if _, err := s.moduleRepo.GetByID(ctx, req.ModuleID); err != nil {
		return nil, err
	}
	if _, err := s.langRepo.GetByID(ctx, req.LanguageID); err != nil {
		return nil, err
	}

	tr := &models.ModuleTranslation{
		ModuleID:        req.ModuleID,
		Content:         content,
		TranslationMeta: s.editedMeta(req.LanguageID, req.UserID),
	}
	if err := s.trRepo.UpsertModule(ctx, tr); err != nil {
		return nil, err
	}

	s.logger.Info("module translation saved", "module_id", tr.ModuleID, "language_id", tr.LanguageID)

	return tr, nil
}

// editedMeta is the workflow state after a translator edit
func (s *translationService) editedMeta(languageID int64, userID string) models.TranslationMeta {
	meta := models.TranslationMeta{LanguageID: languageID, Status: models.TranslationInReview}
	if userID != "" {
		meta.TranslatorID = &userID
	}
	return meta
}

// SetStatus moves an existing record through the workflow
func (s *translationService) SetStatus(ctx context.Context, req *manualSvc.SetTranslationStatusRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Entity, validation.Required, validation.In(manualSvc.EntityDocument, manualSvc.EntitySection, manualSvc.EntityModule)),
		validation.Field(&req.EntityID, validation.Required),
		validation.Field(&req.LanguageID, validation.Required),
		validation.Field(&req.Status, validation.Required, validation.In(translationStatusValues()...)),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	apply := func(meta *models.TranslationMeta) {
		meta.Status = req.Status
		if req.Status == models.TranslationApproved && req.UserID != "" {
			meta.ReviewerID = &req.UserID
		}
	}

	switch req.Entity {
	case manualSvc.EntityDocument:
		tr, err := s.GetDocumentTranslation(ctx, req.EntityID, req.LanguageID)
		if err != nil {
			return err
		}
		apply(&tr.TranslationMeta)
		if err := s.trRepo.UpsertDocument(ctx, tr); err != nil {
			return err
		}
	case manualSvc.EntitySection:
		tr, err := s.GetSectionTranslation(ctx, req.EntityID, req.LanguageID)
		if err != nil {
			return err
		}
		apply(&tr.TranslationMeta)
		if err := s.trRepo.UpsertSection(ctx, tr); err != nil {
			return err
		}
	case manualSvc.EntityModule:
		tr, err := s.GetModuleTranslation(ctx, req.EntityID, req.LanguageID)
		if err != nil {
			return err
		}
		apply(&tr.TranslationMeta)
		if err := s.trRepo.UpsertModule(ctx, tr); err != nil {
			return err
		}
	}

	s.logger.Info("translation status changed",
		"entity", req.Entity,
		"entity_id", req.EntityID,
		"language_id", req.LanguageID,
		"status", req.Status,
	)

	return nil
}

// GetProgress counts sections and modules per status; untranslated
// entities count as not_translated
func (s *translationService) GetProgress(ctx context.Context, documentID, languageID int64) (*models.TranslationProgress, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	if _, err := s.langRepo.GetByID(ctx, languageID); err != nil {
		return nil, err
	}

	sections, err := s.sectionRepo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	modules, err := s.moduleRepo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	sectionTrs, err := s.trRepo.ListSectionsByDocument(ctx, documentID, languageID)
	if err != nil {
		return nil, err
	}
	moduleTrs, err := s.trRepo.ListModulesByDocument(ctx, documentID, languageID)
	if err != nil {
		return nil, err
	}
	set := models.NewTranslationSet(languageID, nil, sectionTrs, moduleTrs)

	progress := &models.TranslationProgress{
		DocumentID: documentID,
		LanguageID: languageID,
		Sections:   newStatusCount(),
		Modules:    newStatusCount(),
	}
	for _, section := range sections {
		status := models.TranslationNotTranslated
		if tr := set.Section(section.ID); tr != nil {
			status = tr.Status
		}
		progress.Sections[status]++
	}
	for _, list := range modules {
		for _, m := range list {
			status := models.TranslationNotTranslated
			if tr := set.Module(m.ID); tr != nil {
				status = tr.Status
			}
			progress.Modules[status]++
		}
	}

	return progress, nil
}

func newStatusCount() models.StatusCount {
	counts := make(models.StatusCount, len(models.TranslationStatuses))
	for _, st := range models.TranslationStatuses {
		counts[st] = 0
	}
	return counts
}

func translationStatusValues() []interface{} {
	values := make([]interface{}, len(models.TranslationStatuses))
	for i, st := range models.TranslationStatuses {
		values[i] = st
	}
	return values
}

// SuggestSection machine-translates a section's title and description
func (s *translationService) SuggestSection(ctx context.Context, req *manualSvc.SuggestRequest) (*models.SectionTranslation, error) {
	section, err := s.sectionRepo.GetByID(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}

	slots := []textSlot{
		{text: section.Title},
		{text: section.Description},
	}
	if err := s.translateSlots(ctx, "section", req.LanguageID, slots); err != nil {
		return nil, err
	}

	title, description := slots[0].result, slots[1].result
	tr := &models.SectionTranslation{
		SectionID:       section.ID,
		Title:           &title,
		Description:     &description,
		TranslationMeta: s.suggestedMeta(req),
	}
	if err := s.trRepo.UpsertSection(ctx, tr); err != nil {
		return nil, err
	}

	s.logger.Info("section translation suggested", "section_id", section.ID, "language_id", req.LanguageID)

	return tr, nil
}

// SuggestModule machine-translates the text fields of a module. Types whose
// payload is not interpreted are copied unchanged.
func (s *translationService) SuggestModule(ctx context.Context, req *manualSvc.SuggestRequest) (*models.ModuleTranslation, error) {
	module, err := s.moduleRepo.GetByID(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}

	content, err := models.ParseContent(module.Type, module.Content)
	if err != nil {
		return nil, &domain.FieldError{Field: "content", Message: "module content is not valid JSON"}
	}

	slots, apply := collectSlots(content)
	if err := s.translateSlots(ctx, "module", req.LanguageID, slots); err != nil {
		return nil, err
	}
	apply(slots)

	encoded, err := models.MarshalContent(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode suggestion: %w", err)
	}

	tr := &models.ModuleTranslation{
		ModuleID:        module.ID,
		Content:         encoded,
		TranslationMeta: s.suggestedMeta(req),
	}
	if err := s.trRepo.UpsertModule(ctx, tr); err != nil {
		return nil, err
	}

	s.logger.Info("module translation suggested",
		"module_id", module.ID,
		"type", module.Type,
		"language_id", req.LanguageID,
		"strings", len(slots),
	)

	return tr, nil
}

func (s *translationService) suggestedMeta(req *manualSvc.SuggestRequest) models.TranslationMeta {
	meta := models.TranslationMeta{LanguageID: req.LanguageID, Status: models.TranslationAISuggested}
	if req.UserID != "" {
		meta.TranslatorID = &req.UserID
	}
	return meta
}

// translateSlots sends the non-empty slot texts to the translator in batches
// of at most MaxTranslateBatch and fills in each slot's result; empty texts
// stay empty.
func (s *translationService) translateSlots(ctx context.Context, entity string, languageID int64, slots []textSlot) error {
	if s.translator == nil {
		return fmt.Errorf("machine translation is not configured: %w", domain.ErrUnavailable)
	}
	if languageID == 0 {
		return &domain.FieldError{Field: "language_id", Message: "cannot be blank"}
	}
	target, err := s.langRepo.GetByID(ctx, languageID)
	if err != nil {
		return err
	}

	source := ""
	languages, err := s.langRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range languages {
		if l.IsDefault {
			source = l.Code
			break
		}
	}

	var texts []string
	var index []int
	for i := range slots {
		if slots[i].text != "" {
			texts = append(texts, slots[i].text)
			index = append(index, i)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	translated := make([]string, 0, len(texts))
	for start := 0; start < len(texts); start += config.MaxTranslateBatch {
		end := min(start+config.MaxTranslateBatch, len(texts))
		batch, err := s.translator.Translate(ctx, &manualSvc.TranslateRequest{
			SourceLanguage: source,
			TargetLanguage: target.Code,
			Texts:          texts[start:end],
		})
		if err != nil {
			metrics.TranslationSuggestionsTotal.WithLabelValues(entity, "error").Inc()
			return err
		}
		if len(batch) != end-start {
			metrics.TranslationSuggestionsTotal.WithLabelValues(entity, "error").Inc()
			return fmt.Errorf("translator returned %d strings for %d inputs", len(batch), end-start)
		}
		translated = append(translated, batch...)
	}
	metrics.TranslationSuggestionsTotal.WithLabelValues(entity, "success").Inc()

	for i, slotIndex := range index {
		slots[slotIndex].result = translated[i]
	}
	return nil
}

package manual

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"manuals/internal/config"
	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualRepo "manuals/internal/domain/repositories/manual"
	manualSvc "manuals/internal/domain/services/manual"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo       manualRepo.DocumentRepository
	sectionRepo   manualRepo.SectionRepository
	moduleRepo    manualRepo.ModuleRepository
	componentRepo manualRepo.ComponentRepository
	logger        *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo manualRepo.DocumentRepository,
	sectionRepo manualRepo.SectionRepository,
	moduleRepo manualRepo.ModuleRepository,
	componentRepo manualRepo.ComponentRepository,
	logger *slog.Logger,
) manualSvc.DocumentService {
	return &documentService{
		docRepo:       docRepo,
		sectionRepo:   sectionRepo,
		moduleRepo:    moduleRepo,
		componentRepo: componentRepo,
		logger:        logger,
	}
}

// CreateDocument creates a draft document
func (s *documentService) CreateDocument(ctx context.Context, req *manualSvc.CreateDocumentRequest) (*models.Document, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Version = strings.TrimSpace(req.Version)
	if req.Version == "" {
		req.Version = "1.0"
	}

	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Version, validation.Length(1, config.MaxVersionLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc := &models.Document{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.DocumentStatusDraft,
		Version:     req.Version,
	}
	if req.UserID != "" {
		doc.CreatedBy = &req.UserID
		doc.UpdatedBy = &req.UserID
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"version", doc.Version,
	)

	return doc, nil
}

// GetDocument retrieves a document
func (s *documentService) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// ListDocuments lists documents, optionally filtered by status
func (s *documentService) ListDocuments(ctx context.Context, status *models.DocumentStatus) ([]models.Document, error) {
	if status != nil {
		if err := validation.Validate(*status, validation.In(statusValues()...)); err != nil {
			return nil, fmt.Errorf("%w: status: %v", domain.ErrValidation, err)
		}
	}
	return s.docRepo.List(ctx, status)
}

// UpdateDocument applies a partial update
func (s *documentService) UpdateDocument(ctx context.Context, id int64, req *manualSvc.UpdateDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Version, validation.NilOrNotEmpty, validation.Length(1, config.MaxVersionLength)),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(statusValues()...)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		doc.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.Version != nil {
		doc.Version = strings.TrimSpace(*req.Version)
	}
	if req.Status != nil {
		if !doc.Status.CanTransitionTo(*req.Status) {
			return nil, &domain.FieldError{
				Field:   "status",
				Message: fmt.Sprintf("cannot change status from %s to %s", doc.Status, *req.Status),
			}
		}
		doc.Status = *req.Status
	}
	if req.UserID != "" {
		doc.UpdatedBy = &req.UserID
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		"id", doc.ID,
		"status", doc.Status,
		"version", doc.Version,
	)

	return doc, nil
}

// DeleteDocument deletes a document with its sections and modules
func (s *documentService) DeleteDocument(ctx context.Context, id int64) error {
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id)

	return nil
}

// GetTree loads the whole document and nests it
func (s *documentService) GetTree(ctx context.Context, id int64) (*models.DocumentTree, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sections, err := s.sectionRepo.ListByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.ListByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	components, err := s.componentRepo.ListByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	tree := models.NewDocumentTree(*doc, sections, modules, components)

	s.logger.Debug("document tree built",
		"document_id", id,
		"section_count", len(sections),
	)

	return tree, nil
}

func statusValues() []interface{} {
	values := make([]interface{}, len(models.DocumentStatuses))
	for i, st := range models.DocumentStatuses {
		values[i] = st
	}
	return values
}

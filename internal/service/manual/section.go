package manual

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"manuals/internal/config"
	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	"manuals/internal/domain/repositories"
	manualRepo "manuals/internal/domain/repositories/manual"
	manualSvc "manuals/internal/domain/services/manual"
)

// sectionService implements the SectionService interface
type sectionService struct {
	docRepo       manualRepo.DocumentRepository
	sectionRepo   manualRepo.SectionRepository
	moduleRepo    manualRepo.ModuleRepository
	componentRepo manualRepo.ComponentRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewSectionService creates a new section service
func NewSectionService(
	docRepo manualRepo.DocumentRepository,
	sectionRepo manualRepo.SectionRepository,
	moduleRepo manualRepo.ModuleRepository,
	componentRepo manualRepo.ComponentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) manualSvc.SectionService {
	return &sectionService{
		docRepo:       docRepo,
		sectionRepo:   sectionRepo,
		moduleRepo:    moduleRepo,
		componentRepo: componentRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// CreateSection creates a section under a parent of the same document
func (s *sectionService) CreateSection(ctx context.Context, req *manualSvc.CreateSectionRequest) (*models.Section, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Order, validation.Min(0)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.docRepo.GetByID(ctx, req.DocumentID); err != nil {
		return nil, err
	}
	if err := s.validateParent(ctx, req.DocumentID, req.ParentID, 0); err != nil {
		return nil, err
	}
	order, err := s.resolveOrder(ctx, req.DocumentID, req.ParentID, req.Order, 0)
	if err != nil {
		return nil, err
	}

	section := &models.Section{
		DocumentID:  req.DocumentID,
		Title:       req.Title,
		Description: req.Description,
		Order:       order,
		ParentID:    req.ParentID,
		IsModule:    req.IsModule,
	}
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}

	s.logger.Info("section created",
		"id", section.ID,
		"document_id", section.DocumentID,
		"parent_id", section.ParentID,
		"order", section.Order,
	)

	return section, nil
}

// GetSection retrieves a section
func (s *sectionService) GetSection(ctx context.Context, id int64) (*models.Section, error) {
	return s.sectionRepo.GetByID(ctx, id)
}

// UpdateSection applies a partial update
func (s *sectionService) UpdateSection(ctx context.Context, id int64, req *manualSvc.UpdateSectionRequest) (*models.Section, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxTitleLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		section.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		section.Description = *req.Description
	}
	if req.IsModule != nil {
		section.IsModule = *req.IsModule
	}

	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}

	s.logger.Info("section updated", "id", section.ID, "document_id", section.DocumentID)

	return section, nil
}

// MoveSection re-parents and re-orders a section
func (s *sectionService) MoveSection(ctx context.Context, id int64, req *manualSvc.MoveSectionRequest) (*models.Section, error) {
	if req.Order < 0 {
		return nil, &domain.FieldError{Field: "order", Message: "must be no less than 0"}
	}

	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateParent(ctx, section.DocumentID, req.ParentID, id); err != nil {
		return nil, err
	}
	order, err := s.resolveOrder(ctx, section.DocumentID, req.ParentID, &req.Order, id)
	if err != nil {
		return nil, err
	}

	section.ParentID = req.ParentID
	section.Order = order
	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}

	s.logger.Info("section moved",
		"id", section.ID,
		"parent_id", section.ParentID,
		"order", section.Order,
	)

	return section, nil
}

// DeleteSection deletes a section; children, modules and links cascade
func (s *sectionService) DeleteSection(ctx context.Context, id int64) error {
	if err := s.sectionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("section deleted", "id", id)

	return nil
}

// ListLibrary lists reusable sections
func (s *sectionService) ListLibrary(ctx context.Context) ([]models.Section, error) {
	return s.sectionRepo.ListLibrary(ctx)
}

// CopyLibrarySection copies a library section, its subsections, modules and
// component links into a document in one transaction
func (s *sectionService) CopyLibrarySection(ctx context.Context, req *manualSvc.CopySectionRequest) (*models.Section, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.LibrarySectionID, validation.Required),
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.Order, validation.Min(0)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	source, err := s.sectionRepo.GetByID(ctx, req.LibrarySectionID)
	if err != nil {
		return nil, err
	}
	if !source.IsModule {
		return nil, &domain.FieldError{Field: "library_section_id", Message: "section is not a library entry"}
	}
	if _, err := s.docRepo.GetByID(ctx, req.DocumentID); err != nil {
		return nil, err
	}
	if err := s.validateParent(ctx, req.DocumentID, req.ParentID, 0); err != nil {
		return nil, err
	}
	order, err := s.resolveOrder(ctx, req.DocumentID, req.ParentID, req.Order, 0)
	if err != nil {
		return nil, err
	}

	var root *models.Section
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		copied, err := s.copySubtree(txCtx, source, req.DocumentID, req.ParentID, order)
		if err != nil {
			return err
		}
		root = copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("library section copied",
		"source_id", source.ID,
		"id", root.ID,
		"document_id", root.DocumentID,
	)

	return root, nil
}

func (s *sectionService) copySubtree(ctx context.Context, source *models.Section, documentID int64, parentID *int64, order int) (*models.Section, error) {
	copied := &models.Section{
		DocumentID:  documentID,
		Title:       source.Title,
		Description: source.Description,
		Order:       order,
		ParentID:    parentID,
	}
	if err := s.sectionRepo.Create(ctx, copied); err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.ListBySection(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range modules {
		clone := m.Clone()
		clone.ID = 0
		clone.SectionID = copied.ID
		if err := s.moduleRepo.Create(ctx, &clone); err != nil {
			return nil, err
		}
	}

	links, err := s.componentRepo.ListBySection(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		link.SectionID = copied.ID
		if err := s.componentRepo.Attach(ctx, &link); err != nil {
			return nil, err
		}
	}

	children, err := s.sectionRepo.ListChildren(ctx, source.DocumentID, &source.ID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if _, err := s.copySubtree(ctx, &child, documentID, &copied.ID, child.Order); err != nil {
			return nil, err
		}
	}

	return copied, nil
}

// validateParent checks that parentID is in documentID and, when moving
// section self, that it is not self or one of its descendants.
func (s *sectionService) validateParent(ctx context.Context, documentID int64, parentID *int64, self int64) error {
	if parentID == nil {
		return nil
	}

	current, err := s.sectionRepo.GetByID(ctx, *parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.FieldError{Field: "parent_id", Message: fmt.Sprintf("section %d does not exist", *parentID)}
		}
		return err
	}
	if current.DocumentID != documentID {
		return &domain.FieldError{Field: "parent_id", Message: "parent section belongs to another document"}
	}

	if self == 0 {
		return nil
	}
	for {
		if current.ID == self {
			return &domain.FieldError{Field: "parent_id", Message: "a section cannot be moved under itself"}
		}
		if current.ParentID == nil {
			return nil
		}
		current, err = s.sectionRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return err
		}
	}
}

// resolveOrder returns the requested order if no other sibling uses it, or
// the next free position when none was requested.
func (s *sectionService) resolveOrder(ctx context.Context, documentID int64, parentID *int64, requested *int, self int64) (int, error) {
	siblings, err := s.sectionRepo.ListChildren(ctx, documentID, parentID)
	if err != nil {
		return 0, err
	}

	if requested == nil {
		next := 0
		for _, sib := range siblings {
			if sib.ID != self && sib.Order >= next {
				next = sib.Order + 1
			}
		}
		return next, nil
	}

	for _, sib := range siblings {
		if sib.ID != self && sib.Order == *requested {
			return 0, &domain.FieldError{
				Field:   "order",
				Message: fmt.Sprintf("order %d is already used by section %d", *requested, sib.ID),
			}
		}
	}
	return *requested, nil
}

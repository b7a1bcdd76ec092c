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

// componentService implements the ComponentService interface
type componentService struct {
	componentRepo manualRepo.ComponentRepository
	sectionRepo   manualRepo.SectionRepository
	logger        *slog.Logger
}

// NewComponentService creates a new component service
func NewComponentService(
	componentRepo manualRepo.ComponentRepository,
	sectionRepo manualRepo.SectionRepository,
	logger *slog.Logger,
) manualSvc.ComponentService {
	return &componentService{
		componentRepo: componentRepo,
		sectionRepo:   sectionRepo,
		logger:        logger,
	}
}

// CreateComponent registers a part; codes are unique
func (s *componentService) CreateComponent(ctx context.Context, req *manualSvc.CreateComponentRequest) (*models.Component, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Description = strings.TrimSpace(req.Description)

	if err := validation.ValidateStruct(req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, config.MaxComponentCodeLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	details := req.Details
	if details == nil {
		details = map[string]any{}
	}

	component := &models.Component{
		Code:        req.Code,
		Description: req.Description,
		Details:     details,
	}
	if err := s.componentRepo.Create(ctx, component); err != nil {
		return nil, err
	}

	s.logger.Info("component created", "id", component.ID, "code", component.Code)

	return component, nil
}

func (s *componentService) GetComponentByCode(ctx context.Context, code string) (*models.Component, error) {
	return s.componentRepo.GetByCode(ctx, strings.TrimSpace(code))
}

// SearchComponents clamps limit to [1, MaxSearchLimit]
func (s *componentService) SearchComponents(ctx context.Context, prefix string, limit int) ([]models.Component, error) {
	if limit <= 0 {
		limit = config.DefaultSearchLimit
	}
	if limit > config.MaxSearchLimit {
		limit = config.MaxSearchLimit
	}
	return s.componentRepo.Search(ctx, strings.TrimSpace(prefix), limit)
}

// AttachComponent links a component to a section, replacing an existing link
func (s *componentService) AttachComponent(ctx context.Context, req *manualSvc.AttachComponentRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.SectionID, validation.Required),
		validation.Field(&req.ComponentID, validation.Required),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.sectionRepo.GetByID(ctx, req.SectionID); err != nil {
		return err
	}
	if _, err := s.componentRepo.GetByID(ctx, req.ComponentID); err != nil {
		return err
	}

	link := &models.SectionComponent{
		SectionID:   req.SectionID,
		ComponentID: req.ComponentID,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
	}
	if err := s.componentRepo.Attach(ctx, link); err != nil {
		return err
	}

	s.logger.Info("component attached",
		"section_id", req.SectionID,
		"component_id", req.ComponentID,
		"quantity", req.Quantity,
	)

	return nil
}

func (s *componentService) DetachComponent(ctx context.Context, sectionID, componentID int64) error {
	if err := s.componentRepo.Detach(ctx, sectionID, componentID); err != nil {
		return err
	}

	s.logger.Info("component detached", "section_id", sectionID, "component_id", componentID)

	return nil
}

func (s *componentService) ListSectionComponents(ctx context.Context, sectionID int64) ([]models.SectionComponent, error) {
	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		return nil, err
	}
	return s.componentRepo.ListBySection(ctx, sectionID)
}

package manual

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"manuals/internal/config"
	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	"manuals/internal/domain/repositories"
	manualRepo "manuals/internal/domain/repositories/manual"
	manualSvc "manuals/internal/domain/services/manual"
)

// moduleService implements the ModuleService interface
type moduleService struct {
	sectionRepo manualRepo.SectionRepository
	moduleRepo  manualRepo.ModuleRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewModuleService creates a new module service
func NewModuleService(
	sectionRepo manualRepo.SectionRepository,
	moduleRepo manualRepo.ModuleRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) manualSvc.ModuleService {
	return &moduleService{
		sectionRepo: sectionRepo,
		moduleRepo:  moduleRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateModule appends (or inserts at Order) a module in a section
func (s *moduleService) CreateModule(ctx context.Context, req *manualSvc.CreateModuleRequest) (*models.ContentModule, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.SectionID, validation.Required),
		validation.Field(&req.Type, validation.Required, validation.By(knownModuleType)),
		validation.Field(&req.Order, validation.Min(0)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	if _, err := s.sectionRepo.GetByID(ctx, req.SectionID); err != nil {
		return nil, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else {
		existing, err := s.moduleRepo.ListBySection(ctx, req.SectionID)
		if err != nil {
			return nil, err
		}
		for _, m := range existing {
			if m.Order >= order {
				order = m.Order + 1
			}
		}
	}

	module := &models.ContentModule{
		SectionID: req.SectionID,
		Type:      req.Type,
		Content:   content,
		Order:     order,
	}
	if err := s.moduleRepo.Create(ctx, module); err != nil {
		return nil, err
	}

	s.logger.Info("module created",
		"id", module.ID,
		"section_id", module.SectionID,
		"type", module.Type,
		"order", module.Order,
	)

	return module, nil
}

// GetModule retrieves a module
func (s *moduleService) GetModule(ctx context.Context, id int64) (*models.ContentModule, error) {
	return s.moduleRepo.GetByID(ctx, id)
}

// ListModules lists a section's modules in order
func (s *moduleService) ListModules(ctx context.Context, sectionID int64) ([]models.ContentModule, error) {
	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		return nil, err
	}
	return s.moduleRepo.ListBySection(ctx, sectionID)
}

// UpdateModule changes type and/or content
func (s *moduleService) UpdateModule(ctx context.Context, id int64, req *manualSvc.UpdateModuleRequest) (*models.ContentModule, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Type, validation.NilOrNotEmpty, validation.By(knownModuleType)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	module, err := s.moduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		module.Type = *req.Type
	}
	if req.Content != nil {
		content, err := validateContent(req.Content)
		if err != nil {
			return nil, err
		}
		module.Content = content
	}

	if err := s.moduleRepo.Update(ctx, module); err != nil {
		return nil, err
	}

	s.logger.Info("module updated", "id", module.ID, "type", module.Type)

	return module, nil
}

// DeleteModule deletes a module and its translations
func (s *moduleService) DeleteModule(ctx context.Context, id int64) error {
	if err := s.moduleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("module deleted", "id", id)

	return nil
}

// ReorderModules sets orders 0..n-1 following ids, atomically
func (s *moduleService) ReorderModules(ctx context.Context, sectionID int64, ids []int64) ([]models.ContentModule, error) {
	existing, err := s.moduleRepo.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.ContentModule, len(existing))
	for _, m := range existing {
		byID[m.ID] = m
	}
	if len(ids) != len(existing) {
		return nil, &domain.FieldError{
			Field:   "ids",
			Message: fmt.Sprintf("expected %d module ids, got %d", len(existing), len(ids)),
		}
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, &domain.FieldError{Field: "ids", Message: fmt.Sprintf("module %d is not in section %d", id, sectionID)}
		}
		if seen[id] {
			return nil, &domain.FieldError{Field: "ids", Message: fmt.Sprintf("module %d listed twice", id)}
		}
		seen[id] = true
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for i, id := range ids {
			if byID[id].Order == i {
				continue
			}
			if err := s.moduleRepo.SetOrder(txCtx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ordered := make([]models.ContentModule, len(ids))
	for i, id := range ids {
		m := byID[id]
		m.Order = i
		ordered[i] = m
	}

	s.logger.Info("modules reordered", "section_id", sectionID, "count", len(ids))

	return ordered, nil
}

func knownModuleType(value interface{}) error {
	var t models.ModuleType
	switch v := value.(type) {
	case models.ModuleType:
		t = v
	case *models.ModuleType:
		if v == nil {
			return nil
		}
		t = *v
	default:
		return fmt.Errorf("unsupported type %T", value)
	}
	if !t.IsKnown() {
		return fmt.Errorf("unknown module type %q", t)
	}
	return nil
}

// validateContent requires a JSON object (or nothing, stored as {}).
func validateContent(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) > config.MaxModuleContentBytes {
		return nil, &domain.FieldError{Field: "content", Message: "content is too large"}
	}
	if _, err := models.ParseFields(raw); err != nil {
		return nil, &domain.FieldError{Field: "content", Message: "content must be a JSON object"}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return json.RawMessage("{}"), nil
	}
	return trimmed, nil
}

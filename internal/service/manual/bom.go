package manual

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"manuals/internal/config"
	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualRepo "manuals/internal/domain/repositories/manual"
	manualSvc "manuals/internal/domain/services/manual"
)

// bomService implements the BomService interface
type bomService struct {
	bomRepo       manualRepo.BomRepository
	componentRepo manualRepo.ComponentRepository
	logger        *slog.Logger
}

// NewBomService creates a new BOM service
func NewBomService(
	bomRepo manualRepo.BomRepository,
	componentRepo manualRepo.ComponentRepository,
	logger *slog.Logger,
) manualSvc.BomService {
	return &bomService{
		bomRepo:       bomRepo,
		componentRepo: componentRepo,
		logger:        logger,
	}
}

// CreateBom resolves item codes to components; a code may appear once
func (s *bomService) CreateBom(ctx context.Context, req *manualSvc.CreateBomRequest) (*models.Bom, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Version = strings.TrimSpace(req.Version)

	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Version, validation.Required, validation.Length(1, config.MaxVersionLength)),
		validation.Field(&req.Items, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	seen := make(map[string]bool, len(req.Items))
	items := make([]models.BomItem, 0, len(req.Items))
	for i, item := range req.Items {
		code := strings.TrimSpace(item.Code)
		if code == "" {
			return nil, &domain.FieldError{Field: fmt.Sprintf("items[%d].code", i), Message: "cannot be blank"}
		}
		if item.Quantity <= 0 {
			return nil, &domain.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be greater than zero"}
		}
		if seen[code] {
			return nil, &domain.FieldError{Field: fmt.Sprintf("items[%d].code", i), Message: "duplicate component " + code}
		}
		seen[code] = true

		component, err := s.componentRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		items = append(items, models.BomItem{
			ComponentID: component.ID,
			Quantity:    item.Quantity,
			Order:       i,
			Component:   *component,
		})
	}

	bom := &models.Bom{
		Name:    req.Name,
		Version: req.Version,
		Items:   items,
	}
	if err := s.bomRepo.Create(ctx, bom); err != nil {
		return nil, err
	}

	s.logger.Info("bom created", "id", bom.ID, "name", bom.Name, "version", bom.Version, "items", len(items))

	return bom, nil
}

func (s *bomService) GetBom(ctx context.Context, id int64) (*models.Bom, error) {
	return s.bomRepo.GetByID(ctx, id)
}

func (s *bomService) ListBoms(ctx context.Context) ([]models.Bom, error) {
	return s.bomRepo.List(ctx)
}

// CompareBoms loads both BOMs and diffs them with CompareBomItems
func (s *bomService) CompareBoms(ctx context.Context, baseID, targetID int64) (*models.BomComparison, error) {
	base, err := s.bomRepo.GetByID(ctx, baseID)
	if err != nil {
		return nil, err
	}
	target, err := s.bomRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	cmp := CompareBomItems(base.Items, target.Items)
	cmp.BaseID = baseID
	cmp.TargetID = targetID
	return cmp, nil
}

// CompareBomItems diffs two item lists by component code. Quantities of a
// code listed more than once are summed. Entries are sorted by code.
func CompareBomItems(base, target []models.BomItem) *models.BomComparison {
	type line struct {
		description string
		quantity    int
	}
	index := func(items []models.BomItem) map[string]*line {
		out := make(map[string]*line, len(items))
		for _, item := range items {
			l, ok := out[item.Component.Code]
			if !ok {
				l = &line{description: item.Component.Description}
				out[item.Component.Code] = l
			}
			l.quantity += item.Quantity
		}
		return out
	}
	before, after := index(base), index(target)

	cmp := &models.BomComparison{Entries: []models.BomDiffEntry{}}
	for code, old := range before {
		now, ok := after[code]
		switch {
		case !ok:
			cmp.Entries = append(cmp.Entries, models.BomDiffEntry{
				Code: code, Description: old.description, Kind: models.BomDiffRemoved, OldQuantity: old.quantity,
			})
		case now.quantity != old.quantity:
			cmp.Entries = append(cmp.Entries, models.BomDiffEntry{
				Code: code, Description: now.description, Kind: models.BomDiffChanged,
				OldQuantity: old.quantity, NewQuantity: now.quantity,
			})
		default:
			cmp.Unchanged++
		}
	}
	for code, now := range after {
		if _, ok := before[code]; !ok {
			cmp.Entries = append(cmp.Entries, models.BomDiffEntry{
				Code: code, Description: now.description, Kind: models.BomDiffAdded, NewQuantity: now.quantity,
			})
		}
	}

	sort.Slice(cmp.Entries, func(i, j int) bool {
		return cmp.Entries[i].Code < cmp.Entries[j].Code
	})
	return cmp
}

package manual

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"manuals/internal/config"
	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	"manuals/internal/domain/repositories"
	manualRepo "manuals/internal/domain/repositories/manual"
	manualSvc "manuals/internal/domain/services/manual"
)

// languageService implements the LanguageService interface
type languageService struct {
	langRepo  manualRepo.LanguageRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewLanguageService creates a new language service
func NewLanguageService(
	langRepo manualRepo.LanguageRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) manualSvc.LanguageService {
	return &languageService{
		langRepo:  langRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// CanonicalCode validates a BCP 47 tag and returns its canonical form
// ("EN_gb" → "en-GB").
func CanonicalCode(code string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return "", &domain.FieldError{Field: "code", Message: fmt.Sprintf("invalid language code %q", code)}
	}
	return tag.String(), nil
}

// CreateLanguage creates a language; the name defaults to the language's own name
func (s *languageService) CreateLanguage(ctx context.Context, req *manualSvc.CreateLanguageRequest) (*models.Language, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Code, validation.Required),
		validation.Field(&req.Name, validation.Length(0, config.MaxLanguageNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.IsDefault && !req.IsActive {
		return nil, &domain.FieldError{Field: "is_active", Message: "the default language must be active"}
	}

	code, err := CanonicalCode(req.Code)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = display.Self.Name(language.MustParse(code))
	}

	lang := &models.Language{
		Code:      code,
		Name:      name,
		IsActive:  req.IsActive,
		IsDefault: req.IsDefault,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.langRepo.Create(txCtx, lang); err != nil {
			return err
		}
		if lang.IsDefault {
			return s.langRepo.ClearDefault(txCtx, lang.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("language created",
		"id", lang.ID,
		"code", lang.Code,
		"is_default", lang.IsDefault,
	)

	return lang, nil
}

// GetLanguage retrieves a language
func (s *languageService) GetLanguage(ctx context.Context, id int64) (*models.Language, error) {
	return s.langRepo.GetByID(ctx, id)
}

// ListLanguages lists languages, default first
func (s *languageService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	return s.langRepo.List(ctx)
}

// UpdateLanguage changes name and flags. Making a language the default
// clears the flag on every other language in the same transaction.
func (s *languageService) UpdateLanguage(ctx context.Context, id int64, req *manualSvc.UpdateLanguageRequest) (*models.Language, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxLanguageNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var lang *models.Language
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		current, err := s.langRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			current.Name = strings.TrimSpace(*req.Name)
		}
		if req.IsActive != nil {
			current.IsActive = *req.IsActive
		}
		if req.IsDefault != nil {
			current.IsDefault = *req.IsDefault
		}
		if current.IsDefault && !current.IsActive {
			return &domain.FieldError{Field: "is_active", Message: "the default language must be active"}
		}

		if err := s.langRepo.Update(txCtx, current); err != nil {
			return err
		}
		if current.IsDefault {
			if err := s.langRepo.ClearDefault(txCtx, current.ID); err != nil {
				return err
			}
		}
		lang = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("language updated",
		"id", lang.ID,
		"is_active", lang.IsActive,
		"is_default", lang.IsDefault,
	)

	return lang, nil
}

package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualRepo "manuals/internal/domain/repositories/manual"
	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/metrics"
	"manuals/internal/service/export/postprocess"
)

// Repositories groups the stores an export reads from
type Repositories struct {
	Documents    manualRepo.DocumentRepository
	Sections     manualRepo.SectionRepository
	Modules      manualRepo.ModuleRepository
	Components   manualRepo.ComponentRepository
	Languages    manualRepo.LanguageRepository
	Translations manualRepo.TranslationRepository
}

// exportService implements the ExportService interface:
// load snapshot → resolve → render → post-process → package.
type exportService struct {
	repos     Repositories
	resolver  *Resolver
	renderer  *Renderer
	processor *postprocess.Processor
	packager  *Packager
	markdown  *MarkdownConverter
	store     manualSvc.ExportStore
	logger    *slog.Logger
}

// NewService creates the export service. store may be nil, in which case
// Archive reports the service as unavailable.
func NewService(
	repos Repositories,
	processor *postprocess.Processor,
	packager *Packager,
	store manualSvc.ExportStore,
	logger *slog.Logger,
) (manualSvc.ExportService, error) {
	renderer, err := NewRenderer(logger)
	if err != nil {
		return nil, err
	}
	return &exportService{
		repos:     repos,
		resolver:  NewResolver(logger),
		renderer:  renderer,
		processor: processor,
		packager:  packager,
		markdown:  NewMarkdownConverter(packager),
		store:     store,
		logger:    logger,
	}, nil
}

// Export renders the document in the requested language and format
func (s *exportService) Export(ctx context.Context, req *manualSvc.ExportRequest) (*manualSvc.ExportResult, error) {
	if req.Format == "" {
		req.Format = manualSvc.FormatHTML
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Format, validation.In(manualSvc.FormatHTML, manualSvc.FormatMarkdown)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	start := time.Now()
	result, err := s.build(ctx, req)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ExportsTotal.WithLabelValues(string(req.Format), status).Inc()
	metrics.ExportDuration.WithLabelValues(string(req.Format)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	s.logger.Info("document exported",
		"document_id", req.DocumentID,
		"language_id", req.LanguageID,
		"format", req.Format,
		"file_name", result.FileName,
		"bytes", len(result.Body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Archive exports and stores the file under exports/<document>/<uuid>/<file>
func (s *exportService) Archive(ctx context.Context, req *manualSvc.ExportRequest) (*manualSvc.ArchivedExport, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no export store configured", domain.ErrUnavailable)
	}

	result, err := s.Export(ctx, req)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%d/%s/%s", req.DocumentID, uuid.NewString(), result.FileName)
	location, err := s.store.Put(ctx, key, result.ContentType, result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	s.logger.Info("export archived", "document_id", req.DocumentID, "key", key, "location", location)

	return &manualSvc.ArchivedExport{
		Key:      key,
		FileName: result.FileName,
		Location: location,
		Size:     len(result.Body),
	}, nil
}

func (s *exportService) build(ctx context.Context, req *manualSvc.ExportRequest) (*manualSvc.ExportResult, error) {
	doc, err := s.repos.Documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	sections, err := s.repos.Sections.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	modules, err := s.repos.Modules.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	components, err := s.repos.Components.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	input := &ResolveInput{Document: *doc, Sections: sections, Modules: modules}
	langCode := ""
	if req.LanguageID != nil {
		lang, err := s.repos.Languages.GetByID(ctx, *req.LanguageID)
		if err != nil {
			return nil, err
		}
		langCode = lang.Code
		input.Translations, err = s.loadTranslations(ctx, doc.ID, lang.ID)
		if err != nil {
			return nil, err
		}
	}

	resolved := s.resolver.Resolve(input, req.LanguageID)

	fragment, err := s.renderer.Render(resolved, components)
	if err != nil {
		return nil, err
	}
	fragment = s.processor.Process(fragment)

	page := Page{
		Title:       resolved.Document.Title,
		Description: resolved.Document.Description,
		Version:     resolved.Document.Version,
		Lang:        langCode,
		Body:        fragment,
	}

	// File names identify the source document, whatever the language
	switch req.Format {
	case manualSvc.FormatMarkdown:
		body, err := s.markdown.Convert(page)
		if err != nil {
			return nil, err
		}
		return &manualSvc.ExportResult{
			FileName:    FileName(doc.Title, doc.Version, langCode, "md"),
			ContentType: "text/markdown; charset=utf-8",
			Body:        []byte(body),
		}, nil
	default:
		body, err := s.packager.Package(page)
		if err != nil {
			return nil, err
		}
		return &manualSvc.ExportResult{
			FileName:    FileName(doc.Title, doc.Version, langCode, "html"),
			ContentType: "text/html; charset=utf-8",
			Body:        []byte(body),
		}, nil
	}
}

func (s *exportService) loadTranslations(ctx context.Context, documentID, languageID int64) (*models.TranslationSet, error) {
	docTr, err := s.repos.Translations.GetDocument(ctx, documentID, languageID)
	if err != nil {
		return nil, err
	}
	sectionTrs, err := s.repos.Translations.ListSectionsByDocument(ctx, documentID, languageID)
	if err != nil {
		return nil, err
	}
	moduleTrs, err := s.repos.Translations.ListModulesByDocument(ctx, documentID, languageID)
	if err != nil {
		return nil, err
	}
	return models.NewTranslationSet(languageID, docTr, sectionTrs, moduleTrs), nil
}

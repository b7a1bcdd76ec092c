package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/service/export/postprocess"
)

// snapshotRepo serves one document from memory and implements every
// repository the export reads from.
type snapshotRepo struct {
	doc         models.Document
	sections    []models.Section
	modules     map[int64][]models.ContentModule
	components  map[int64][]models.SectionComponent
	languages   map[int64]models.Language
	docTr       map[int64]*models.DocumentTranslation
	sectionTrs  map[int64][]models.SectionTranslation
	moduleTrs   map[int64][]models.ModuleTranslation
	sectionsErr error
}

func (r *snapshotRepo) Create(ctx context.Context, doc *models.Document) error { return nil }

func (r *snapshotRepo) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	if id != r.doc.ID {
		return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	doc := r.doc
	return &doc, nil
}

func (r *snapshotRepo) List(ctx context.Context, status *models.DocumentStatus) ([]models.Document, error) {
	return []models.Document{r.doc}, nil
}
func (r *snapshotRepo) Update(ctx context.Context, doc *models.Document) error { return nil }
func (r *snapshotRepo) Delete(ctx context.Context, id int64) error             { return nil }

type sectionReader struct{ *snapshotRepo }

func (r sectionReader) Create(ctx context.Context, s *models.Section) error { return nil }
func (r sectionReader) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	return nil, domain.ErrNotFound
}
func (r sectionReader) ListByDocument(ctx context.Context, documentID int64) ([]models.Section, error) {
	return r.sections, r.sectionsErr
}
func (r sectionReader) ListChildren(ctx context.Context, documentID int64, parentID *int64) ([]models.Section, error) {
	return nil, nil
}
func (r sectionReader) ListLibrary(ctx context.Context) ([]models.Section, error) { return nil, nil }
func (r sectionReader) Update(ctx context.Context, s *models.Section) error       { return nil }
func (r sectionReader) Delete(ctx context.Context, id int64) error                { return nil }

type moduleReader struct{ *snapshotRepo }

func (r moduleReader) Create(ctx context.Context, m *models.ContentModule) error { return nil }
func (r moduleReader) GetByID(ctx context.Context, id int64) (*models.ContentModule, error) {
	return nil, domain.ErrNotFound
}
func (r moduleReader) ListBySection(ctx context.Context, sectionID int64) ([]models.ContentModule, error) {
	return r.modules[sectionID], nil
}
func (r moduleReader) ListByDocument(ctx context.Context, documentID int64) (map[int64][]models.ContentModule, error) {
	return r.modules, nil
}
func (r moduleReader) Update(ctx context.Context, m *models.ContentModule) error { return nil }
func (r moduleReader) SetOrder(ctx context.Context, id int64, order int) error   { return nil }
func (r moduleReader) Delete(ctx context.Context, id int64) error                { return nil }

type componentReader struct{ *snapshotRepo }

func (r componentReader) Create(ctx context.Context, c *models.Component) error { return nil }
func (r componentReader) GetByID(ctx context.Context, id int64) (*models.Component, error) {
	return nil, domain.ErrNotFound
}
func (r componentReader) GetByCode(ctx context.Context, code string) (*models.Component, error) {
	return nil, domain.ErrNotFound
}
func (r componentReader) Search(ctx context.Context, prefix string, limit int) ([]models.Component, error) {
	return nil, nil
}
func (r componentReader) Attach(ctx context.Context, link *models.SectionComponent) error { return nil }
func (r componentReader) Detach(ctx context.Context, sectionID, componentID int64) error  { return nil }
func (r componentReader) ListBySection(ctx context.Context, sectionID int64) ([]models.SectionComponent, error) {
	return r.components[sectionID], nil
}
func (r componentReader) ListByDocument(ctx context.Context, documentID int64) (map[int64][]models.SectionComponent, error) {
	return r.components, nil
}

type languageReader struct{ *snapshotRepo }

func (r languageReader) Create(ctx context.Context, lang *models.Language) error { return nil }
func (r languageReader) GetByID(ctx context.Context, id int64) (*models.Language, error) {
	lang, ok := r.languages[id]
	if !ok {
		return nil, fmt.Errorf("language %d: %w", id, domain.ErrNotFound)
	}
	return &lang, nil
}
func (r languageReader) List(ctx context.Context) ([]models.Language, error)     { return nil, nil }
func (r languageReader) Update(ctx context.Context, lang *models.Language) error { return nil }
func (r languageReader) ClearDefault(ctx context.Context, keepID int64) error    { return nil }

type translationReader struct{ *snapshotRepo }

func (r translationReader) GetDocument(ctx context.Context, documentID, languageID int64) (*models.DocumentTranslation, error) {
	return r.docTr[languageID], nil
}
func (r translationReader) GetSection(ctx context.Context, sectionID, languageID int64) (*models.SectionTranslation, error) {
	return nil, nil
}
func (r translationReader) GetModule(ctx context.Context, moduleID, languageID int64) (*models.ModuleTranslation, error) {
	return nil, nil
}
func (r translationReader) UpsertDocument(ctx context.Context, tr *models.DocumentTranslation) error {
	return nil
}
func (r translationReader) UpsertSection(ctx context.Context, tr *models.SectionTranslation) error {
	return nil
}
func (r translationReader) UpsertModule(ctx context.Context, tr *models.ModuleTranslation) error {
	return nil
}
func (r translationReader) ListSectionsByDocument(ctx context.Context, documentID, languageID int64) ([]models.SectionTranslation, error) {
	return r.sectionTrs[languageID], nil
}
func (r translationReader) ListModulesByDocument(ctx context.Context, documentID, languageID int64) ([]models.ModuleTranslation, error) {
	return r.moduleTrs[languageID], nil
}

func (r *snapshotRepo) repositories() Repositories {
	return Repositories{
		Documents:    r,
		Sections:     sectionReader{r},
		Modules:      moduleReader{r},
		Components:   componentReader{r},
		Languages:    languageReader{r},
		Translations: translationReader{r},
	}
}

type memoryStore struct {
	keys   []string
	bodies map[string][]byte
	err    error
}

func (s *memoryStore) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.bodies == nil {
		s.bodies = map[string][]byte{}
	}
	s.keys = append(s.keys, key)
	s.bodies[key] = body
	return "mem://" + key, nil
}

func newSnapshot() *snapshotRepo {
	return &snapshotRepo{
		doc: models.Document{ID: 7, Title: "Manuale di montaggio XR-200", Description: "Istruzioni", Version: "1.0"},
		sections: []models.Section{
			{ID: 15, DocumentID: 7, Title: "2 Montaggio", Order: 0},
			{ID: 16, DocumentID: 7, Title: "2.1 Disegno 3D", Order: 0, ParentID: int64Ptr(15)},
		},
		modules: map[int64][]models.ContentModule{
			15: {module(1, 15, models.ModuleDanger, 0, `{"title":"Pericolo","message":"Scollegare"}`)},
			16: {module(2, 16, models.ModuleBOM, 0, `{"title":"Distinta"}`)},
		},
		components: map[int64][]models.SectionComponent{
			16: {{SectionID: 16, Quantity: 1, Component: models.Component{Code: "OLD-1", Description: "Vecchio"}}},
		},
		languages: map[int64]models.Language{2: {ID: 2, Code: "en", Name: "English", IsActive: true}},
		docTr: map[int64]*models.DocumentTranslation{
			2: {DocumentID: 7, Title: strPtr("Assembly manual XR-200"), Version: strPtr("1.0")},
		},
		sectionTrs: map[int64][]models.SectionTranslation{
			2: {{SectionID: 15, Title: strPtr("2 Assembly")}},
		},
		moduleTrs: map[int64][]models.ModuleTranslation{
			2: {{ModuleID: 1, Content: json.RawMessage(`{"title":"Danger","message":"Unplug"}`)}},
		},
	}
}

func newTestService(t *testing.T, repo *snapshotRepo, store manualSvc.ExportStore) manualSvc.ExportService {
	t.Helper()
	processor, err := postprocess.NewDefaultProcessor(quietLogger())
	if err != nil {
		t.Fatalf("NewDefaultProcessor() error = %v", err)
	}
	packager, err := NewPackager(fixedClock)
	if err != nil {
		t.Fatalf("NewPackager() error = %v", err)
	}
	svc, err := NewService(repo.repositories(), processor, packager, store, quietLogger())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestExportSourceLanguage(t *testing.T) {
	svc := newTestService(t, newSnapshot(), nil)

	result, err := svc.Export(context.Background(), &manualSvc.ExportRequest{DocumentID: 7})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if result.FileName != "manuale-di-montaggio-xr-200_v1.0.html" {
		t.Errorf("FileName = %q", result.FileName)
	}
	if result.ContentType != "text/html; charset=utf-8" {
		t.Errorf("ContentType = %q", result.ContentType)
	}
	body := string(result.Body)
	for _, w := range []string{
		"<title>Manuale di montaggio XR-200</title>",
		"background-color:#ff0000",
		"Scollegare",
		"A8B25040509",
		"A8C942-67",
		"Generated on 2024-05-06 07:08 · Version 1.0",
	} {
		if !strings.Contains(body, w) {
			t.Errorf("export missing %q", w)
		}
	}
	if strings.Contains(body, "OLD-1") {
		t.Error("section 16 component table should be overridden")
	}
}

func TestExportTranslated(t *testing.T) {
	svc := newTestService(t, newSnapshot(), nil)

	result, err := svc.Export(context.Background(), &manualSvc.ExportRequest{DocumentID: 7, LanguageID: int64Ptr(2)})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if result.FileName != "manuale-di-montaggio-xr-200_v1.0_en.html" {
		t.Errorf("FileName = %q", result.FileName)
	}
	body := string(result.Body)
	for _, w := range []string{"Assembly manual XR-200", `<html lang="en">`, "2 Assembly", "Unplug", "A8B25040509"} {
		if !strings.Contains(body, w) {
			t.Errorf("translated export missing %q", w)
		}
	}
	for _, nw := range []string{"Scollegare", "2 Montaggio", "Istruzioni"} {
		if strings.Contains(body, nw) {
			t.Errorf("translated export leaks source text %q", nw)
		}
	}
}

func TestExportMarkdown(t *testing.T) {
	svc := newTestService(t, newSnapshot(), nil)

	result, err := svc.Export(context.Background(), &manualSvc.ExportRequest{DocumentID: 7, Format: manualSvc.FormatMarkdown})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if result.FileName != "manuale-di-montaggio-xr-200_v1.0.md" {
		t.Errorf("FileName = %q", result.FileName)
	}
	if !strings.HasPrefix(string(result.Body), "# Manuale di montaggio XR-200") {
		t.Errorf("markdown body = %s", result.Body)
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     *manualSvc.ExportRequest
		mutate  func(r *snapshotRepo)
		wantErr error
	}{
		{name: "unknown format", req: &manualSvc.ExportRequest{DocumentID: 7, Format: "pdf"}, wantErr: domain.ErrValidation},
		{name: "unknown document", req: &manualSvc.ExportRequest{DocumentID: 99}, wantErr: domain.ErrNotFound},
		{name: "unknown language", req: &manualSvc.ExportRequest{DocumentID: 7, LanguageID: int64Ptr(9)}, wantErr: domain.ErrNotFound},
		{
			name:    "repository failure",
			req:     &manualSvc.ExportRequest{DocumentID: 7},
			mutate:  func(r *snapshotRepo) { r.sectionsErr = errors.New("connection reset") },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newSnapshot()
			if tt.mutate != nil {
				tt.mutate(repo)
			}
			svc := newTestService(t, repo, nil)

			_, err := svc.Export(context.Background(), tt.req)
			if err == nil {
				t.Fatal("Export() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Export() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestArchive(t *testing.T) {
	t.Run("stores under document prefix", func(t *testing.T) {
		store := &memoryStore{}
		svc := newTestService(t, newSnapshot(), store)

		archived, err := svc.Archive(context.Background(), &manualSvc.ExportRequest{DocumentID: 7})
		if err != nil {
			t.Fatalf("Archive() error = %v", err)
		}
		if len(store.keys) != 1 || store.keys[0] != archived.Key {
			t.Fatalf("stored keys = %v, archived key = %q", store.keys, archived.Key)
		}
		if !strings.HasPrefix(archived.Key, "exports/7/") || !strings.HasSuffix(archived.Key, "/"+archived.FileName) {
			t.Errorf("Key = %q", archived.Key)
		}
		if archived.Location != "mem://"+archived.Key || archived.Size != len(store.bodies[archived.Key]) {
			t.Errorf("archived = %+v", archived)
		}
	})

	t.Run("no store", func(t *testing.T) {
		svc := newTestService(t, newSnapshot(), nil)
		_, err := svc.Archive(context.Background(), &manualSvc.ExportRequest{DocumentID: 7})
		if !errors.Is(err, domain.ErrUnavailable) {
			t.Errorf("Archive() error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		svc := newTestService(t, newSnapshot(), &memoryStore{err: errors.New("bucket gone")})
		if _, err := svc.Archive(context.Background(), &manualSvc.ExportRequest{DocumentID: 7}); err == nil {
			t.Error("Archive() error = nil, want error")
		}
	})
}

package manual

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"manuals/internal/domain"
	models "manuals/internal/domain/models/manual"
	"manuals/internal/domain/repositories"
	manualSvc "manuals/internal/domain/services/manual"
)

type trKey struct{ entityID, languageID int64 }

// memStore keeps every table in memory. The repository adapters below
// share it so services see each other's writes.
type memStore struct {
	nextID     int64
	docs       map[int64]models.Document
	sections   map[int64]models.Section
	modules    map[int64]models.ContentModule
	components map[int64]models.Component
	links      map[int64][]models.SectionComponent
	boms       map[int64]models.Bom
	langs      map[int64]models.Language
	docTrs     map[trKey]models.DocumentTranslation
	sectionTrs map[trKey]models.SectionTranslation
	moduleTrs  map[trKey]models.ModuleTranslation
	txCount    int
}

func newMemStore() *memStore {
	return &memStore{
		docs:       map[int64]models.Document{},
		sections:   map[int64]models.Section{},
		modules:    map[int64]models.ContentModule{},
		components: map[int64]models.Component{},
		links:      map[int64][]models.SectionComponent{},
		boms:       map[int64]models.Bom{},
		langs:      map[int64]models.Language{},
		docTrs:     map[trKey]models.DocumentTranslation{},
		sectionTrs: map[trKey]models.SectionTranslation{},
		moduleTrs:  map[trKey]models.ModuleTranslation{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, domain.ErrNotFound)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ExecTx runs fn directly; the store has no rollback.
func (m *memStore) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.txCount++
	return fn(ctx)
}

type memDocuments struct{ *memStore }

func (r memDocuments) Create(ctx context.Context, doc *models.Document) error {
	doc.ID = r.id()
	r.docs[doc.ID] = *doc
	return nil
}

func (r memDocuments) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, notFound("document", id)
	}
	return &doc, nil
}

func (r memDocuments) List(ctx context.Context, status *models.DocumentStatus) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range r.docs {
		if status == nil || doc.Status == *status {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memDocuments) Update(ctx context.Context, doc *models.Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return notFound("document", doc.ID)
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r memDocuments) Delete(ctx context.Context, id int64) error {
	if _, ok := r.docs[id]; !ok {
		return notFound("document", id)
	}
	delete(r.docs, id)
	return nil
}

type memSections struct{ *memStore }

func (r memSections) Create(ctx context.Context, s *models.Section) error {
	s.ID = r.id()
	r.sections[s.ID] = *s
	return nil
}

func (r memSections) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	s, ok := r.sections[id]
	if !ok {
		return nil, notFound("section", id)
	}
	return &s, nil
}

func (r memSections) ListByDocument(ctx context.Context, documentID int64) ([]models.Section, error) {
	var out []models.Section
	for _, s := range r.sections {
		if s.DocumentID == documentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memSections) ListChildren(ctx context.Context, documentID int64, parentID *int64) ([]models.Section, error) {
	var out []models.Section
	for _, s := range r.sections {
		if s.DocumentID != documentID {
			continue
		}
		if (parentID == nil && s.ParentID == nil) || (parentID != nil && s.ParentID != nil && *parentID == *s.ParentID) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r memSections) ListLibrary(ctx context.Context) ([]models.Section, error) {
	var out []models.Section
	for _, s := range r.sections {
		if s.IsModule {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r memSections) Update(ctx context.Context, s *models.Section) error {
	r.sections[s.ID] = *s
	return nil
}

func (r memSections) Delete(ctx context.Context, id int64) error {
	if _, ok := r.sections[id]; !ok {
		return notFound("section", id)
	}
	delete(r.sections, id)
	return nil
}

type memModules struct{ *memStore }

func (r memModules) Create(ctx context.Context, m *models.ContentModule) error {
	m.ID = r.id()
	r.modules[m.ID] = m.Clone()
	return nil
}

func (r memModules) GetByID(ctx context.Context, id int64) (*models.ContentModule, error) {
	m, ok := r.modules[id]
	if !ok {
		return nil, notFound("module", id)
	}
	m = m.Clone()
	return &m, nil
}

func (r memModules) ListBySection(ctx context.Context, sectionID int64) ([]models.ContentModule, error) {
	var out []models.ContentModule
	for _, m := range r.modules {
		if m.SectionID == sectionID {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r memModules) ListByDocument(ctx context.Context, documentID int64) (map[int64][]models.ContentModule, error) {
	out := map[int64][]models.ContentModule{}
	for _, m := range r.modules {
		if s, ok := r.sections[m.SectionID]; ok && s.DocumentID == documentID {
			out[m.SectionID] = append(out[m.SectionID], m.Clone())
		}
	}
	return out, nil
}

func (r memModules) Update(ctx context.Context, m *models.ContentModule) error {
	r.modules[m.ID] = m.Clone()
	return nil
}

func (r memModules) SetOrder(ctx context.Context, id int64, order int) error {
	m, ok := r.modules[id]
	if !ok {
		return notFound("module", id)
	}
	m.Order = order
	r.modules[id] = m
	return nil
}

func (r memModules) Delete(ctx context.Context, id int64) error {
	delete(r.modules, id)
	return nil
}

type memComponents struct{ *memStore }

func (r memComponents) Create(ctx context.Context, c *models.Component) error {
	for _, existing := range r.components {
		if existing.Code == c.Code {
			return &domain.ConflictError{Message: "component already exists", ResourceType: "component", ResourceID: existing.ID}
		}
	}
	c.ID = r.id()
	r.components[c.ID] = *c
	return nil
}

func (r memComponents) GetByID(ctx context.Context, id int64) (*models.Component, error) {
	c, ok := r.components[id]
	if !ok {
		return nil, notFound("component", id)
	}
	return &c, nil
}

func (r memComponents) GetByCode(ctx context.Context, code string) (*models.Component, error) {
	for _, c := range r.components {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, notFound("component", code)
}

func (r memComponents) Search(ctx context.Context, prefix string, limit int) ([]models.Component, error) {
	var out []models.Component
	for _, c := range r.components {
		if strings.HasPrefix(c.Code, prefix) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memComponents) Attach(ctx context.Context, link *models.SectionComponent) error {
	stored := *link
	stored.Component = r.components[link.ComponentID]
	list := r.links[link.SectionID]
	for i := range list {
		if list[i].ComponentID == link.ComponentID {
			list[i] = stored
			return nil
		}
	}
	r.links[link.SectionID] = append(list, stored)
	return nil
}

func (r memComponents) Detach(ctx context.Context, sectionID, componentID int64) error {
	list := r.links[sectionID]
	for i := range list {
		if list[i].ComponentID == componentID {
			r.links[sectionID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return notFound("section component", componentID)
}

func (r memComponents) ListBySection(ctx context.Context, sectionID int64) ([]models.SectionComponent, error) {
	return append([]models.SectionComponent(nil), r.links[sectionID]...), nil
}

func (r memComponents) ListByDocument(ctx context.Context, documentID int64) (map[int64][]models.SectionComponent, error) {
	out := map[int64][]models.SectionComponent{}
	for sectionID, list := range r.links {
		if s, ok := r.sections[sectionID]; ok && s.DocumentID == documentID {
			out[sectionID] = append([]models.SectionComponent(nil), list...)
		}
	}
	return out, nil
}

type memBoms struct{ *memStore }

func (r memBoms) Create(ctx context.Context, bom *models.Bom) error {
	bom.ID = r.id()
	for i := range bom.Items {
		bom.Items[i].ID = r.id()
		bom.Items[i].BomID = bom.ID
	}
	r.boms[bom.ID] = *bom
	return nil
}

func (r memBoms) GetByID(ctx context.Context, id int64) (*models.Bom, error) {
	bom, ok := r.boms[id]
	if !ok {
		return nil, notFound("bom", id)
	}
	return &bom, nil
}

func (r memBoms) List(ctx context.Context) ([]models.Bom, error) {
	var out []models.Bom
	for _, bom := range r.boms {
		out = append(out, bom)
	}
	return out, nil
}

type memLanguages struct{ *memStore }

func (r memLanguages) Create(ctx context.Context, lang *models.Language) error {
	for _, existing := range r.langs {
		if existing.Code == lang.Code {
			return &domain.ConflictError{Message: "language already exists", ResourceType: "language", ResourceID: existing.ID}
		}
	}
	lang.ID = r.id()
	r.langs[lang.ID] = *lang
	return nil
}

func (r memLanguages) GetByID(ctx context.Context, id int64) (*models.Language, error) {
	lang, ok := r.langs[id]
	if !ok {
		return nil, notFound("language", id)
	}
	return &lang, nil
}

func (r memLanguages) List(ctx context.Context) ([]models.Language, error) {
	var out []models.Language
	for _, lang := range r.langs {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memLanguages) Update(ctx context.Context, lang *models.Language) error {
	r.langs[lang.ID] = *lang
	return nil
}

func (r memLanguages) ClearDefault(ctx context.Context, keepID int64) error {
	for id, lang := range r.langs {
		if id != keepID {
			lang.IsDefault = false
			r.langs[id] = lang
		}
	}
	return nil
}

type memTranslations struct{ *memStore }

func (r memTranslations) GetDocument(ctx context.Context, documentID, languageID int64) (*models.DocumentTranslation, error) {
	tr, ok := r.docTrs[trKey{documentID, languageID}]
	if !ok {
		return nil, nil
	}
	return &tr, nil
}

func (r memTranslations) GetSection(ctx context.Context, sectionID, languageID int64) (*models.SectionTranslation, error) {
	tr, ok := r.sectionTrs[trKey{sectionID, languageID}]
	if !ok {
		return nil, nil
	}
	return &tr, nil
}

func (r memTranslations) GetModule(ctx context.Context, moduleID, languageID int64) (*models.ModuleTranslation, error) {
	tr, ok := r.moduleTrs[trKey{moduleID, languageID}]
	if !ok {
		return nil, nil
	}
	return &tr, nil
}

func (r memTranslations) UpsertDocument(ctx context.Context, tr *models.DocumentTranslation) error {
	r.docTrs[trKey{tr.DocumentID, tr.LanguageID}] = *tr
	return nil
}

func (r memTranslations) UpsertSection(ctx context.Context, tr *models.SectionTranslation) error {
	r.sectionTrs[trKey{tr.SectionID, tr.LanguageID}] = *tr
	return nil
}

func (r memTranslations) UpsertModule(ctx context.Context, tr *models.ModuleTranslation) error {
	r.moduleTrs[trKey{tr.ModuleID, tr.LanguageID}] = *tr
	return nil
}

func (r memTranslations) ListSectionsByDocument(ctx context.Context, documentID, languageID int64) ([]models.SectionTranslation, error) {
	var out []models.SectionTranslation
	for key, tr := range r.sectionTrs {
		if s, ok := r.sections[key.entityID]; ok && s.DocumentID == documentID && key.languageID == languageID {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (r memTranslations) ListModulesByDocument(ctx context.Context, documentID, languageID int64) ([]models.ModuleTranslation, error) {
	var out []models.ModuleTranslation
	for key, tr := range r.moduleTrs {
		m, ok := r.modules[key.entityID]
		if !ok || key.languageID != languageID {
			continue
		}
		if s, ok := r.sections[m.SectionID]; ok && s.DocumentID == documentID {
			out = append(out, tr)
		}
	}
	return out, nil
}

// fakeTranslator upper-cases every text, or fails with err.
type fakeTranslator struct {
	requests []*manualSvc.TranslateRequest
	err      error
	drop     bool // return one string fewer than asked
}

func (f *fakeTranslator) Translate(ctx context.Context, req *manualSvc.TranslateRequest) ([]string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		out[i] = strings.ToUpper(text)
	}
	if f.drop {
		out = out[:len(out)-1]
	}
	return out, nil
}

// services wires every service in this package to one memStore.
type services struct {
	store        *memStore
	documents    manualSvc.DocumentService
	sections     manualSvc.SectionService
	modules      manualSvc.ModuleService
	languages    manualSvc.LanguageService
	components   manualSvc.ComponentService
	boms         manualSvc.BomService
	translations manualSvc.TranslationService
}

func newServices(translator manualSvc.Translator) *services {
	m := newMemStore()
	docs, secs, mods := memDocuments{m}, memSections{m}, memModules{m}
	comps, langs := memComponents{m}, memLanguages{m}
	logger := testLogger()
	return &services{
		store:        m,
		documents:    NewDocumentService(docs, secs, mods, comps, logger),
		sections:     NewSectionService(docs, secs, mods, comps, m, logger),
		modules:      NewModuleService(secs, mods, m, logger),
		languages:    NewLanguageService(langs, m, logger),
		components:   NewComponentService(comps, secs, logger),
		boms:         NewBomService(memBoms{m}, comps, logger),
		translations: NewTranslationService(docs, secs, mods, langs, memTranslations{m}, translator, logger),
	}
}

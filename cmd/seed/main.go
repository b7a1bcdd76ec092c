package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"

	"manuals/internal/config"
	models "manuals/internal/domain/models/manual"
	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/repository/postgres"
	postgresManual "manuals/internal/repository/postgres/manual"
	serviceManual "manuals/internal/service/manual"
	"manuals/internal/service/translation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed a sample manual")
	clearData := flag.Bool("clear-data", false, "Delete all rows (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	switch {
	case *clearData:
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	log.Println("Clearing existing data...")
	if err := clearAllData(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	if *clearData {
		log.Println("Data cleared successfully")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgresManual.NewDocumentRepository(repoConfig)
	sectionRepo := postgresManual.NewSectionRepository(repoConfig)
	moduleRepo := postgresManual.NewModuleRepository(repoConfig)
	componentRepo := postgresManual.NewComponentRepository(repoConfig)
	bomRepo := postgresManual.NewBomRepository(repoConfig)
	langRepo := postgresManual.NewLanguageRepository(repoConfig)
	trRepo := postgresManual.NewTranslationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Seed through the service layer so validation applies
	s := &seeder{
		docs:         serviceManual.NewDocumentService(docRepo, sectionRepo, moduleRepo, componentRepo, logger),
		sections:     serviceManual.NewSectionService(docRepo, sectionRepo, moduleRepo, componentRepo, txManager, logger),
		modules:      serviceManual.NewModuleService(sectionRepo, moduleRepo, txManager, logger),
		languages:    serviceManual.NewLanguageService(langRepo, txManager, logger),
		components:   serviceManual.NewComponentService(componentRepo, sectionRepo, logger),
		boms:         serviceManual.NewBomService(bomRepo, componentRepo, logger),
		translations: serviceManual.NewTranslationService(docRepo, sectionRepo, moduleRepo, langRepo, trRepo, translation.Disabled{}, logger),
	}
	if err := s.run(ctx); err != nil {
		log.Fatalf("Failed to seed sample manual: %v", err)
	}

	log.Println("Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			version VARCHAR(50) NOT NULL DEFAULT '1.0',
			created_by TEXT,
			updated_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Sections + ` (
			id BIGSERIAL PRIMARY KEY,
			document_id BIGINT NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			parent_id BIGINT REFERENCES ` + tables.Sections + `(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_module BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE NULLS NOT DISTINCT (document_id, parent_id, sort_order)
		)`,
		// content is TEXT: a malformed payload must survive storage unchanged
		`CREATE TABLE IF NOT EXISTS ` + tables.ContentModules + ` (
			id BIGSERIAL PRIMARY KEY,
			section_id BIGINT NOT NULL REFERENCES ` + tables.Sections + `(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '{}',
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Components + ` (
			id BIGSERIAL PRIMARY KEY,
			code VARCHAR(64) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			details JSONB NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.SectionComponents + ` (
			section_id BIGINT NOT NULL REFERENCES ` + tables.Sections + `(id) ON DELETE CASCADE,
			component_id BIGINT NOT NULL REFERENCES ` + tables.Components + `(id) ON DELETE CASCADE,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			notes TEXT,
			PRIMARY KEY (section_id, component_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Boms + ` (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			version VARCHAR(50) NOT NULL,
			UNIQUE (name, version)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.BomItems + ` (
			id BIGSERIAL PRIMARY KEY,
			bom_id BIGINT NOT NULL REFERENCES ` + tables.Boms + `(id) ON DELETE CASCADE,
			component_id BIGINT NOT NULL REFERENCES ` + tables.Components + `(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Languages + ` (
			id BIGSERIAL PRIMARY KEY,
			code VARCHAR(35) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_default BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.DocumentTranslations + ` (
			document_id BIGINT NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			language_id BIGINT NOT NULL REFERENCES ` + tables.Languages + `(id) ON DELETE CASCADE,
			title TEXT,
			description TEXT,
			version TEXT,
			status TEXT NOT NULL DEFAULT 'not_translated',
			translator_id TEXT,
			reviewer_id TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (document_id, language_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.SectionTranslations + ` (
			section_id BIGINT NOT NULL REFERENCES ` + tables.Sections + `(id) ON DELETE CASCADE,
			language_id BIGINT NOT NULL REFERENCES ` + tables.Languages + `(id) ON DELETE CASCADE,
			title TEXT,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'not_translated',
			translator_id TEXT,
			reviewer_id TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (section_id, language_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.ModuleTranslations + ` (
			module_id BIGINT NOT NULL REFERENCES ` + tables.ContentModules + `(id) ON DELETE CASCADE,
			language_id BIGINT NOT NULL REFERENCES ` + tables.Languages + `(id) ON DELETE CASCADE,
			content TEXT NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'not_translated',
			translator_id TEXT,
			reviewer_id TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (module_id, language_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `sections_document ON ` + tables.Sections + `(document_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `sections_library ON ` + tables.Sections + `(is_module) WHERE is_module`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `content_modules_section ON ` + tables.ContentModules + `(section_id, sort_order)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `bom_items_bom ON ` + tables.BomItems + `(bom_id, sort_order)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `languages_single_default ON ` + tables.Languages + `(is_default) WHERE is_default`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables children first (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
		log.Printf("  Dropped %s", table)
	}
	return nil
}

// clearAllData empties every table and restarts the id sequences
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			return err
		}
	}
	return nil
}

type seeder struct {
	docs         manualSvc.DocumentService
	sections     manualSvc.SectionService
	modules      manualSvc.ModuleService
	languages    manualSvc.LanguageService
	components   manualSvc.ComponentService
	boms         manualSvc.BomService
	translations manualSvc.TranslationService
}

func (s *seeder) run(ctx context.Context) error {
	italian, err := s.languages.CreateLanguage(ctx, &manualSvc.CreateLanguageRequest{Code: "it", IsActive: true, IsDefault: true})
	if err != nil {
		return err
	}
	english, err := s.languages.CreateLanguage(ctx, &manualSvc.CreateLanguageRequest{Code: "en", IsActive: true})
	if err != nil {
		return err
	}
	if _, err := s.languages.CreateLanguage(ctx, &manualSvc.CreateLanguageRequest{Code: "de", IsActive: false}); err != nil {
		return err
	}
	log.Printf("Created languages: %s (default), %s, de", italian.Code, english.Code)

	components := []manualSvc.CreateComponentRequest{
		{Code: "A8B25040509", Description: "Telaio base saldato", Details: map[string]any{"level": 3}},
		{Code: "A8B25040510", Description: "Pannello laterale sinistro", Details: map[string]any{"level": 3}},
		{Code: "A8B25040511", Description: "Pannello laterale destro", Details: map[string]any{"level": 3}},
		{Code: "A8C942-67", Description: "Staffa cerniera", Details: map[string]any{"level": 3}},
		{Code: "A8C942-68", Description: "Perno cerniera", Details: map[string]any{"level": 3}},
		{Code: "A8C942-71", Description: "Piastra di fissaggio", Details: map[string]any{"level": 3}},
		{Code: "A8D10320015", Description: "Vite TCEI M8x20", Details: map[string]any{"level": 3}},
		{Code: "A8D10320016", Description: "Rondella M8", Details: map[string]any{"level": 3}},
		{Code: "A8E77001-02", Description: "Guarnizione perimetrale", Details: map[string]any{"level": 3}},
		{Code: "A8F00001", Description: "Kit viteria", Details: map[string]any{"level": 2}},
	}
	componentIDs := make(map[string]int64, len(components))
	for i := range components {
		c, err := s.components.CreateComponent(ctx, &components[i])
		if err != nil {
			return err
		}
		componentIDs[c.Code] = c.ID
	}
	log.Printf("Created %d components", len(components))

	doc, err := s.docs.CreateDocument(ctx, &manualSvc.CreateDocumentRequest{
		Title:       "Manuale di montaggio XR-200",
		Description: "Istruzioni di montaggio del gruppo XR-200",
		Version:     "1.0",
	})
	if err != nil {
		return err
	}

	intro, err := s.section(ctx, doc.ID, nil, "1 Introduzione", "Leggere prima del montaggio")
	if err != nil {
		return err
	}
	assembly, err := s.section(ctx, doc.ID, nil, "2 Montaggio", "")
	if err != nil {
		return err
	}
	drawing, err := s.section(ctx, doc.ID, &assembly, "2.1 Disegno 3D", "Vista esplosa del gruppo")
	if err != nil {
		return err
	}
	fixing, err := s.section(ctx, doc.ID, &assembly, "2.2 Fissaggio", "")
	if err != nil {
		return err
	}

	introText, err := s.module(ctx, intro, "text", map[string]any{"text": "<p>Questo manuale descrive il montaggio del gruppo <strong>XR-200</strong>.</p>"})
	if err != nil {
		return err
	}
	if _, err := s.module(ctx, intro, "danger", map[string]any{
		"title":   "Pericolo",
		"message": "Scollegare l'alimentazione prima di ogni intervento.",
	}); err != nil {
		return err
	}
	if _, err := s.module(ctx, drawing, "3d-model", map[string]any{"url": "https://example.com/models/xr-200.glb"}); err != nil {
		return err
	}
	if _, err := s.module(ctx, drawing, "bom", map[string]any{
		"title":    "Distinta componenti",
		"headers":  map[string]string{"code": "Codice", "description": "Descrizione", "quantity": "Q.tà", "level": "Livello"},
		"messages": map[string]string{"empty": "Nessun componente"},
	}); err != nil {
		return err
	}
	if _, err := s.module(ctx, fixing, "checklist", map[string]any{
		"title": "Prima di serrare",
		"items": []map[string]any{
			{"id": 1, "text": "Verificare l'allineamento dei pannelli", "checked": false},
			{"id": 2, "text": "Applicare la guarnizione", "checked": false},
		},
	}); err != nil {
		return err
	}
	if _, err := s.module(ctx, fixing, "table", map[string]any{
		"caption": "Coppie di serraggio",
		"headers": []string{"Vite", "Coppia"},
		"rows":    [][]string{{"M8", "25 Nm"}, {"M10", "49 Nm"}},
	}); err != nil {
		return err
	}

	for code, qty := range map[string]int{"A8B25040509": 1, "A8D10320015": 8, "A8F00001": 1} {
		if err := s.components.AttachComponent(ctx, &manualSvc.AttachComponentRequest{
			SectionID: drawing, ComponentID: componentIDs[code], Quantity: qty,
		}); err != nil {
			return err
		}
	}

	library, err := s.sections.CreateSection(ctx, &manualSvc.CreateSectionRequest{
		DocumentID: doc.ID, Title: "Istruzioni di sicurezza", IsModule: true,
	})
	if err != nil {
		return err
	}
	if _, err := s.module(ctx, library.ID, "safety-instructions", map[string]any{
		"title":   "Sicurezza",
		"message": "Indossare guanti e occhiali protettivi.",
	}); err != nil {
		return err
	}

	if _, err := s.boms.CreateBom(ctx, &manualSvc.CreateBomRequest{
		Name: "XR-200", Version: "A",
		Items: []manualSvc.BomItemRequest{{Code: "A8B25040509", Quantity: 1}, {Code: "A8D10320015", Quantity: 8}},
	}); err != nil {
		return err
	}
	if _, err := s.boms.CreateBom(ctx, &manualSvc.CreateBomRequest{
		Name: "XR-200", Version: "B",
		Items: []manualSvc.BomItemRequest{{Code: "A8B25040509", Quantity: 1}, {Code: "A8D10320015", Quantity: 12}, {Code: "A8E77001-02", Quantity: 1}},
	}); err != nil {
		return err
	}

	// English translation of the header, the introduction and its text
	if _, err := s.translations.SaveDocumentTranslation(ctx, &manualSvc.SaveDocumentTranslationRequest{
		DocumentID:  doc.ID,
		LanguageID:  english.ID,
		Title:       stringPtr("XR-200 Assembly Manual"),
		Description: stringPtr("Assembly instructions for the XR-200 unit"),
		Version:     stringPtr("1.0"),
	}); err != nil {
		return err
	}
	if _, err := s.translations.SaveSectionTranslation(ctx, &manualSvc.SaveSectionTranslationRequest{
		SectionID:   intro,
		LanguageID:  english.ID,
		Title:       stringPtr("1 Introduction"),
		Description: stringPtr("Read before assembly"),
	}); err != nil {
		return err
	}
	if _, err := s.translations.SaveModuleTranslation(ctx, &manualSvc.SaveModuleTranslationRequest{
		ModuleID:   introText,
		LanguageID: english.ID,
		Content:    json.RawMessage(`{"text":"<p>This manual describes the assembly of the <strong>XR-200</strong> unit.</p>"}`),
	}); err != nil {
		return err
	}

	log.Printf("Created document %d with sections, modules and an English translation", doc.ID)
	return nil
}

func (s *seeder) section(ctx context.Context, docID int64, parentID *int64, title, description string) (int64, error) {
	section, err := s.sections.CreateSection(ctx, &manualSvc.CreateSectionRequest{
		DocumentID:  docID,
		ParentID:    parentID,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return 0, err
	}
	return section.ID, nil
}

func (s *seeder) module(ctx context.Context, sectionID int64, moduleType models.ModuleType, content map[string]any) (int64, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return 0, err
	}
	module, err := s.modules.CreateModule(ctx, &manualSvc.CreateModuleRequest{
		SectionID: sectionID,
		Type:      moduleType,
		Content:   raw,
	})
	if err != nil {
		return 0, err
	}
	return module.ID, nil
}

func stringPtr(s string) *string {
	return &s
}

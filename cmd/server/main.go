package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"manuals/internal/auth"
	"manuals/internal/config"
	manualSvc "manuals/internal/domain/services/manual"
	"manuals/internal/handler"
	"manuals/internal/middleware"
	"manuals/internal/repository/postgres"
	postgresManual "manuals/internal/repository/postgres/manual"
	"manuals/internal/service/export"
	"manuals/internal/service/export/postprocess"
	serviceManual "manuals/internal/service/manual"
	"manuals/internal/service/translation"
	"manuals/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bearer token verification is optional
	var jwtVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		jwtVerifier, err = auth.NewJWTVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	} else {
		logger.Warn("JWKS_URL not set: authentication disabled")
	}

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected", "max_conns", pool.Config().MaxConns)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
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

	// Machine translation
	var translator manualSvc.Translator = translation.Disabled{}
	if cfg.AnthropicAPIKey != "" {
		provider, err := translation.NewProvider(cfg.AnthropicAPIKey, cfg.TranslationModel, logger)
		if err != nil {
			log.Fatalf("Failed to setup translation provider: %v", err)
		}
		translator = provider
		logger.Info("machine translation enabled", "model", cfg.TranslationModel)
	}

	// Export archive store
	exportStore, err := setupExportStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup export store: %v", err)
	}

	// Export pipeline
	processor, err := postprocess.NewDefaultProcessor(logger)
	if err != nil {
		log.Fatalf("Failed to load export post-processing rules: %v", err)
	}
	packager, err := export.NewPackager(time.Now)
	if err != nil {
		log.Fatalf("Failed to create packager: %v", err)
	}

	// Create services
	docService := serviceManual.NewDocumentService(docRepo, sectionRepo, moduleRepo, componentRepo, logger)
	sectionService := serviceManual.NewSectionService(docRepo, sectionRepo, moduleRepo, componentRepo, txManager, logger)
	moduleService := serviceManual.NewModuleService(sectionRepo, moduleRepo, txManager, logger)
	languageService := serviceManual.NewLanguageService(langRepo, txManager, logger)
	translationService := serviceManual.NewTranslationService(docRepo, sectionRepo, moduleRepo, langRepo, trRepo, translator, logger)
	componentService := serviceManual.NewComponentService(componentRepo, sectionRepo, logger)
	bomService := serviceManual.NewBomService(bomRepo, componentRepo, logger)
	exportService, err := export.NewService(export.Repositories{
		Documents:    docRepo,
		Sections:     sectionRepo,
		Modules:      moduleRepo,
		Components:   componentRepo,
		Languages:    langRepo,
		Translations: trRepo,
	}, processor, packager, exportStore, logger)
	if err != nil {
		log.Fatalf("Failed to create export service: %v", err)
	}

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	treeHandler := handler.NewTreeHandler(docService, logger)
	sectionHandler := handler.NewSectionHandler(sectionService, logger)
	moduleHandler := handler.NewModuleHandler(moduleService, logger)
	languageHandler := handler.NewLanguageHandler(languageService, logger)
	translationHandler := handler.NewTranslationHandler(translationService, logger)
	componentHandler := handler.NewComponentHandler(componentService, bomService, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("GET /api/documents/{id}/tree", treeHandler.GetTree)

	// Export routes
	mux.HandleFunc("GET /api/documents/{id}/export", exportHandler.Download)
	mux.HandleFunc("POST /api/documents/{id}/exports", exportHandler.Archive)

	// Section routes
	mux.HandleFunc("POST /api/sections", sectionHandler.CreateSection)
	mux.HandleFunc("GET /api/sections/{id}", sectionHandler.GetSection)
	mux.HandleFunc("PATCH /api/sections/{id}", sectionHandler.UpdateSection)
	mux.HandleFunc("DELETE /api/sections/{id}", sectionHandler.DeleteSection)
	mux.HandleFunc("POST /api/sections/{id}/move", sectionHandler.MoveSection)
	mux.HandleFunc("GET /api/library/sections", sectionHandler.ListLibrary)
	mux.HandleFunc("POST /api/library/sections/{id}/copy", sectionHandler.CopyLibrarySection)

	// Module routes
	mux.HandleFunc("GET /api/sections/{id}/modules", moduleHandler.ListModules)
	mux.HandleFunc("POST /api/sections/{id}/modules", moduleHandler.CreateModule)
	mux.HandleFunc("PUT /api/sections/{id}/modules/order", moduleHandler.ReorderModules)
	mux.HandleFunc("GET /api/modules/{id}", moduleHandler.GetModule)
	mux.HandleFunc("PATCH /api/modules/{id}", moduleHandler.UpdateModule)
	mux.HandleFunc("DELETE /api/modules/{id}", moduleHandler.DeleteModule)

	// Component and BOM routes
	mux.HandleFunc("GET /api/components", componentHandler.SearchComponents)
	mux.HandleFunc("POST /api/components", componentHandler.CreateComponent)
	mux.HandleFunc("GET /api/components/{code}", componentHandler.GetComponent)
	mux.HandleFunc("GET /api/sections/{id}/components", componentHandler.ListSectionComponents)
	mux.HandleFunc("POST /api/sections/{id}/components", componentHandler.AttachComponent)
	mux.HandleFunc("DELETE /api/sections/{id}/components/{componentId}", componentHandler.DetachComponent)
	mux.HandleFunc("GET /api/boms", componentHandler.ListBoms)
	mux.HandleFunc("POST /api/boms", componentHandler.CreateBom)
	mux.HandleFunc("GET /api/boms/{id}", componentHandler.GetBom)
	mux.HandleFunc("GET /api/boms/{id}/compare/{targetId}", componentHandler.CompareBoms)

	// Language routes
	mux.HandleFunc("GET /api/languages", languageHandler.ListLanguages)
	mux.HandleFunc("POST /api/languages", languageHandler.CreateLanguage)
	mux.HandleFunc("GET /api/languages/{id}", languageHandler.GetLanguage)
	mux.HandleFunc("PATCH /api/languages/{id}", languageHandler.UpdateLanguage)

	// Translation routes
	mux.HandleFunc("GET /api/documents/{id}/translations/{languageId}", translationHandler.GetDocumentTranslation)
	mux.HandleFunc("PUT /api/documents/{id}/translations", translationHandler.SaveDocumentTranslation)
	mux.HandleFunc("GET /api/documents/{id}/translations/{languageId}/progress", translationHandler.GetProgress)
	mux.HandleFunc("GET /api/sections/{id}/translations/{languageId}", translationHandler.GetSectionTranslation)
	mux.HandleFunc("PUT /api/sections/{id}/translations", translationHandler.SaveSectionTranslation)
	mux.HandleFunc("POST /api/sections/{id}/translations/suggest", translationHandler.SuggestSection)
	mux.HandleFunc("GET /api/modules/{id}/translations/{languageId}", translationHandler.GetModuleTranslation)
	mux.HandleFunc("PUT /api/modules/{id}/translations", translationHandler.SaveModuleTranslation)
	mux.HandleFunc("POST /api/modules/{id}/translations/suggest", translationHandler.SuggestModule)
	mux.HandleFunc("POST /api/translations/status", translationHandler.SetStatus)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Recovery → Auth → Metrics → Routes
	httpHandler = middleware.Metrics(httpHandler)
	httpHandler = middleware.AuthMiddleware(jwtVerifier, logger, "/health", "/metrics")(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)
	httpHandler = middleware.RequestID(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

// setupExportStore picks the archive backend named by EXPORT_STORAGE
func setupExportStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (manualSvc.ExportStore, error) {
	switch cfg.ExportStorage {
	case "minio":
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, logger)
	case "local":
		return storage.NewLocalStore(cfg.ExportDir)
	case "none", "":
		logger.Warn("export archive disabled")
		return nil, nil
	default:
		return nil, errors.New("unknown EXPORT_STORAGE: " + cfg.ExportStorage)
	}
}

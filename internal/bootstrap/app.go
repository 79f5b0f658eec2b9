package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wound-backend/internal/analyses"
	"wound-backend/internal/ledger"
	"wound-backend/internal/ledger/sheets"
	"wound-backend/internal/services/health"
	"wound-backend/internal/shared/config"
	"wound-backend/internal/shared/server"
	"wound-backend/internal/shared/storage/db"
	"wound-backend/internal/vision"
	"wound-backend/internal/vision/gemini"
	"wound-backend/internal/vision/openai"
)

// App holds shared dependencies constructed once at process start.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Providers       *vision.Registry
	Ledger          ledger.Sink
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	Health          *health.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB := buildDB(ctx, cfg)

	var repo analyses.Repo
	if sqlDB != nil {
		repo = &analyses.PGRepo{DB: sqlDB}
	} else {
		repo = analyses.NewMemoryRepo()
	}

	providers, models := buildProviders(cfg)
	sink := buildLedger(ctx, cfg)

	svc := analyses.NewService(providers, sink, repo, models, cfg.MaxConcurrentAnalyses)
	handler := analyses.NewHandler(svc)
	healthSvc := health.NewService()

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Providers:       providers,
		Ledger:          sink,
		AnalysesRepo:    repo,
		AnalysesService: svc,
		AnalysisHandler: handler,
		Health:          healthSvc,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
		Health:          healthSvc,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory history")
		return nil
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		log.Printf("bootstrap: database connect failed, falling back to memory: %v", err)
		return nil
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("bootstrap: migrations failed, falling back to memory: %v", err)
		sqlDB.Close()
		return nil
	}
	return sqlDB
}

func buildProviders(cfg config.Config) (*vision.Registry, map[string]string) {
	clients := make(map[string]vision.Client)
	models := make(map[string]string)

	if cfg.OpenAIAPIKey != "" {
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			log.Printf("bootstrap: openai client: %v", err)
		} else {
			clients["chatgpt"] = client
			models["chatgpt"] = cfg.OpenAIModel
		}
	}
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("bootstrap: gemini client: %v", err)
		} else {
			clients["gemini"] = client
			models["gemini"] = cfg.GeminiModel
		}
	}
	if _, ok := clients["chatgpt"]; !ok {
		clients["chatgpt"] = vision.PlaceholderClient{Name: "ChatGPT"}
	}
	if _, ok := clients["gemini"]; !ok {
		clients["gemini"] = vision.PlaceholderClient{Name: "Gemini"}
	}

	return vision.NewRegistry(cfg.DefaultModelID, clients), models
}

func buildLedger(ctx context.Context, cfg config.Config) ledger.Sink {
	sheetCfg := sheets.Config{
		SpreadsheetID: cfg.SheetID,
		Range:         cfg.SheetRange,
		ClientEmail:   cfg.GoogleClientEmail,
		PrivateKey:    cfg.GooglePrivateKey,
		Timeout:       time.Duration(cfg.SheetTimeoutSecs) * time.Second,
	}
	if !sheetCfg.Configured() {
		log.Printf("bootstrap: sheets ledger not configured; audit appends disabled")
		return ledger.NoopSink{}
	}
	sink, err := sheets.New(ctx, sheetCfg)
	if err != nil {
		// Construction failures degrade to the no-op sink; the classification
		// pipeline must not depend on the ledger being reachable.
		log.Printf("bootstrap: sheets ledger unavailable: %v", err)
		return ledger.NoopSink{}
	}
	return sink
}

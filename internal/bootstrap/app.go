package bootstrap

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/isms_status_exporter/internal/config"
	"github.com/locvowork/isms_status_exporter/internal/database"
	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/internal/handler"
	"github.com/locvowork/isms_status_exporter/internal/logger"
	"github.com/locvowork/isms_status_exporter/internal/repository"
	"github.com/locvowork/isms_status_exporter/internal/service"
	"github.com/locvowork/isms_status_exporter/pkg/xlsxtemplate"
)

// RecordStore is a record backend that can both serve and store records.
type RecordStore interface {
	domain.RecordSource
	domain.RecordWriter
}

type App struct {
	Echo    *echo.Echo
	Records RecordStore
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

// Initialize loads configuration and logging and connects the record store.
// It is shared by the server and the seeder.
func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	store, err := NewRecordStore(ctx, config.DefaultEnvConfig.RECORD_SOURCE)
	if err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}
	a.Records = store

	if err := store.Ping(ctx); err != nil {
		logger.WarnLog(ctx, "record store %s is not reachable yet: %v", config.DefaultEnvConfig.RECORD_SOURCE, err)
	} else {
		logger.InfoLog(ctx, "record store %s connected", config.DefaultEnvConfig.RECORD_SOURCE)
	}
	return nil
}

// InitializeServer prepares the HTTP server on top of Initialize.
func (a *App) InitializeServer(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	layout, err := service.LoadReportLayout(config.DefaultEnvConfig.LAYOUT_PATH)
	if err != nil {
		return fmt.Errorf("failed to load report layout: %w", err)
	}

	// Initialize dependencies
	exportSvc := service.NewExportService(
		a.Records,
		a.Records,
		xlsxtemplate.FileLoader(config.DefaultEnvConfig.TEMPLATE_PATH),
		layout,
		config.DefaultEnvConfig.FETCH_TIMEOUT,
	)
	exportHandler := handler.NewExportHandler(exportSvc, config.DefaultEnvConfig.IsDevelopment())

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(exportHandler)

	return nil
}

// NewRecordStore connects the backend named by source.
func NewRecordStore(ctx context.Context, source string) (RecordStore, error) {
	cfg := config.DefaultEnvConfig

	switch source {
	case config.RecordSourceDatastore:
		client, err := database.NewDatastoreClient(ctx, cfg.GCP_PROJECT_ID, cfg.POLICY_KIND, cfg.EVIDENCE_KIND)
		if err != nil {
			return nil, err
		}
		return client, nil

	case config.RecordSourcePostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, err
		}
		return repository.NewSQLRecordRepository(db), nil

	case config.RecordSourceElastic:
		client, err := database.NewElasticSearchClient(cfg.ES_URL, cfg.ES_SNIFF, cfg.ES_POLICY_INDEX, cfg.ES_EVIDENCE_INDEX)
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown record source %q", source)
	}
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(exportHandler *handler.ExportHandler) {
	a.Echo.GET("/healthz", handler.HealthHandler)

	apiGroup := a.Echo.Group("/api")
	apiGroup.GET("/download-excel", exportHandler.DownloadExcelHandler)
}

func (a *App) Run() error {
	defer a.Records.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/docqa/backend/internal/config"
	"github.com/docqa/backend/internal/logging"
	"github.com/docqa/backend/internal/storage"
	"github.com/docqa/backend/internal/web"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Config  *config.AppConfig
	Store   storage.Store
	Records FileRecords
	QA      QuestionService
	Logger  *zap.Logger
	Version string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Files  FileHandler
	Ask    AskHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.QA),
		Files:  NewFileHandler(deps.Config, deps.Store, deps.Records, deps.Logger),
		Ask:    NewAskHandler(deps.QA, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	// Documents
	e.POST("/upload", handlers.Files.HandleUpload)
	e.GET("/files", handlers.Files.HandleListFiles)
	e.GET("/files/msgpack", handlers.Files.HandleListFilesMsgpack)
	e.POST("/clear", handlers.Files.HandleClear)
	e.GET("/download/*", handlers.Files.HandleDownload)

	// Questions
	e.POST("/ask", handlers.Ask.HandleAsk)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg *config.AppConfig, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Use custom error handler
	e.HTTPErrorHandler = NewErrorHandler(ErrorHandlerConfig{
		ExposeErrors: cfg.Server.ExposeErrors,
		MaxUploadMB:  cfg.MaxUploadMB(),
		Logger:       logger,
	})

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logging.RequestLogger(logger, "/health"))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(strconv.FormatInt(cfg.Server.BodyLimitBytes, 10)))

	if cfg.Server.EnableCORS {
		e.Use(middleware.CORS())
	}
}

// NewServer builds a fully wired Echo instance: middleware, API routes and
// the embedded frontend.
func NewServer(deps *Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	SetupMiddleware(e, deps.Config, deps.Logger)
	RegisterRoutes(e, NewHandlers(deps))
	if err := web.RegisterStaticRoutes(e); err != nil {
		return nil, err
	}
	return e, nil
}

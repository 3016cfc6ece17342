// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/docqa/backend/internal/models"
	"github.com/docqa/backend/internal/qa"
)

// FileHandler handles document upload and management
type FileHandler interface {
	HandleUpload(c echo.Context) error
	HandleListFiles(c echo.Context) error
	HandleListFilesMsgpack(c echo.Context) error
	HandleClear(c echo.Context) error
	HandleDownload(c echo.Context) error
}

// AskHandler handles question answering
type AskHandler interface {
	HandleAsk(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// FileRecords is the metadata table behind the file handlers.
// Implemented by *db.Store.
type FileRecords interface {
	Insert(ctx context.Context, filename, originalFilename, status string, size int64) (int64, error)
	List(ctx context.Context) ([]models.FileInfo, error)
	DeleteAll(ctx context.Context) error
}

// QuestionService answers questions. Implemented by *qa.Service.
type QuestionService interface {
	Ask(ctx context.Context, question string) (*qa.Answer, error)
	ModelAvailable() bool
	ModelName() string
}

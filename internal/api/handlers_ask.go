// handlers_ask.go - Question answering handler
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/docqa/backend/internal/models"
	"github.com/docqa/backend/internal/qa"
)

const (
	msgNoQuestion      = "Soru girilmedi"
	msgNoDocuments     = "Henüz hiç dosya yüklenmemiş"
	msgContextTooShort = "Dosya içeriği okunamadı veya çok kısa"
	msgAskFailed       = "Soru cevaplanırken hata oluştu"
)

// AskHandlerImpl implements the AskHandler interface
type AskHandlerImpl struct {
	service QuestionService
	logger  *zap.Logger
}

// NewAskHandler creates a new ask handler instance
func NewAskHandler(service QuestionService, logger *zap.Logger) AskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AskHandlerImpl{service: service, logger: logger}
}

// HandleAsk answers {"question": "..."}. Model trouble still yields 200
// with a textual answer.
func (h *AskHandlerImpl) HandleAsk(c echo.Context) error {
	var req models.AskRequest
	if err := c.Bind(&req); err != nil || req.Question == nil {
		return NewBadRequestError(msgNoQuestion)
	}

	answer, err := h.service.Ask(c.Request().Context(), *req.Question)
	switch {
	case errors.Is(err, qa.ErrNoDocuments):
		return NewBadRequestError(msgNoDocuments)
	case errors.Is(err, qa.ErrContextTooShort):
		return NewBadRequestError(msgContextTooShort)
	case err != nil:
		return NewInternalError(msgAskFailed, err)
	}

	h.logger.Info("Question answered",
		zap.String("source", string(answer.Source)),
		zap.String("matched_by", answer.MatchedBy),
		zap.String("document", answer.Document))

	return c.JSON(http.StatusOK, models.AskResponse{Answer: answer.Text})
}

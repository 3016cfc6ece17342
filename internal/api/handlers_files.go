// handlers_files.go - Document upload, listing, clearing and download handlers
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/docqa/backend/internal/config"
	"github.com/docqa/backend/internal/models"
	"github.com/docqa/backend/internal/storage"
)

const (
	msgNoFileSelected   = "Dosya seçilmedi"
	msgInvalidFormat    = "Geçersiz dosya formatı. Sadece PDF, DOC, DOCX ve TXT dosyaları kabul edilir."
	msgUploadFailed     = "Dosya yüklenirken hata oluştu"
	msgUploadSucceeded  = "Dosya başarıyla işlendi"
	msgListFailed       = "Dosyalar listelenirken hata oluştu"
	msgClearFailed      = "Dosyalar temizlenirken hata oluştu"
	msgClearSucceeded   = "Tüm dosyalar başarıyla silindi"
	msgpackContentType  = "application/msgpack"
)

// FileHandlerImpl implements the FileHandler interface
type FileHandlerImpl struct {
	cfg     *config.AppConfig
	store   storage.Store
	records FileRecords
	logger  *zap.Logger
}

// NewFileHandler creates a new file handler instance
func NewFileHandler(cfg *config.AppConfig, store storage.Store, records FileRecords, logger *zap.Logger) FileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileHandlerImpl{cfg: cfg, store: store, records: records, logger: logger}
}

// HandleUpload accepts a multipart "file" field, stores it and records it.
// Content is not inspected: an empty or corrupt file is accepted.
func (h *FileHandlerImpl) HandleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return err
		}
		return NewBadRequestError(msgNoFileSelected)
	}
	if file.Filename == "" {
		return NewBadRequestError(msgNoFileSelected)
	}
	if !h.cfg.IsAllowedExtension(file.Filename) {
		return NewBadRequestError(msgInvalidFormat)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError(msgUploadFailed, err)
	}
	defer src.Close()

	saved, err := h.store.Save(file.Filename, src)
	if err != nil {
		return NewInternalError(msgUploadFailed, err)
	}

	// The file stays on disk if this fails.
	id, err := h.records.Insert(c.Request().Context(), saved.Name, file.Filename, models.StatusProcessed, saved.Size)
	if err != nil {
		return NewInternalError(msgUploadFailed, err)
	}

	h.logger.Info("File uploaded",
		zap.Int64("id", id),
		zap.String("filename", saved.Name),
		zap.String("original_filename", file.Filename),
		zap.Int64("size", saved.Size))

	return c.JSON(http.StatusOK, models.UploadResult{
		Message:          msgUploadSucceeded,
		Filename:         saved.Name,
		OriginalFilename: file.Filename,
		Size:             saved.Size,
	})
}

// HandleListFiles returns every upload record, newest first.
func (h *FileHandlerImpl) HandleListFiles(c echo.Context) error {
	files, err := h.records.List(c.Request().Context())
	if err != nil {
		return NewInternalError(msgListFailed, err)
	}
	return c.JSON(http.StatusOK, files)
}

// HandleListFilesMsgpack returns the same records MessagePack encoded.
func (h *FileHandlerImpl) HandleListFilesMsgpack(c echo.Context) error {
	files, err := h.records.List(c.Request().Context())
	if err != nil {
		return NewInternalError(msgListFailed, err)
	}

	data, err := msgpack.Marshal(files)
	if err != nil {
		return NewInternalError(msgListFailed, err)
	}
	return c.Blob(http.StatusOK, msgpackContentType, data)
}

// HandleClear deletes every record, then every stored file. The first
// failure aborts.
func (h *FileHandlerImpl) HandleClear(c echo.Context) error {
	if err := h.records.DeleteAll(c.Request().Context()); err != nil {
		return NewInternalError(msgClearFailed, err)
	}
	if err := h.store.Clear(); err != nil {
		return NewInternalError(msgClearFailed, err)
	}

	h.logger.Info("All files cleared")
	return c.JSON(http.StatusOK, models.MessageResponse{Message: msgClearSucceeded})
}

// HandleDownload streams a stored file as an attachment.
func (h *FileHandlerImpl) HandleDownload(c echo.Context) error {
	name := c.Param("*")
	path, err := h.store.Resolve(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NewNotFoundError("Dosya", name)
		}
		return NewInternalError("Dosya indirilemedi", err)
	}
	return c.Attachment(path, name)
}

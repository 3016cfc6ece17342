package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func runErrorHandler(t *testing.T, cfg ErrorHandlerConfig, method string, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/x", nil), rec)
	NewErrorHandler(cfg)(err, c)
	return rec
}

func TestErrorHandler(t *testing.T) {
	cause := errors.New("database is locked")
	tests := []struct {
		name     string
		expose   bool
		err      error
		wantCode int
		wantBody string
	}{
		{"bad request", true, NewBadRequestError("Soru girilmedi"), 400, `{"error":"Soru girilmedi"}`},
		{"internal exposed", true, NewInternalError("Dosyalar listelenirken hata oluştu", cause), 500,
			`{"error":"Dosyalar listelenirken hata oluştu: database is locked"}`},
		{"internal hidden", false, NewInternalError("Dosyalar listelenirken hata oluştu", cause), 500,
			`{"error":"Dosyalar listelenirken hata oluştu"}`},
		{"body limit", true, echo.ErrStatusRequestEntityTooLarge, 413,
			`{"error":"Dosya boyutu çok büyük","message":"Maksimum dosya boyutu: 100MB"}`},
		{"echo not found", true, echo.ErrNotFound, 404, `{"error":"Not Found"}`},
		{"unknown exposed", true, cause, 500, `{"error":"Beklenmeyen bir hata oluştu: database is locked"}`},
		{"unknown hidden", false, cause, 500, `{"error":"Beklenmeyen bir hata oluştu"}`},
		{"not found", true, NewNotFoundError("Dosya", "a.txt"), 404, `{"error":"Dosya bulunamadı: a.txt"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runErrorHandler(t, ErrorHandlerConfig{ExposeErrors: tt.expose, MaxUploadMB: 100}, http.MethodGet, tt.err)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestErrorHandler_Head(t *testing.T) {
	rec := runErrorHandler(t, ErrorHandlerConfig{}, http.MethodHead, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_LogsServerErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := ErrorHandlerConfig{ExposeErrors: true, Logger: zap.New(core)}

	runErrorHandler(t, cfg, http.MethodGet, NewBadRequestError("Soru girilmedi"))
	assert.Equal(t, 0, logs.Len(), "client errors are not logged")

	runErrorHandler(t, cfg, http.MethodPost, NewInternalError("Dosya yüklenirken hata oluştu", errors.New("disk full")))
	entries := logs.FilterMessage("Request failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, int64(500), entries[0].ContextMap()["status"])
		assert.Equal(t, "Dosya yüklenirken hata oluştu: disk full", entries[0].ContextMap()["error"])
	}
}

func TestAPIError_Error(t *testing.T) {
	err := NewInternalError("Dosyalar temizlenirken hata oluştu", errors.New("permission denied"))
	assert.Equal(t, "Dosyalar temizlenirken hata oluştu: permission denied", err.Error())
	assert.Equal(t, "Soru girilmedi", NewBadRequestError("Soru girilmedi").Error())
}

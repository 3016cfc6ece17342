package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/docqa/backend/internal/config"
	"github.com/docqa/backend/internal/db"
	"github.com/docqa/backend/internal/extract"
	"github.com/docqa/backend/internal/qa"
	"github.com/docqa/backend/internal/storage"
	"github.com/docqa/backend/internal/testutil"
)

// testServer is a fully wired server over a temp directory and SQLite file.
type testServer struct {
	e       *echo.Echo
	cfg     *config.AppConfig
	store   *storage.LocalStore
	records *db.Store
}

func newTestServer(t *testing.T, model *testutil.ModelServer) *testServer {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Storage.UploadDir = filepath.Join(dir, "uploads")
	cfg.Database.DSN = filepath.Join(dir, "database.db")

	store, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	require.NoError(t, err)

	records, err := db.Open(context.Background(), cfg.Database.Driver, cfg.Database.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { records.Close() })

	var m qa.Model
	if model != nil {
		cfg.Model.BaseURL = model.URL
		m = qa.NewHTTPModel(cfg.Model, nil)
	}
	svc := qa.NewService(cfg.QA, store, extract.New(nil), qa.NewAnswerer(m, cfg.QA.MinAnswerChars, nil), nil)

	e, err := NewServer(&Dependencies{
		Config:  cfg,
		Store:   store,
		Records: records,
		QA:      svc,
		Version: "test",
	})
	require.NoError(t, err)

	return &testServer{e: e, cfg: cfg, store: store, records: records}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "file", filename, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	return s.do(req)
}

func (s *testServer) ask(question string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"question": question})
	return s.postJSON("/ask", string(body))
}

func (s *testServer) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req)
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func multipartBody(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

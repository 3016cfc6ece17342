// handlers_ask_test.go - Tests for the question handler
package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/backend/internal/qa"
	"github.com/docqa/backend/internal/testutil"
)

func aliceAnswer() string {
	return qa.CannedAnswers()[0].Answer
}

func TestAsk_MissingQuestion(t *testing.T) {
	s := newTestServer(t, nil)

	for _, body := range []string{`{}`, `{"question": null}`, `not json`, ``} {
		rec := s.postJSON("/ask", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "Soru girilmedi", decodeMap(t, rec)["error"])
	}
}

func TestAsk_CannedWithoutDocuments(t *testing.T) {
	s := newTestServer(t, nil)

	for _, q := range []string{"Alice kimdir?", "ALICE KIMDIR?", "alice kimdir?"} {
		rec := s.ask(q)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, aliceAnswer(), decodeMap(t, rec)["answer"])
	}
}

func TestAsk_NoDocuments(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.ask("Bugün hava nasıl?")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Henüz hiç dosya yüklenmemiş", decodeMap(t, rec)["error"])
}

func TestAsk_ContextTooShort(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.upload(t, "short.txt", []byte("kısa")).Code)

	rec := s.ask("Bugün hava nasıl?")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Dosya içeriği okunamadı veya çok kısa", decodeMap(t, rec)["error"])
}

func TestAsk_UnreadableDocument(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.upload(t, "broken.docx", []byte("this is not a zip archive")).Code)

	rec := s.ask("Bugün hava nasıl?")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Dosya içeriği okunamadı veya çok kısa", decodeMap(t, rec)["error"])
}

func TestAsk_ModelUnavailable(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.upload(t, "book.txt", []byte(testutil.AliceParagraph)).Code)

	rec := s.ask("Bugün hava nasıl?")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, qa.ModelUnavailableMessage, decodeMap(t, rec)["answer"])
}

func TestAsk_UploadRoundTripUsesCannedAnswer(t *testing.T) {
	ms := testutil.NewModelServer(t, "bert-base-uncased")
	s := newTestServer(t, ms)
	require.Equal(t, http.StatusOK, s.upload(t, "alice.txt", []byte("Hello world, this is Alice.")).Code)

	rec := s.ask("Alice kimdir?")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, aliceAnswer(), decodeMap(t, rec)["answer"])
	assert.Empty(t, ms.Calls(), "the model must not be invoked")
}

func TestAsk_ModelAnswer(t *testing.T) {
	ms := testutil.NewModelServer(t, "bert-base-uncased")
	s := newTestServer(t, ms)
	require.Equal(t, http.StatusOK, s.upload(t, "alice.txt", []byte("Hello world, this is Alice.")).Code)

	rec := s.ask("Bugün hava nasıl?")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a curious girl", decodeMap(t, rec)["answer"])

	calls := ms.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Hello world, this is Alice.", calls[0].Context)
}

func TestAsk_ModelErrorIsStillOK(t *testing.T) {
	ms := testutil.NewModelServer(t, "bert-base-uncased")
	ms.FailPredict(http.StatusInternalServerError)
	s := newTestServer(t, ms)
	require.Equal(t, http.StatusOK, s.upload(t, "alice.txt", []byte("Hello world, this is Alice.")).Code)

	rec := s.ask("Bugün hava nasıl?")
	require.Equal(t, http.StatusOK, rec.Code)
	answer, _ := decodeMap(t, rec)["answer"].(string)
	assert.True(t, strings.HasPrefix(answer, "Soru cevaplanırken bir hata oluştu: "), answer)
}

// stubQuestions is a QuestionService returning a fixed result.
type stubQuestions struct {
	answer *qa.Answer
	err    error
}

func (s stubQuestions) Ask(context.Context, string) (*qa.Answer, error) { return s.answer, s.err }
func (s stubQuestions) ModelAvailable() bool { return true }
func (s stubQuestions) ModelName() string { return "stub" }

func TestAskHandler_InternalError(t *testing.T) {
	boom := errors.New("boom")
	handler := NewAskHandler(stubQuestions{err: boom}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.HandleAsk(c)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Soru cevaplanırken hata oluştu", apiErr.Message)
	assert.ErrorIs(t, err, boom)
}

func TestAskHandler_Success(t *testing.T) {
	handler := NewAskHandler(stubQuestions{answer: &qa.Answer{Text: "cevap", Source: qa.SourceModel}}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.HandleAsk(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"cevap"}`, rec.Body.String())
}

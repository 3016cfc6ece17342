package qa

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/backend/internal/config"
	"github.com/docqa/backend/internal/testutil"
)

func modelConfig(url string) config.ModelConfig {
	cfg := config.DefaultConfig().Model
	cfg.BaseURL = url
	return cfg
}

func TestLoad_Success(t *testing.T) {
	ms := testutil.NewModelServer(t, "bert-base-uncased")

	m, err := Load(context.Background(), modelConfig(ms.URL+"/"), nil)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "bert-base-uncased", m.Name())

	pred, err := m.Predict(context.Background(), "Alice kim?", "Alice is a curious girl.")
	require.NoError(t, err)
	assert.Equal(t, "[CLS]", pred.Tokens[0])
	assert.Len(t, pred.StartLogits, len(pred.Tokens))

	calls := ms.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "bert-base-uncased", calls[0].Model)
	assert.Equal(t, "Alice kim?", calls[0].Question)
	assert.Equal(t, "Alice is a curious girl.", calls[0].Context)
	assert.Equal(t, 512, calls[0].MaxLength)
	assert.Equal(t, "only_second", calls[0].Truncation)
}

func TestLoad_Disabled(t *testing.T) {
	cfg := modelConfig("http://127.0.0.1:1")
	cfg.Enabled = false

	m, err := Load(context.Background(), cfg, nil)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestLoad_Unhealthy(t *testing.T) {
	ms := testutil.NewModelServer(t, "bert-base-uncased")
	ms.FailHealth(http.StatusServiceUnavailable)

	m, err := Load(context.Background(), modelConfig(ms.URL), nil)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestLoad_WrongModel(t *testing.T) {
	ms := testutil.NewModelServer(t, "distilbert")

	_, err := Load(context.Background(), modelConfig(ms.URL), nil)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), `"distilbert"`)
}

func TestLoad_Unreachable(t *testing.T) {
	ms := testutil.NewModelServer(t, "bert-base-uncased")
	url := ms.URL
	ms.Close()

	_, err := Load(context.Background(), modelConfig(url), nil)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestHTTPModel_PredictFailure(t *testing.T) {
	ms := testutil.NewModelServer(t, "bert-base-uncased")
	ms.FailPredict(http.StatusInternalServerError)

	m := NewHTTPModel(modelConfig(ms.URL), nil)
	_, err := m.Predict(context.Background(), "q", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")

	a := NewAnswerer(m, 2, nil)
	assert.Contains(t, a.Answer(context.Background(), "q", "c"), "Soru cevaplanırken bir hata oluştu: HTTP 500")
}

func TestHTTPModel_AnswerEndToEnd(t *testing.T) {
	ms := testutil.NewModelServer(t, "bert-base-uncased")
	m := NewHTTPModel(modelConfig(ms.URL), nil)

	a := NewAnswerer(m, 2, nil)
	assert.Equal(t, "a curious girl", a.Answer(context.Background(), "who is alice", "a curious girl"))

	ms.SetSpan([]string{"[CLS]", "x", "[SEP]", "lew", "##is", "car", "##roll", "[SEP]"}, 3, 6)
	assert.Equal(t, "lewis carroll", a.Answer(context.Background(), "x", "lewis carroll"))
}

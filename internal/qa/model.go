package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/docqa/backend/internal/config"
)

// ErrModelUnavailable is returned by Load when the model cannot be used.
var ErrModelUnavailable = errors.New("qa model unavailable")

// Prediction is the raw output of an extractive QA model over the encoded
// question/context pair. The three slices are index-aligned.
type Prediction struct {
	Tokens      []string  `json:"tokens"`
	StartLogits []float64 `json:"start_logits"`
	EndLogits   []float64 `json:"end_logits"`
}

// Validate checks that the prediction can be decoded.
func (p *Prediction) Validate() error {
	if len(p.Tokens) == 0 {
		return errors.New("prediction has no tokens")
	}
	if len(p.StartLogits) != len(p.Tokens) || len(p.EndLogits) != len(p.Tokens) {
		return fmt.Errorf("prediction length mismatch: %d tokens, %d start logits, %d end logits",
			len(p.Tokens), len(p.StartLogits), len(p.EndLogits))
	}
	return nil
}

// Model locates answer spans.
type Model interface {
	Name() string
	Predict(ctx context.Context, question, passage string) (*Prediction, error)
}

// HTTPModel talks to an inference server exposing /health and /predict.
type HTTPModel struct {
	baseURL   string
	name      string
	maxLength int
	client    *http.Client
}

// NewHTTPModel builds a client; it does not contact the server.
func NewHTTPModel(cfg config.ModelConfig, client *http.Client) *HTTPModel {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	return &HTTPModel{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		name:      cfg.Name,
		maxLength: cfg.MaxLength,
		client:    client,
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

type predictRequest struct {
	Model      string `json:"model"`
	Question   string `json:"question"`
	Context    string `json:"context"`
	MaxLength  int    `json:"max_length"`
	Truncation string `json:"truncation"`
}

func (m *HTTPModel) Name() string { return m.name }

// Health asks the server whether the model is loaded.
func (m *HTTPModel) Health(ctx context.Context) error {
	url := m.baseURL + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, url)
	}
	var h healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if h.Status != "ok" {
		return fmt.Errorf("model server status %q", h.Status)
	}
	if h.Model != "" && m.name != "" && h.Model != m.name {
		return fmt.Errorf("model server serves %q, want %q", h.Model, m.name)
	}
	return nil
}

// Predict encodes question and context as one sequence pair, truncating the
// context side to fit maxLength.
func (m *HTTPModel) Predict(ctx context.Context, question, passage string) (*Prediction, error) {
	body, err := json.Marshal(predictRequest{
		Model:      m.name,
		Question:   question,
		Context:    passage,
		MaxLength:  m.maxLength,
		Truncation: "only_second",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := m.baseURL + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, url)
	}
	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func statusError(resp *http.Response, url string) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, strings.TrimSpace(string(b)))
}

// Load resolves the model once at startup. A disabled or unreachable model
// yields ErrModelUnavailable; callers keep running without it.
func Load(ctx context.Context, cfg config.ModelConfig, logger *zap.Logger) (Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("QA model disabled by configuration")
		return nil, fmt.Errorf("%w: disabled", ErrModelUnavailable)
	}

	logger.Info("Loading QA model", zap.String("model", cfg.Name), zap.String("url", cfg.BaseURL))
	m := NewHTTPModel(cfg, nil)
	if err := m.Health(ctx); err != nil {
		logger.Warn("QA model load failed", zap.String("model", cfg.Name), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	logger.Info("QA model loaded", zap.String("model", cfg.Name))
	return m, nil
}

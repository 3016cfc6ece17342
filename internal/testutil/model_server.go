package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// PredictCall records one /predict request.
type PredictCall struct {
	Model      string `json:"model"`
	Question   string `json:"question"`
	Context    string `json:"context"`
	MaxLength  int    `json:"max_length"`
	Truncation string `json:"truncation"`
}

// ModelServer fakes the QA inference server. By default it answers every
// question with Answer, emitted as WordPiece tokens surrounded by [CLS] and
// [SEP] with logits peaking on the answer span.
type ModelServer struct {
	*httptest.Server

	mu          sync.Mutex
	calls       []PredictCall
	name        string
	tokens      []string
	start, end  int
	healthCode  int
	predictCode int
}

// NewModelServer starts a fake server that closes with the test.
func NewModelServer(t testing.TB, name string) *ModelServer {
	t.Helper()
	ms := &ModelServer{name: name, healthCode: http.StatusOK, predictCode: http.StatusOK}
	ms.SetSpan([]string{"[CLS]", "who", "is", "alice", "[SEP]", "a", "curious", "girl", "[SEP]"}, 5, 7)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", ms.handleHealth)
	mux.HandleFunc("/predict", ms.handlePredict)
	ms.Server = httptest.NewServer(mux)
	t.Cleanup(ms.Close)
	return ms
}

// SetSpan sets the tokens returned by /predict and the argmax positions of
// the start and end logits.
func (ms *ModelServer) SetSpan(tokens []string, start, end int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.tokens, ms.start, ms.end = tokens, start, end
}

// FailHealth makes /health respond with code.
func (ms *ModelServer) FailHealth(code int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.healthCode = code
}

// FailPredict makes /predict respond with code.
func (ms *ModelServer) FailPredict(code int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.predictCode = code
}

// Calls returns the /predict requests received so far.
func (ms *ModelServer) Calls() []PredictCall {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]PredictCall(nil), ms.calls...)
}

func (ms *ModelServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	code := ms.healthCode
	ms.mu.Unlock()

	if code != http.StatusOK {
		http.Error(w, "model not loaded", code)
		return
	}
	writeJSON(w, map[string]string{"status": "ok", "model": ms.name})
}

func (ms *ModelServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var call PredictCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ms.mu.Lock()
	ms.calls = append(ms.calls, call)
	code, tokens, start, end := ms.predictCode, ms.tokens, ms.start, ms.end
	ms.mu.Unlock()

	if code != http.StatusOK {
		http.Error(w, "inference failed", code)
		return
	}
	writeJSON(w, map[string]any{
		"tokens":       tokens,
		"start_logits": peakedLogits(len(tokens), start),
		"end_logits":   peakedLogits(len(tokens), end),
	})
}

func peakedLogits(n, peak int) []float64 {
	logits := make([]float64, n)
	for i := range logits {
		logits[i] = -1
	}
	if peak >= 0 && peak < n {
		logits[peak] = 5
	}
	return logits
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

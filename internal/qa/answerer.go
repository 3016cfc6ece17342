package qa

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Fixed answers produced by the answerer itself.
const (
	ModelUnavailableMessage = "Model yüklenemedi. Lütfen daha sonra tekrar deneyin."
	NotFoundMessage         = "Üzgünüm, bu sorunun cevabını bulamadım."
	errorAnswerPrefix       = "Soru cevaplanırken bir hata oluştu: "
)

var specialTokens = []string{"[CLS]", "[SEP]"}

// Answerer turns a model prediction into answer text. It always produces a
// string: failures become text rather than errors.
type Answerer struct {
	model    Model
	minChars int
	logger   *zap.Logger
}

// NewAnswerer wraps model, which may be nil when loading failed.
func NewAnswerer(model Model, minAnswerChars int, logger *zap.Logger) *Answerer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Answerer{model: model, minChars: minAnswerChars, logger: logger}
}

// Available reports whether a model was loaded.
func (a *Answerer) Available() bool {
	return a != nil && a.model != nil
}

// ModelName is empty when no model is loaded.
func (a *Answerer) ModelName() string {
	if !a.Available() {
		return ""
	}
	return a.model.Name()
}

// Answer extracts the best span of passage answering question.
func (a *Answerer) Answer(ctx context.Context, question, passage string) string {
	if !a.Available() {
		return ModelUnavailableMessage
	}

	pred, err := a.model.Predict(ctx, question, passage)
	if err == nil {
		err = pred.Validate()
	}
	if err != nil {
		a.logger.Error("QA model inference failed", zap.Error(err))
		return errorAnswer(err)
	}

	start, end := argmax(pred.StartLogits), argmax(pred.EndLogits)
	if end < start {
		return NotFoundMessage
	}

	answer := Detokenize(pred.Tokens[start : end+1])
	for _, t := range specialTokens {
		answer = strings.ReplaceAll(answer, t, "")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" || runeLen(answer) < a.minChars {
		return NotFoundMessage
	}
	return answer
}

// Detokenize joins WordPiece tokens, gluing "##" continuations onto the
// previous token.
func Detokenize(tokens []string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.Join(tokens, " "), " ##", ""))
}

// argmax returns the first index of the largest value.
func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

// IsNotFound reports whether an answer is an apology rather than content.
func IsNotFound(answer string) bool {
	return strings.Contains(strings.ToLower(answer), "üzgünüm")
}

func errorAnswer(err error) string {
	return fmt.Sprintf("%s%v", errorAnswerPrefix, err)
}

package qa

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/docqa/backend/internal/config"
	"github.com/docqa/backend/internal/storage"
)

var (
	// ErrNoDocuments means nothing has been uploaded yet.
	ErrNoDocuments = errors.New("no documents uploaded")
	// ErrContextTooShort means the latest document yielded no usable text.
	ErrContextTooShort = errors.New("document content unreadable or too short")
)

// Source tells where an answer came from.
type Source string

const (
	SourceCanned   Source = "canned"
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Answer is the result of Service.Ask.
type Answer struct {
	Text      string
	Source    Source
	MatchedBy string
	Document  string
}

// DocumentSource yields the document questions are answered from.
type DocumentSource interface {
	Latest() (string, error)
}

// TextExtractor reads plain text out of a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Service answers questions: canned table first, then the model over the
// most recent upload, then canned fallbacks when the model apologises.
type Service struct {
	cfg       config.QAConfig
	matcher   *Matcher
	docs      DocumentSource
	extractor TextExtractor
	answerer  *Answerer
	logger    *zap.Logger
}

// NewService wires the dispatcher.
func NewService(cfg config.QAConfig, docs DocumentSource, extractor TextExtractor, answerer *Answerer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		matcher:   NewMatcher(cfg.FuzzyThreshold),
		docs:      docs,
		extractor: extractor,
		answerer:  answerer,
		logger:    logger,
	}
}

// ModelAvailable reports whether model-backed answers are possible.
func (s *Service) ModelAvailable() bool { return s.answerer.Available() }

// ModelName returns the loaded model name, if any.
func (s *Service) ModelName() string { return s.answerer.ModelName() }

// Ask answers question. ErrNoDocuments and ErrContextTooShort are client
// errors; anything else is an internal failure.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	q := NewQuery(question)
	s.logger.Info("Question received", zap.String("question", question))

	if text, how, ok := s.matcher.Match(q); ok {
		s.logger.Debug("Canned answer", zap.String("matched_by", how))
		return &Answer{Text: text, Source: SourceCanned, MatchedBy: how}, nil
	}

	path, err := s.docs.Latest()
	if err != nil {
		if errors.Is(err, storage.ErrNoFiles) {
			return nil, ErrNoDocuments
		}
		return nil, fmt.Errorf("find latest document: %w", err)
	}
	s.logger.Info("Using document", zap.String("path", path))

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.logger.Warn("Document read failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrContextTooShort, err)
	}
	if runeLen(text) < s.cfg.MinContextChars {
		return nil, ErrContextTooShort
	}

	passage := TruncateContext(question, text, s.cfg)
	s.logger.Debug("Context prepared",
		zap.Int("document_chars", runeLen(text)),
		zap.Int("context_chars", runeLen(passage)))

	text = s.answerer.Answer(ctx, question, passage)
	if !IsNotFound(text) {
		return &Answer{Text: text, Source: SourceModel, Document: path}, nil
	}

	fallback, how := s.matcher.Fallback(q)
	return &Answer{Text: fallback, Source: SourceFallback, MatchedBy: how, Document: path}, nil
}

// Package recommend serves prepaid recommendation batches: it meters
// sessions against the quota ledger and assembles batches from a streamed
// model response, item by item.
package recommend

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/prefetch"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/recommendation"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/session"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/service/points"
)

const defaultBatchSize = 5

// PromptBuilder produces the generation request for one batch. What the
// model is asked to generate is the caller's concern; this service only
// governs metering and decoding.
type PromptBuilder interface {
	BatchRequest(sessionContext session.Context, category string, exclude []string, batchSize int) *llm.GenerateRequest
}

// Biller settles a charge before paid work proceeds.
type Biller interface {
	ChargeFor(ctx context.Context, userID, action string, n int) (int, error)
}

// Service coordinates sessions, billing and batch extraction.
type Service struct {
	model     llm.StreamingModel
	sessions  *session.Store
	biller    Biller
	prompts   PromptBuilder
	batchSize int
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBatchSize sets how many items one batch holds.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a recommendation service.
func New(model llm.StreamingModel, sessions *session.Store, biller Biller, prompts PromptBuilder, options ...Option) *Service {
	s := &Service{
		model:     model,
		sessions:  sessions,
		biller:    biller,
		prompts:   prompts,
		batchSize: defaultBatchSize,
		logger:    zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// InitSession settles payment for the requested quota and opens a session.
// The charge must succeed before any session state exists; a failed charge
// creates nothing.
func (s *Service) InitSession(ctx context.Context, userID string, quota int, sessionContext session.Context) (string, error) {
	if _, err := s.biller.ChargeFor(ctx, userID, points.ActionRecommendInit, quota); err != nil {
		return "", err
	}
	id := s.sessions.Create(userID, quota, sessionContext)
	s.logger.Info("recommendation session opened",
		zap.String("sessionId", id),
		zap.Int("quota", quota),
	)
	return id, nil
}

// NextBatch consumes one prepaid credit and returns the next batch for the
// session's search context. Quota, ownership and existence violations
// surface as the session package's typed errors; no model call happens in
// those cases.
func (s *Service) NextBatch(ctx context.Context, sessionID, userID, category string, exclude []string) ([]recommendation.Item, error) {
	if err := s.sessions.ConsumeFor(sessionID, userID); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.fetchBatch(ctx, sess.Context, category, exclude)
}

// FetchPaid serves a single batch outside any session, charging for it
// individually.
func (s *Service) FetchPaid(ctx context.Context, userID string, sessionContext session.Context, category string, exclude []string) ([]recommendation.Item, error) {
	if _, err := s.biller.ChargeFor(ctx, userID, points.ActionRecommendMore, 1); err != nil {
		return nil, err
	}
	return s.fetchBatch(ctx, sessionContext, category, exclude)
}

// Fetcher binds the service to one session so a prefetch.Manager can use
// it as its batch source.
func (s *Service) Fetcher(sessionID, userID string) prefetch.Fetcher {
	return &sessionFetcher{service: s, sessionID: sessionID, userID: userID}
}

type sessionFetcher struct {
	service   *Service
	sessionID string
	userID    string
}

func (f *sessionFetcher) FetchBatch(ctx context.Context, query prefetch.Query, exclude []string) ([]recommendation.Item, error) {
	return f.service.NextBatch(ctx, f.sessionID, f.userID, query.Category, exclude)
}

// fetchBatch streams one model response and collects up to batchSize valid
// items. The stream is cancelled as soon as the batch is full; a stream
// that fails after yielding some items degrades to a short batch rather
// than an error.
func (s *Service) fetchBatch(ctx context.Context, sessionContext session.Context, category string, exclude []string) ([]recommendation.Item, error) {
	request := s.prompts.BatchRequest(sessionContext, category, exclude, s.batchSize)

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := s.model.Stream(streamCtx, request)
	if err != nil {
		return nil, err
	}

	var items []recommendation.Item
	err = recommendation.Extract(streamCtx, events, func(item recommendation.Item) {
		if len(items) < s.batchSize {
			items = append(items, item)
		}
		if len(items) == s.batchSize {
			cancel()
		}
	})
	if err != nil {
		if errors.Is(err, context.Canceled) && len(items) == s.batchSize {
			return items, nil
		}
		if len(items) == 0 {
			return nil, err
		}
		s.logger.Warn("recommendation stream ended early",
			zap.Int("items", len(items)),
			zap.Error(err),
		)
	}
	return items, nil
}

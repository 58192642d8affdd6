// Package planner turns one streamed model response into live narration
// plus an updated trip document.
package planner

import (
	"context"

	"go.uber.org/zap"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/transduce"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/trip"
)

// Update is the outcome of one planning round. Patched reports whether the
// model proposed an itinerary change; when false, Document equals the
// original and the response was narration-only.
type Update struct {
	Document trip.Document
	Patched  bool
}

// Service runs planning rounds against one streaming backend.
type Service struct {
	model     llm.StreamingModel
	delimiter string
	logger    *zap.Logger
}

// New creates a planner service. A nil logger disables logging.
func New(model llm.StreamingModel, delimiter string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{model: model, delimiter: delimiter, logger: logger}
}

// Update streams one model response, pushing narration fragments to
// onNarration as they arrive, and returns the document with the model's
// patch applied.
//
// Failure policy: a payload that does not parse as a patch degrades to "no
// patch produced"; the narration the user already saw stands and the
// original document is returned unchanged. Only transport-level stream
// failures surface as errors; retrying is the caller's decision.
func (s *Service) Update(ctx context.Context, document trip.Document, request *llm.GenerateRequest, onNarration func(text string)) (Update, error) {
	events, err := s.model.Stream(ctx, request)
	if err != nil {
		return Update{}, err
	}

	result, err := transduce.Transduce(ctx, events, s.delimiter, onNarration)
	if err != nil {
		s.logger.Warn("planning stream failed", zap.Error(err))
		return Update{}, err
	}
	if !result.PayloadSeen {
		return Update{Document: document}, nil
	}

	patch, err := trip.ParsePatch(result.Payload)
	if err != nil {
		s.logger.Warn("discarding unparseable itinerary payload", zap.Error(err))
		return Update{Document: document}, nil
	}
	if patch.Empty() {
		return Update{Document: document}, nil
	}

	merged := trip.Merge(document, patch)
	s.logger.Info("itinerary patch applied",
		zap.Int("patchDays", len(patch.Days)),
		zap.Int("totalDays", len(merged.Days)),
	)
	return Update{Document: merged, Patched: true}, nil
}

package travelplanner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider"
	basecfg "github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider/base"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/session"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/service/config"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/service/planner"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/service/points"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/service/recommend"
)

var (
	configURL  string
	configOnce sync.Once
)

func setConfigURL(URL string) {
	configOnce.Do(func() {
		configURL = URL
	})
}

// runtime bundles the services a sub-command works with.
type runtime struct {
	config    *config.Config
	model     llm.StreamingModel
	sessions  *session.Store
	points    *points.Service
	planner   *planner.Service
	recommend *recommend.Service
	logger    *zap.Logger
}

// newRuntime loads the configuration and wires the service graph.
func newRuntime(ctx context.Context) (*runtime, error) {
	if configURL == "" {
		return nil, fmt.Errorf("config was empty, use -f <url>")
	}
	cfg, err := config.Load(ctx, configURL)
	if err != nil {
		return nil, err
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	modelConfig := cfg.Models.Find(cfg.Default.Model)
	modelConfig.Options.UsageListener = usageLogger(logger)
	model, err := provider.New().CreateModel(ctx, &modelConfig.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %v, %w", cfg.Default.Model, err)
	}

	var sessionOptions []session.Option
	if cfg.Session.TTL > 0 {
		sessionOptions = append(sessionOptions, session.WithTTL(cfg.Session.TTL))
	}
	if cfg.Session.SweepInterval > 0 {
		sessionOptions = append(sessionOptions, session.WithSweepInterval(cfg.Session.SweepInterval))
	}
	sessions := session.NewStore(sessionOptions...)

	pointsSvc := points.NewService(
		points.NewLedger(cfg.Points.LedgerURL),
		points.NewPricing(points.StaticPrices(cfg.Points.Prices)),
	)
	return &runtime{
		config:   cfg,
		model:    model,
		sessions: sessions,
		points:   pointsSvc,
		planner:  planner.New(model, cfg.Planner.Delimiter, logger),
		recommend: recommend.New(model, sessions, pointsSvc, &batchPrompts{},
			recommend.WithBatchSize(cfg.Recommend.BatchSize),
			recommend.WithLogger(logger),
		),
		logger: logger,
	}, nil
}

// usageLogger reports per-request token consumption so provider bills can
// be reconciled against the points ledger.
func usageLogger(logger *zap.Logger) basecfg.UsageListener {
	return func(model string, usage *llm.Usage) {
		logger.Info("model usage",
			zap.String("model", model),
			zap.Int("promptTokens", usage.PromptTokens),
			zap.Int("completionTokens", usage.CompletionTokens),
			zap.Int("totalTokens", usage.TotalTokens),
		)
	}
}

// batchPrompts frames one recommendation batch request.
type batchPrompts struct{}

func (p *batchPrompts) BatchRequest(sessionContext session.Context, category string, exclude []string, batchSize int) *llm.GenerateRequest {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommend %d %s places to visit near %s.", batchSize, category, sessionContext.Location)
	if len(sessionContext.Interests) > 0 {
		fmt.Fprintf(&sb, " The traveller is interested in: %s.", strings.Join(sessionContext.Interests, ", "))
	}
	if len(exclude) > 0 {
		fmt.Fprintf(&sb, " Do not repeat: %s.", strings.Join(exclude, ", "))
	}
	sb.WriteString(` Emit each place as a JSON object with "name", "description", "category", "reason" and "openHours" fields.`)
	return &llm.GenerateRequest{
		Messages: []llm.Message{llm.NewUserMessage(sb.String())},
	}
}

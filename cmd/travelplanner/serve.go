package travelplanner

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"go.uber.org/zap"

	adapter "github.com/JasonHongGG/TravelPlannerDashboard-sub000/adapter/http"
)

// ServeCmd starts the HTTP API server.
// Usage: travelplanner -f config.yaml serve --addr :8080
type ServeCmd struct {
	Addr string `short:"a" long:"addr" description:"listen address, overrides config"`
}

func (s *ServeCmd) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	if err := agent.Listen(agent.Options{}); err != nil {
		rt.logger.Warn("gops agent unavailable", zap.Error(err))
	}
	defer agent.Close()

	rt.sessions.StartSweeper(ctx)

	addr := s.Addr
	if addr == "" {
		addr = rt.config.HTTP.Addr
	}
	handler := adapter.New(rt.planner, rt.recommend, rt.points, rt.config.Recommend.DefaultQuota, rt.logger)
	return adapter.Serve(ctx, addr, adapter.NewServer(handler, rt.logger), rt.logger)
}

package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/torrejon/vecinored/internal/config"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/domain/session"
	"github.com/torrejon/vecinored/internal/health"
	"github.com/torrejon/vecinored/internal/mcp"
	"github.com/torrejon/vecinored/internal/metrics"
	"github.com/torrejon/vecinored/internal/plan"
	"github.com/torrejon/vecinored/internal/registry"
	"github.com/torrejon/vecinored/internal/sqlite"
	"github.com/torrejon/vecinored/internal/transport"
)

// app is the assembled service. One controller and one session store
// serve every surface of the process.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	db         *sqlite.DB
	controller *registry.Controller
	sessions   *session.Store
	activity   *activity.Service
	checker    *health.Checker
	metrics    *metrics.Registry
	tokens     *transport.TokenIssuer
	mcp        *sdkmcp.Server
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	neighborRepo := sqlite.NewNeighborRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	kv := sqlite.NewKVStore(db)

	activitySvc := activity.NewService(activityRepo, logger)
	neighborSvc := neighbor.NewService(neighborRepo, activitySvc, logger)

	sessions := session.NewStore(kv, session.NewLocalAuthenticator(cfg.Auth.Passcode, nil), logger,
		session.WithLogoutWindow(cfg.Session.LogoutWindow))
	if err := sessions.Init(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	plans, err := newPlanGenerator(ctx, cfg.AI, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reg := metrics.New()
	controller := registry.NewController(neighborSvc, plans, logger,
		registry.WithRecorder(reg),
		registry.WithLogoutIndicator(sessions),
	)
	// A failed initial load leaves an empty census and the error banner set.
	if err := controller.Load(ctx); err != nil {
		logger.Warn("initial load failed", "error", err)
	}

	secret, err := tokenSecret(cfg.Auth.TokenSecret, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		controller: controller,
		sessions:   sessions,
		activity:   activitySvc,
		checker:    health.NewChecker(db, cfg.Version),
		metrics:    reg,
		tokens:     transport.NewTokenIssuer(secret, cfg.Auth.TokenTTL),
		mcp: mcp.NewServer(mcp.Config{
			Controller: controller,
			Activity:   activitySvc,
			Version:    cfg.Version,
			Logger:     logger,
		}),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func newPlanGenerator(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (registry.PlanGenerator, error) {
	if cfg.APIKey == "" {
		logger.Info("no AI API key configured, using static welcome plans")
		return plan.NewStatic(), nil
	}

	gemini, err := plan.NewGemini(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	breakerCfg := plan.DefaultBreakerConfig()
	if cfg.Breaker.FailureThreshold > 0 {
		breakerCfg.FailureThreshold = cfg.Breaker.FailureThreshold
	}
	if cfg.Breaker.Timeout > 0 {
		breakerCfg.Timeout = cfg.Breaker.Timeout
	}
	if cfg.Breaker.Interval > 0 {
		breakerCfg.Interval = cfg.Breaker.Interval
	}
	logger.Info("using gemini welcome plans", "model", gemini.Name())
	return plan.NewBreaker(gemini, breakerCfg, logger), nil
}

func tokenSecret(configured string, logger *slog.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	logger.Warn("no token secret configured, tokens will not survive a restart")
	return secret, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

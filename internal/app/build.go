package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/lucamoroni/kaiwa/internal/chat"
	"github.com/lucamoroni/kaiwa/internal/config"
	"github.com/lucamoroni/kaiwa/internal/httpapi"
	"github.com/lucamoroni/kaiwa/internal/lessons"
	"github.com/lucamoroni/kaiwa/internal/observability"
	"github.com/lucamoroni/kaiwa/internal/progress"
	"github.com/lucamoroni/kaiwa/internal/session"
	"github.com/lucamoroni/kaiwa/internal/tutor"
)

type ProviderInfo struct {
	Provider string
	Detail   string
}

type BuildResult struct {
	Config       config.Config
	API          *httpapi.Server
	Sessions     *session.Manager
	Orchestrator *tutor.Orchestrator
	Metrics      *observability.Metrics
	Provider     ProviderInfo

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	progressStore, err := progress.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("progress store init failed: %w", err)
	}

	catalog, err := lessons.NewCatalog(cfg.CatalogPath)
	if err != nil {
		_ = progressStore.Close()
		return nil, fmt.Errorf("lesson catalog init failed: %w", err)
	}

	provider, err := resolveModelProvider(cfg)
	if err != nil {
		_ = progressStore.Close()
		return nil, err
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	controllerCfg := chat.DefaultControllerConfig()
	controllerCfg.PreTurnDelay = cfg.PreTurnDelay

	orchestrator := tutor.NewOrchestrator(
		sessions,
		provider.client,
		catalog,
		progressStore,
		metrics,
		controllerCfg,
	)

	api := httpapi.New(cfg, sessions, orchestrator, catalog, progressStore, provider.client, metrics)

	cleanup := func() error {
		var errs []string
		if err := progressStore.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	}

	return &BuildResult{
		Config:       cfg,
		API:          api,
		Sessions:     sessions,
		Orchestrator: orchestrator,
		Metrics:      metrics,
		Provider: ProviderInfo{
			Provider: provider.resolvedProvider,
			Detail:   provider.detail,
		},
		Cleanup: cleanup,
	}, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"kycflow/internal/collaborators"
	"kycflow/internal/collaborators/forensics"
	"kycflow/internal/collaborators/llm"
	"kycflow/internal/collaborators/risk"
	"kycflow/internal/collaborators/search"
	"kycflow/internal/onboarding/handler"
	onboardingmetrics "kycflow/internal/onboarding/metrics"
	"kycflow/internal/onboarding/service"
	"kycflow/internal/onboarding/store"
	"kycflow/internal/platform/httpserver"
	platformmetrics "kycflow/internal/platform/metrics"
	platformredis "kycflow/internal/platform/redis"
	"kycflow/internal/policy"
	"kycflow/pkg/platform/audit/publisher"
	auditmemory "kycflow/pkg/platform/audit/store/memory"
	"kycflow/pkg/platform/circuit"
	"kycflow/pkg/platform/httputil"
	request "kycflow/pkg/platform/middleware/request"
	"kycflow/pkg/platform/middleware/requesttime"
)

const (
	shutdownTimeout = 10 * time.Second
	auditBufferSize = 1024
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the onboarding HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger()

			doc, err := loadPolicy("")
			if err != nil {
				return fmt.Errorf("serve: loading policy: %w", err)
			}
			engine := policy.NewEngine(doc)
			m := onboardingmetrics.New()

			collab, err := newCollaborators(ctx, engine, m, logger)
			if err != nil {
				return err
			}
			defer collab.close()

			auditPublisher := publisher.NewPublisher(auditmemory.NewInMemoryStore(),
				publisher.WithAsyncBuffer(auditBufferSize),
				publisher.WithLogger(logger),
			)
			defer auditPublisher.Close()

			svc, err := service.New(store.NewInMemory(), engine, collab.risk, collab.forensics, collab.search,
				service.WithLogger(logger),
				service.WithAuditPublisher(auditPublisher),
				service.WithMetrics(m),
				service.WithVerification(cfg.Verification.Workers, cfg.Verification.QueueSize),
			)
			if err != nil {
				return fmt.Errorf("serve: building service: %w", err)
			}

			srv := httpserver.New(cfg.Server.Addr, newRouter(svc, collab, logger), cfg.Server.ReadHeaderTimeout)

			logger.InfoContext(ctx, "kycflow starting",
				"addr", cfg.Server.Addr,
				"policy_version", engine.Version(),
				"collaborators", collab.mode,
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return svc.Run(gctx) })
			g.Go(func() error { return httpserver.Serve(gctx, srv, shutdownTimeout) })
			if err := g.Wait(); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			logger.Info("kycflow stopped")
			return nil
		},
	}
}

func newRouter(svc *service.Service, collab *collaboratorSet, logger *slog.Logger) http.Handler {
	httpMetrics := platformmetrics.NewHTTP(nil)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(request.Context)
	r.Use(request.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)

	r.Handle("/metrics", platformmetrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, collab.health(r.Context()))
	})

	handler.New(svc, logger).Register(r)
	return r
}

// collaboratorSet is the analysis stack chosen from configuration: Claude
// behind a guard when an API key is present, the local implementations
// otherwise.
type collaboratorSet struct {
	mode      string
	risk      service.RiskAnalyzer
	forensics service.DocumentForensics
	search    service.EntitySearcher
	guards    []*collaborators.Guard
	redis     *platformredis.Client
}

func newCollaborators(ctx context.Context, engine *policy.Engine, m *onboardingmetrics.Metrics, logger *slog.Logger) (*collaboratorSet, error) {
	if !cfg.Claude.Enabled() {
		logger.Warn("no Anthropic API key configured, using local collaborators")
		return &collaboratorSet{
			mode:      "local",
			risk:      risk.NewLocal(engine),
			forensics: forensics.NewLocal(),
			search:    search.NewLocal(),
		}, nil
	}

	set := &collaboratorSet{mode: "claude"}
	guard := func(name string) *collaborators.Guard {
		b := circuit.New(name,
			circuit.WithFailureThreshold(cfg.Circuit.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.Circuit.SuccessThreshold),
			circuit.WithCooldown(cfg.Circuit.Cooldown),
		)
		g := collaborators.NewGuard(name,
			collaborators.WithBreaker(b),
			collaborators.WithGuardLogger(logger),
			collaborators.WithObserver(m),
		)
		set.guards = append(set.guards, g)
		return g
	}

	client := llm.NewClient(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.MaxTokens, logger)

	var cache risk.Cache = risk.NewMemoryCache()
	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("serve: connecting to redis: %w", err)
	}
	if rc != nil {
		set.redis = rc
		cache = risk.NewRedisCache(rc.Client)
	}

	set.risk = risk.NewGuarded(risk.NewCached(risk.NewClaude(client), cache, cfg.Risk.CacheTTL, logger), guard("risk"))
	set.forensics = forensics.NewGuarded(forensics.NewClaude(client), guard("forensics"))
	set.search = search.NewGuarded(search.NewClaude(client), guard("search"))
	return set, nil
}

func (c *collaboratorSet) health(ctx context.Context) map[string]string {
	out := map[string]string{"status": "ok", "collaborators": c.mode}
	for _, g := range c.guards {
		out["circuit_"+g.Name()] = string(g.Breaker().State())
	}
	if c.redis != nil {
		if err := c.redis.Health(ctx); err != nil {
			out["redis"] = "unavailable"
		} else {
			out["redis"] = "ok"
		}
	}
	return out
}

func (c *collaboratorSet) close() {
	if c.redis != nil {
		_ = c.redis.Close()
	}
}

// Package service orchestrates onboarding: intake, document verification,
// screening and lifecycle decisions. Every mutation goes through the store's
// Execute so that each check and its change happen atomically per entity.
package service

import (
	"context"
	"errors"
	"log/slog"

	"kycflow/internal/collaborators/forensics"
	"kycflow/internal/collaborators/risk"
	"kycflow/internal/collaborators/search"
	onboardingmetrics "kycflow/internal/onboarding/metrics"
	"kycflow/internal/onboarding/models"
	"kycflow/internal/onboarding/store"
	"kycflow/internal/onboarding/verification"
	"kycflow/internal/policy"
	id "kycflow/pkg/domain"
	audit "kycflow/pkg/platform/audit"
)

type Store interface {
	Create(ctx context.Context, e *models.Entity) error
	FindByID(ctx context.Context, entityID id.EntityID) (*models.Entity, error)
	List(ctx context.Context, filter store.Filter) ([]*models.Entity, error)
	Execute(ctx context.Context, entityID id.EntityID, validate func(*models.Entity) error, mutate func(*models.Entity)) (*models.Entity, error)
}

type RiskAnalyzer interface {
	Analyze(ctx context.Context, req risk.Request) (models.RiskAssessment, error)
}

type DocumentForensics interface {
	Analyze(ctx context.Context, req forensics.Request) (models.ForensicAnalysis, error)
}

type EntitySearcher interface {
	Search(ctx context.Context, query string, candidates []search.Candidate) (search.Result, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
	List(ctx context.Context, entityID id.EntityID) ([]audit.Event, error)
}

// Service is the onboarding workflow.
type Service struct {
	entities  Store
	engine    *policy.Engine
	risk      RiskAnalyzer
	forensics DocumentForensics
	searcher  EntitySearcher

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *onboardingmetrics.Metrics
	poolOpts       []verification.Option
	pool           *verification.Pool
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *onboardingmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithVerification sizes the forensic worker pool.
func WithVerification(workers, queueSize int) Option {
	return func(s *Service) {
		s.poolOpts = append(s.poolOpts, verification.WithWorkers(workers), verification.WithQueueSize(queueSize))
	}
}

// New constructs a Service. Forensic jobs only complete while Run is active.
func New(entities Store, engine *policy.Engine, analyzer RiskAnalyzer, docs DocumentForensics, searcher EntitySearcher, opts ...Option) (*Service, error) {
	switch {
	case entities == nil:
		return nil, errors.New("entity store is required")
	case engine == nil:
		return nil, errors.New("policy engine is required")
	case analyzer == nil:
		return nil, errors.New("risk analyzer is required")
	case docs == nil:
		return nil, errors.New("document forensics is required")
	case searcher == nil:
		return nil, errors.New("entity searcher is required")
	}
	s := &Service{
		entities:  entities,
		engine:    engine,
		risk:      analyzer,
		forensics: docs,
		searcher:  searcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.pool = verification.New(s.completeVerification, append(s.poolOpts, verification.WithLogger(s.logger))...)
	return s, nil
}

// Run processes forensic jobs until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	return s.pool.Run(ctx)
}

// Engine exposes the policy engine for read-only callers such as the CLI.
func (s *Service) Engine() *policy.Engine {
	return s.engine
}

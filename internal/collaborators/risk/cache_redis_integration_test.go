//go:build integration

package risk_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kycflow/internal/collaborators/risk"
	"kycflow/internal/onboarding/models"
	id "kycflow/pkg/domain"
	"kycflow/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *risk.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = risk.NewRedisCache(s.redis.Client)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	assessment := models.RiskAssessment{
		RiskScore: 42,
		RiskLevel: models.RiskMedium,
		RiskFactors: []models.RiskFactor{
			{Category: "Jurisdiction", Description: "Panama", Score: 40, Severity: models.RiskHigh},
		},
		Screening: models.ScreeningResult{
			PEPStatus: true,
			Summary:   "pep",
			Hits:      []models.ScreeningHit{{Name: "J. Doe", Type: models.HitPEP, Score: 70, Status: models.HitPotential}},
		},
		EnrichedSummary: "enriched",
	}

	s.Run("miss before set", func() {
		_, ok, err := s.cache.Get(ctx, "missing")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("candidate hits without ids survive the round trip", func() {
		s.Require().NoError(s.cache.Set(ctx, "k", assessment, time.Minute))

		got, ok, err := s.cache.Get(ctx, "k")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(assessment, got)
		s.Equal(id.HitID{}, got.Screening.Hits[0].ID)
	})

	s.Run("ttl expires entries", func() {
		s.Require().NoError(s.cache.Set(ctx, "short", assessment, time.Second))
		s.Eventually(func() bool {
			_, ok, err := s.cache.Get(ctx, "short")
			return err == nil && !ok
		}, 5*time.Second, 100*time.Millisecond)
	})
}

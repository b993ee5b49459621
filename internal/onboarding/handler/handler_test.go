package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kycflow/internal/collaborators/forensics"
	"kycflow/internal/collaborators/risk"
	"kycflow/internal/collaborators/search"
	"kycflow/internal/lifecycle"
	"kycflow/internal/onboarding/handler/mocks"
	"kycflow/internal/onboarding/models"
	"kycflow/internal/onboarding/service"
	"kycflow/internal/onboarding/store"
	"kycflow/internal/policy"
	"kycflow/internal/workflow"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/audit/publisher"
	auditmemory "kycflow/pkg/platform/audit/store/memory"
	request "kycflow/pkg/platform/middleware/request"
	"kycflow/pkg/platform/middleware/requesttime"
	"kycflow/pkg/testutil"
)

// =============================================================================
// Router tests against the real service
// =============================================================================
// These drive the full HTTP surface with the deterministic local
// collaborators so that routing, decoding and status mapping are covered
// together with the workflow.

type RouterSuite struct {
	suite.Suite
	router http.Handler
	cancel context.CancelFunc
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	doc, err := policy.Default()
	s.Require().NoError(err)
	engine := policy.NewEngine(doc)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := service.New(
		store.NewInMemory(),
		engine,
		risk.NewLocal(engine),
		forensics.NewLocal(),
		search.NewLocal(),
		service.WithLogger(logger),
		service.WithAuditPublisher(publisher.NewPublisher(auditmemory.NewInMemoryStore())),
	)
	s.Require().NoError(err)

	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	go func() { _ = svc.Run(ctx) }()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(request.Context)
	r.Use(requesttime.Middleware)
	New(svc, logger).Register(r)
	s.router = r
}

func (s *RouterSuite) TearDownTest() {
	s.cancel()
}

func (s *RouterSuite) do(method, path string, body any) *EntityResponse {
	s.T().Helper()
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), method, path, body))
	s.Require().Less(rr.Code, 300, rr.Body.String())
	return testutil.UnmarshalResponse[EntityResponse](s.T(), rr)
}

func (s *RouterSuite) createIndividual() *EntityResponse {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/entities", map[string]any{
		"type": "Individual",
		"name": "Jane Doe",
		"attributes": map[string]string{
			"nationality": "United States",
			"email":       "jane@example.com",
		},
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[EntityResponse](s.T(), rr)
}

// verifyAll uploads every document and waits until each is Verified.
func (s *RouterSuite) verifyAll(e *EntityResponse) {
	base := "/entities/" + e.ID.String()
	for _, d := range e.Documents {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, base+"/documents/"+d.ID+"/upload"))
		testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
		upload := testutil.UnmarshalResponse[UploadResponse](s.T(), rr)
		s.Equal(models.VerificationScanning, upload.Document.VerificationStatus)
	}

	s.Require().Eventually(func() bool {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, base))
		got := testutil.UnmarshalResponse[EntityResponse](s.T(), rr)
		for _, d := range got.Documents {
			if d.VerificationStatus != models.VerificationVerified {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)
}

func (s *RouterSuite) TestIndividualOnboarding() {
	t := s.T()
	e := s.createIndividual()
	base := "/entities/" + e.ID.String()

	testutil.Given(t, "a new individual", func(t *testing.T) {
		assert.Equal(t, models.StatusDraft, e.Status)
		assert.Equal(t, []models.AttributeKey{models.AttrProduct}, e.MissingFields)
		assert.Empty(t, e.AvailableActions)
	})

	testutil.When(t, "screening is requested before documents are verified", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodPost, base+"/screening"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})

	s.verifyAll(e)
	screened := s.do(http.MethodPost, base+"/screening", nil)
	s.Equal(models.StatusPendingScreening, screened.Status)
	s.Equal(models.RiskLow, screened.RiskLevel)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, base+"/screening/finalize", map[string]bool{"force_peer_review": false}))
	testutil.AssertStatusOK(t, rr)
	final := testutil.UnmarshalResponse[FinalizeResponse](t, rr)

	testutil.Then(t, "the clean individual is approved by the agent", func(t *testing.T) {
		assert.Equal(t, lifecycle.ActionAutoApprove, final.Action)
		assert.Equal(t, models.StatusApproved, final.Entity.Status)
		assert.Equal(t, models.ApprovedByAutomatedAgent, final.Entity.ApprovedBy)
		assert.ElementsMatch(t, []lifecycle.Action{lifecycle.ActionRequestOffboarding, lifecycle.ActionStartPeriodicReview}, final.Entity.AvailableActions)
	})

	testutil.Then(t, "offboarding then approval is refused", func(t *testing.T) {
		req := testutil.WithOperator(testutil.NewJSONRequest(t, http.MethodPost, base+"/transitions",
			map[string]string{"action": "request_offboarding", "reason": "Customer request"}), "analyst@bank")
		testutil.AssertStatusOK(t, testutil.DoRequest(s.router, req))
		s.do(http.MethodPost, base+"/transitions", map[string]string{"action": "confirm_offboarding"})

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(t, http.MethodPost, base+"/transitions", map[string]string{"action": "approve"}))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeIllegalTransition))
	})

	testutil.Then(t, "the audit trail records the journey", func(t *testing.T) {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, base+"/audit"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[AuditResponse](t, rr)
		require.NotEmpty(t, resp.Events)
		assert.Equal(t, "entity_created", resp.Events[0].Action)
		assert.Equal(t, "anonymous", resp.Events[0].ActorID)

		var byAnalyst int
		for _, e := range resp.Events {
			if e.ActorID == "analyst@bank" {
				byAnalyst++
			}
		}
		assert.Equal(t, 1, byAnalyst)
	})
}

func (s *RouterSuite) TestSearchStatsAndCatalogue() {
	s.createIndividual()
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/entities", map[string]any{
		"type":       "Company",
		"name":       "Isthmus Minerals SA",
		"attributes": map[string]string{"industry": "Mining and Quarrying", "country": "Panama"},
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	company := testutil.UnmarshalResponse[EntityResponse](s.T(), rr)
	s.Len(company.Documents, 8)

	s.Run("search finds the company by name token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/entities/search", map[string]string{"query": "isthmus"}))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[SearchResponse](s.T(), rr)
		s.Require().Len(resp.Entities, 1)
		s.Equal(company.ID, resp.Entities[0].ID)
	})

	s.Run("listing filters by status", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/entities?status=draft"))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[EntityListResponse](s.T(), rr)
		s.Equal(2, resp.Count)

		rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/entities?status=Approved"))
		s.Equal(0, testutil.UnmarshalResponse[EntityListResponse](s.T(), rr).Count)
	})

	s.Run("stats count every status", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/workflow/stats"))
		testutil.AssertStatusOK(s.T(), rr)
		stats := testutil.UnmarshalResponse[workflow.Stats](s.T(), rr)
		s.Equal(2, stats.Total)
		s.Equal(2, stats.Count(models.StatusDraft))
	})

	s.Run("catalogue lists tax regions", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/policy/catalogue"))
		testutil.AssertStatusOK(s.T(), rr)
		cat := testutil.UnmarshalResponse[service.Catalogue](s.T(), rr)
		s.Len(cat.TaxRegions, 3)
		s.NotEmpty(cat.PolicyVersion)
	})

	s.Run("intake reports missing fields", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/entities/"+company.ID.String()+"/intake"))
		testutil.AssertStatusOK(s.T(), rr)
		in := testutil.UnmarshalResponse[service.Intake](s.T(), rr)
		s.False(in.Complete)
		s.Equal([]models.AttributeKey{models.AttrEmail, models.AttrProduct}, in.MissingFields)
	})

	s.Run("attribute update re-evaluates the checklist", func() {
		updated := s.do(http.MethodPatch, "/entities/"+company.ID.String()+"/attributes",
			map[string]any{"attributes": map[string]string{"country": "Germany"}})
		s.Len(updated.Documents, 6)
	})
}

// =============================================================================
// Handler tests against a mocked service
// =============================================================================

type HandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	svc    *mocks.MockService
	router http.Handler
	entity *models.Entity
	logger *slog.Logger
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svc = mocks.NewMockService(s.ctrl)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Use(request.Context)
	New(s.svc, s.logger).Register(r)
	s.router = r

	e, err := models.NewEntity(id.NewEntityID(), models.EntityTypeIndividual, "Jane Doe", nil, time.Now())
	s.Require().NoError(err)
	s.entity = e
	s.svc.EXPECT().IntakeFor(gomock.Any()).Return(service.Intake{MissingFields: []models.AttributeKey{}}).AnyTimes()
	s.svc.EXPECT().ActionsFor(gomock.Any()).Return([]lifecycle.Action{}).AnyTimes()
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) TestCreateValidation() {
	s.Run("unknown entity type is a validation error", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/entities", map[string]any{"type": "Robot", "name": "R2"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})

	s.Run("missing name is a validation error", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/entities", map[string]any{"type": "Individual", "name": "  "}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})

	s.Run("malformed attribute key is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/entities", map[string]any{
			"type": "Individual", "name": "Jane", "attributes": map[string]string{"Bad Key": "x"},
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})

	s.Run("malformed JSON is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/entities", "{"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("valid request reaches the service with a parsed type", func() {
		s.svc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd service.CreateCommand) (*models.Entity, error) {
				s.Equal(models.EntityTypeJointVenture, cmd.Type)
				s.Equal("Acme JV", cmd.Name)
				s.Equal("Mining", cmd.Attributes.Get(models.AttrIndustry))
				return s.entity, nil
			})
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/entities", map[string]any{
			"type": "joint venture", "name": " Acme JV ", "attributes": map[string]string{"industry": "Mining"},
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	})
}

func (s *HandlerSuite) TestPathParameters() {
	s.Run("malformed entity id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/entities/not-a-uuid"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("malformed hit id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
			"/entities/"+s.entity.ID.String()+"/screening/hits/xyz", map[string]string{"outcome": "Matched"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("bad disposition outcome", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
			"/entities/"+s.entity.ID.String()+"/screening/hits/"+id.NewHitID().String(), map[string]string{"outcome": "Potential"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})

	s.Run("bad status filter", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/entities?status=Limbo"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})
}

func (s *HandlerSuite) TestErrorMapping() {
	path := "/entities/" + s.entity.ID.String()

	s.Run("not found", func() {
		s.svc.EXPECT().Get(gomock.Any(), s.entity.ID).Return(nil, dErrors.New(dErrors.CodeNotFound, "entity not found"))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.Run("illegal transition", func() {
		s.svc.EXPECT().Transition(gomock.Any(), s.entity.ID, "approve", "").
			Return(nil, dErrors.New(dErrors.CodeIllegalTransition, "cannot approve from Offboarded"))
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, path+"/transitions", map[string]string{"action": "approve"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeIllegalTransition))
	})

	s.Run("queue full", func() {
		s.svc.EXPECT().UploadDocument(gomock.Any(), s.entity.ID, "base-proof-of-identity", true).
			Return(nil, nil, dErrors.New(dErrors.CodeUnavailable, "queue verification: service unavailable"))
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, path+"/documents/base-proof-of-identity/upload", map[string]bool{"suspicious": true}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, string(dErrors.CodeUnavailable))
	})

	s.Run("internal errors hide their description", func() {
		s.svc.EXPECT().Stats(gomock.Any()).Return(workflow.Stats{}, errors.New("disk on fire"))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/workflow/stats"))
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal(string(dErrors.CodeInternal), body["error"])
		s.Empty(body["error_description"])
	})
}

func (s *HandlerSuite) TestFinalizePassesForcePeerReview() {
	s.svc.EXPECT().Finalize(gomock.Any(), s.entity.ID, true).Return(&service.Decision{
		Entity: s.entity,
		Action: lifecycle.ActionRoutePeerReview,
	}, nil)
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/entities/"+s.entity.ID.String()+"/screening/finalize", map[string]bool{"force_peer_review": true}))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[FinalizeResponse](s.T(), rr)
	s.Equal(lifecycle.ActionRoutePeerReview, resp.Action)
}

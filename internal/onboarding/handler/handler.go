// Package handler exposes the onboarding workflow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"kycflow/internal/lifecycle"
	"kycflow/internal/onboarding/models"
	"kycflow/internal/onboarding/service"
	"kycflow/internal/onboarding/store"
	"kycflow/internal/onboarding/verification"
	"kycflow/internal/workflow"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	audit "kycflow/pkg/platform/audit"
	"kycflow/pkg/platform/httputil"
	request "kycflow/pkg/platform/middleware/request"
)

// Service is the subset of the onboarding service the handlers call.
type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*models.Entity, error)
	Get(ctx context.Context, entityID id.EntityID) (*models.Entity, error)
	List(ctx context.Context, filter store.Filter) ([]*models.Entity, error)
	UpdateAttributes(ctx context.Context, entityID id.EntityID, patch models.Attributes) (*models.Entity, error)
	Intake(ctx context.Context, entityID id.EntityID) (service.Intake, error)
	IntakeFor(e *models.Entity) service.Intake
	ActionsFor(e *models.Entity) []lifecycle.Action
	UploadDocument(ctx context.Context, entityID id.EntityID, docID string, suspicious bool) (*models.Entity, *verification.Pending, error)
	RemoveDocument(ctx context.Context, entityID id.EntityID, docID string) (*models.Entity, error)
	RunScreening(ctx context.Context, entityID id.EntityID) (*models.Entity, error)
	DispositionHit(ctx context.Context, entityID id.EntityID, hitID id.HitID, outcome models.HitStatus) (*models.Entity, error)
	Finalize(ctx context.Context, entityID id.EntityID, forcePeerReview bool) (*service.Decision, error)
	Transition(ctx context.Context, entityID id.EntityID, action, reason string) (*models.Entity, error)
	Search(ctx context.Context, query string) (*service.SearchResult, error)
	Stats(ctx context.Context) (workflow.Stats, error)
	AuditTrail(ctx context.Context, entityID id.EntityID) ([]audit.Event, error)
	Catalogue() service.Catalogue
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the onboarding routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/entities", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Post("/search", h.HandleSearch)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Patch("/attributes", h.HandleUpdateAttributes)
			r.Get("/intake", h.HandleIntake)
			r.Post("/documents/{docID}/upload", h.HandleUploadDocument)
			r.Delete("/documents/{docID}", h.HandleRemoveDocument)
			r.Post("/screening", h.HandleRunScreening)
			r.Post("/screening/hits/{hitID}", h.HandleDisposition)
			r.Post("/screening/finalize", h.HandleFinalize)
			r.Post("/transitions", h.HandleTransition)
			r.Get("/audit", h.HandleAudit)
		})
	})
	r.Get("/workflow/stats", h.HandleStats)
	r.Get("/policy/catalogue", h.HandleCatalogue)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateEntityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.svc.Create(ctx, service.CreateCommand{
		Type:       req.entityType,
		Name:       req.Name,
		Attributes: req.attributes(),
	})
	if err != nil {
		h.fail(ctx, w, "create entity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.view(e))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var filter store.Filter
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		t, err := models.ParseEntityType(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Type = t
	}

	entities, err := h.svc.List(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "list entities", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EntityListResponse{Entities: h.views(entities), Count: len(entities)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	e, err := h.svc.Get(ctx, entityID)
	if err != nil {
		h.fail(ctx, w, "get entity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.view(e))
}

func (h *Handler) HandleUpdateAttributes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateAttributesRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	e, err := h.svc.UpdateAttributes(ctx, entityID, toAttributes(req.Attributes))
	if err != nil {
		h.fail(ctx, w, "update attributes", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.view(e))
}

func (h *Handler) HandleIntake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	in, err := h.svc.Intake(ctx, entityID)
	if err != nil {
		h.fail(ctx, w, "intake report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, in)
}

// HandleUploadDocument answers 202: the forensic verdict arrives later and
// shows up on the entity.
func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UploadDocumentRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	docID := chi.URLParam(r, "docID")
	e, _, err := h.svc.UploadDocument(ctx, entityID, docID, req.Suspicious)
	if err != nil {
		h.fail(ctx, w, "upload document", err)
		return
	}
	doc, _ := e.Document(docID)
	httputil.WriteJSON(w, http.StatusAccepted, UploadResponse{Entity: h.view(e), Document: doc})
}

func (h *Handler) HandleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	e, err := h.svc.RemoveDocument(ctx, entityID, chi.URLParam(r, "docID"))
	if err != nil {
		h.fail(ctx, w, "remove document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.view(e))
}

func (h *Handler) HandleRunScreening(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	e, err := h.svc.RunScreening(ctx, entityID)
	if err != nil {
		h.fail(ctx, w, "run screening", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.view(e))
}

func (h *Handler) HandleDisposition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	hitID, err := id.ParseHitID(chi.URLParam(r, "hitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[DispositionRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	e, err := h.svc.DispositionHit(ctx, entityID, hitID, req.outcome)
	if err != nil {
		h.fail(ctx, w, "disposition hit", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.view(e))
}

func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FinalizeRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	decision, err := h.svc.Finalize(ctx, entityID, req.ForcePeerReview)
	if err != nil {
		h.fail(ctx, w, "finalize screening", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FinalizeResponse{
		Entity:  h.view(decision.Entity),
		Outcome: decision.Outcome,
		Action:  decision.Action,
	})
}

func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	e, err := h.svc.Transition(ctx, entityID, req.Action, req.Reason)
	if err != nil {
		h.fail(ctx, w, "transition entity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.view(e))
}

func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}
	events, err := h.svc.AuditTrail(ctx, entityID)
	if err != nil {
		h.fail(ctx, w, "list audit trail", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuditResponse{Events: events})
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SearchRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	result, err := h.svc.Search(ctx, req.Query)
	if err != nil {
		h.fail(ctx, w, "search entities", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SearchResponse{Entities: h.views(result.Entities), Reason: result.Reason})
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		h.fail(ctx, w, "workflow stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleCatalogue(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.svc.Catalogue())
}

func (h *Handler) view(e *models.Entity) EntityResponse {
	return EntityResponse{
		Entity:           e,
		MissingFields:    h.svc.IntakeFor(e).MissingFields,
		AvailableActions: h.svc.ActionsFor(e),
	}
}

func (h *Handler) views(entities []*models.Entity) []EntityResponse {
	out := make([]EntityResponse, len(entities))
	for i, e := range entities {
		out[i] = h.view(e)
	}
	return out
}

// fail logs at a level matching the error class and writes the response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, action string, err error) {
	status := httputil.StatusFor(dErrors.CodeOf(err))
	logFn := h.logger.WarnContext
	if status >= http.StatusInternalServerError {
		logFn = h.logger.ErrorContext
	}
	logFn(ctx, "failed to "+action,
		"request_id", request.GetRequestID(ctx),
		"status", status,
		"error", err,
	)
	httputil.WriteError(w, err)
}

func entityIDParam(w http.ResponseWriter, r *http.Request) (id.EntityID, bool) {
	entityID, err := id.ParseEntityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.EntityID{}, false
	}
	return entityID, true
}

// Package httptransport is the thin HTTP layer over the casefile command
// service. Handlers decode, delegate, and translate; business rules live in
// the deciders.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"caseflow/internal/casefile"
	"caseflow/internal/casefile/service"
	"caseflow/internal/domain"
	"caseflow/internal/transport/http/shared"
	domainerrors "caseflow/pkg/domain-errors"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mocks.go -package=mocks Service

// Service is the command surface the handlers delegate to.
type Service interface {
	SubmitCase(ctx context.Context, sub domain.Submission) (*service.Result, error)
	CorrectCase(ctx context.Context, set domain.CorrectionSet) (*service.Result, error)
	AcceptCase(ctx context.Context, caseID string, details casefile.AcceptanceDetails) (*service.Result, error)
	EjectCase(ctx context.Context, caseID string) (*service.Result, error)
	FilterCase(ctx context.Context, caseID string) (*service.Result, error)
	AddMaterials(ctx context.Context, caseID string, ms []domain.Material) (*service.Result, error)
	ExpirePendingMaterial(ctx context.Context, caseID, materialID string) (*service.Result, error)
	ApproveSummons(ctx context.Context, caseID, applicationID string, details casefile.ApprovalDetails) (*service.Result, error)
	RejectSummons(ctx context.Context, caseID, applicationID string, reasons []string) (*service.Result, error)
	GetCase(ctx context.Context, caseID string) (*casefile.Case, error)
}

// Handler handles the case command endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// commandResponse is the envelope returned by every command endpoint.
type commandResponse struct {
	CaseID  string          `json:"caseId"`
	Status  casefile.Status `json:"status"`
	Version int64           `json:"version"`
	Events  []string        `json:"events"`
}

func (h *Handler) writeResult(w http.ResponseWriter, status int, res *service.Result) {
	events := make([]string, 0, len(res.Events))
	for _, e := range res.Events {
		events = append(events, string(e.EventType()))
	}
	shared.WriteJSON(w, status, commandResponse{
		CaseID:  res.Case.ID,
		Status:  res.Case.Status,
		Version: res.Case.Version,
		Events:  events,
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.WarnContext(r.Context(), "command failed", "op", op, "error", err.Error())
	shared.WriteError(w, err)
}

func (h *Handler) handleSubmitCase(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}
	if sub.CaseID == "" {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "caseId is required"))
		return
	}
	if _, err := domain.ParseChannel(string(sub.Channel)); err != nil {
		shared.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "unknown channel"))
		return
	}
	res, err := h.service.SubmitCase(r.Context(), sub)
	if err != nil {
		h.fail(w, r, "submit_case", err)
		return
	}
	h.writeResult(w, http.StatusCreated, res)
}

func (h *Handler) handleCorrections(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Corrections []domain.Correction `json:"corrections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(body.Corrections) == 0 {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "corrections are required"))
		return
	}
	res, err := h.service.CorrectCase(r.Context(), domain.CorrectionSet{
		CaseID:      chi.URLParam(r, "caseID"),
		Corrections: body.Corrections,
	})
	if err != nil {
		h.fail(w, r, "correct_case", err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	var details casefile.AcceptanceDetails
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
			shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
			return
		}
	}
	res, err := h.service.AcceptCase(r.Context(), chi.URLParam(r, "caseID"), details)
	if err != nil {
		h.fail(w, r, "accept_case", err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

func (h *Handler) handleEject(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.EjectCase(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.fail(w, r, "eject_case", err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.FilterCase(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.fail(w, r, "filter_case", err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

func (h *Handler) handleAddMaterials(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Materials []domain.Material `json:"materials"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(body.Materials) == 0 {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "materials are required"))
		return
	}
	res, err := h.service.AddMaterials(r.Context(), chi.URLParam(r, "caseID"), body.Materials)
	if err != nil {
		h.fail(w, r, "add_materials", err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

func (h *Handler) handleExpireMaterial(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ExpirePendingMaterial(r.Context(),
		chi.URLParam(r, "caseID"), chi.URLParam(r, "materialID"))
	if err != nil {
		h.fail(w, r, "expire_pending_material", err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

func (h *Handler) handleApproveSummons(w http.ResponseWriter, r *http.Request) {
	var details casefile.ApprovalDetails
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
			shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
			return
		}
	}
	res, err := h.service.ApproveSummons(r.Context(),
		chi.URLParam(r, "caseID"), chi.URLParam(r, "applicationID"), details)
	if err != nil {
		h.fail(w, r, "approve_summons", err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

func (h *Handler) handleRejectSummons(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reasons []string `json:"reasons"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
			return
		}
	}
	res, err := h.service.RejectSummons(r.Context(),
		chi.URLParam(r, "caseID"), chi.URLParam(r, "applicationID"), body.Reasons)
	if err != nil {
		h.fail(w, r, "reject_summons", err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

func (h *Handler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCase(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.fail(w, r, "get_case", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

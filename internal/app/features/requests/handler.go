// Package requests is the HTTP surface of the donation-request lifecycle:
// create, list, view, edit, the three status transitions, and delete. All
// decisions are made by the engine; handlers only decode, call, and encode.
package requests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/donorhub/internal/app/engine"
	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/paging"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

type Handler struct {
	Engine   *engine.Engine
	AuditLog *auditlog.Logger
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(eng *engine.Engine, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:   eng,
		AuditLog: auditLog,
		ErrLog:   apierrors.NewErrorLogger(logger),
		Log:      logger,
	}
}

// requestBody is the JSON shape for create and edit.
type requestBody struct {
	RecipientName  string `json:"recipient_name"`
	BloodGroup     string `json:"blood_group"`
	District       string `json:"district"`
	Upazila        string `json:"upazila"`
	HospitalName   string `json:"hospital_name"`
	FullAddress    string `json:"full_address"`
	DonationDate   string `json:"donation_date"`
	DonationTime   string `json:"donation_time"`
	RequestMessage string `json:"request_message"`
}

func (b requestBody) input() engine.RequestInput {
	return engine.RequestInput{
		RecipientName:  b.RecipientName,
		BloodGroup:     b.BloodGroup,
		District:       b.District,
		Upazila:        b.Upazila,
		HospitalName:   b.HospitalName,
		FullAddress:    b.FullAddress,
		DonationDate:   b.DonationDate,
		DonationTime:   b.DonationTime,
		RequestMessage: b.RequestMessage,
	}
}

// listResponse pages a request listing.
type listResponse struct {
	Items   []models.DonationRequest `json:"items"`
	Page    int                      `json:"page"`
	HasNext bool                     `json:"has_next"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// renderErr maps engine errors onto the wire envelope. Validation failures
// are 400s; everything else follows the shared taxonomy mapping. Backend
// failures are logged with request context before rendering.
func (h *Handler) renderErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *engine.ValidationError
	if errors.As(err, &ve) {
		apierrors.RenderBadRequest(w, ve.Error())
		return
	}
	if errors.Is(err, apperr.ErrStoreUnavailable) || errors.Is(err, apperr.ErrResolutionFailed) {
		h.ErrLog.LogError(r, op, err)
	}
	apierrors.Render(w, err)
}

func opCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Medium())
}

// pathID parses the {id} route parameter. A malformed id is a 404, not a
// 400: request ids are opaque and an unparsable one cannot name a record.
func pathID(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return oid, err == nil
}

// HandleCreate handles POST /requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	actor := auth.CurrentActor(r)
	created, err := h.Engine.Create(ctx, actor, body.input())
	if err != nil {
		h.renderErr(w, r, "create request", err)
		return
	}

	h.AuditLog.RequestEvent(ctx, r, audit.EventRequestCreated, actor.ID, created.ID, map[string]string{
		"blood_group": created.BloodGroup,
		"district":    created.District,
	})
	writeJSON(w, http.StatusCreated, created)
}

// HandleListMine handles GET /requests: the caller's own requests.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// HandleListAll handles GET /requests/all: every request, volunteer/admin.
func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, mine bool) {
	ctx, cancel := opCtx(r)
	defer cancel()

	page := paging.Parse(r)
	q := r.URL.Query()
	filter := engine.ListFilter{
		Status:     q.Get("status"),
		District:   q.Get("district"),
		BloodGroup: q.Get("blood_group"),
		Limit:      page.Limit,
		Skip:       page.Skip,
	}

	actor := auth.CurrentActor(r)
	var (
		items []models.DonationRequest
		err   error
	)
	if mine {
		items, err = h.Engine.ListMine(ctx, actor, filter)
	} else {
		items, err = h.Engine.ListAll(ctx, actor, filter)
	}
	if err != nil {
		h.renderErr(w, r, "list requests", err)
		return
	}

	hasNext := paging.Trim(&items)
	if items == nil {
		items = []models.DonationRequest{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Page: page.Number, HasNext: hasNext})
}

// HandleGet handles GET /requests/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apierrors.RenderNotFound(w, "")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	req, err := h.Engine.Get(ctx, auth.CurrentActor(r), id)
	if err != nil {
		h.renderErr(w, r, "get request", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// HandleEdit handles PUT /requests/{id}: descriptive fields, pending only.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apierrors.RenderNotFound(w, "")
		return
	}

	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	actor := auth.CurrentActor(r)
	req, err := h.Engine.EditFields(ctx, actor, id, body.input())
	if err != nil {
		h.renderErr(w, r, "edit request", err)
		return
	}

	h.AuditLog.RequestEvent(ctx, r, audit.EventRequestEdited, actor.ID, id, nil)
	writeJSON(w, http.StatusOK, req)
}

// assignBody names the donor bound on pending -> inprogress.
type assignBody struct {
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email"`
}

// HandleAssign handles POST /requests/{id}/assign.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apierrors.RenderNotFound(w, "")
		return
	}

	var body assignBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	actor := auth.CurrentActor(r)
	req, err := h.Engine.Assign(ctx, actor, id, models.DonorRef{Name: body.DonorName, Email: body.DonorEmail})
	if err != nil {
		h.renderErr(w, r, "assign request", err)
		return
	}

	h.AuditLog.RequestEvent(ctx, r, audit.EventRequestAssigned, actor.ID, id, map[string]string{
		"donor_email": body.DonorEmail,
	})
	writeJSON(w, http.StatusOK, req)
}

// HandleDone handles POST /requests/{id}/done.
func (h *Handler) HandleDone(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, audit.EventRequestDone, h.Engine.MarkDone)
}

// HandleCancel handles POST /requests/{id}/cancel.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, audit.EventRequestCanceled, h.Engine.Cancel)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, eventType string,
	op func(context.Context, authz.Actor, primitive.ObjectID) (*models.DonationRequest, error)) {
	id, ok := pathID(r)
	if !ok {
		apierrors.RenderNotFound(w, "")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	actor := auth.CurrentActor(r)
	req, err := op(ctx, actor, id)
	if err != nil {
		h.renderErr(w, r, "transition request", err)
		return
	}

	h.AuditLog.RequestEvent(ctx, r, eventType, actor.ID, id, nil)
	writeJSON(w, http.StatusOK, req)
}

// HandleDelete handles DELETE /requests/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apierrors.RenderNotFound(w, "")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	actor := auth.CurrentActor(r)
	if err := h.Engine.Delete(ctx, actor, id); err != nil {
		h.renderErr(w, r, "delete request", err)
		return
	}

	h.AuditLog.RequestEvent(ctx, r, audit.EventRequestDeleted, actor.ID, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

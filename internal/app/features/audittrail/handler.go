// Package audittrail is the admin view over the audit event store: who did
// what, when, filtered by category, event type, subject, and time range.
package audittrail

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/policy/accesspolicy"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/paging"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
)

type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Audit: store, Log: logger}
}

// eventRow is the wire shape of one audit event.
type eventRow struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	UserID        string            `json:"user_id,omitempty"`
	ActorID       string            `json:"actor_id,omitempty"`
	RequestID     string            `json:"request_id,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toRow(e audit.Event) eventRow {
	row := eventRow{
		ID:            e.ID.Hex(),
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		IP:            e.IP,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.UserID != nil {
		row.UserID = e.UserID.Hex()
	}
	if e.ActorID != nil {
		row.ActorID = e.ActorID.Hex()
	}
	if e.RequestID != nil {
		row.RequestID = e.RequestID.Hex()
	}
	return row
}

type listResponse struct {
	Items   []eventRow `json:"items"`
	Page    int        `json:"page"`
	HasNext bool       `json:"has_next"`
}

// HandleList handles GET /admin/audit.
//
// Filters: category, event_type, user_id, request_id, start_date and
// end_date (YYYY-MM-DD, end is inclusive through end of day), page.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentActor(r)
	if err := accesspolicy.Check(actor, accesspolicy.AuditView); err != nil {
		apierrors.Render(w, err)
		return
	}

	q := r.URL.Query()
	page := paging.Parse(r)
	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     page.Limit,
		Offset:    page.Skip,
	}

	if s := q.Get("user_id"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			apierrors.RenderBadRequest(w, "user_id is not a valid id")
			return
		}
		filter.UserID = &oid
	}
	if s := q.Get("request_id"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			apierrors.RenderBadRequest(w, "request_id is not a valid id")
			return
		}
		filter.RequestID = &oid
	}
	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apierrors.RenderBadRequest(w, "start_date must be YYYY-MM-DD")
			return
		}
		filter.StartTime = &t
	}
	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apierrors.RenderBadRequest(w, "end_date must be YYYY-MM-DD")
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit query failed", zap.Error(err))
		apierrors.JSON(w, http.StatusServiceUnavailable, "store_unavailable", "Storage is temporarily unavailable.")
		return
	}

	hasNext := paging.Trim(&events)
	rows := make([]eventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, toRow(e))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{Items: rows, Page: page.Number, HasNext: hasNext})
}

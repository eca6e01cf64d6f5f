// Package funds serves the funding surface: listing recorded contributions,
// starting a checkout with the payment processor, and recording the
// confirmation callback.
package funds

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/policy/accesspolicy"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	fundstore "github.com/dalemusser/donorhub/internal/app/store/funds"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/paging"
	"github.com/dalemusser/donorhub/internal/app/system/payments"
	"github.com/dalemusser/donorhub/internal/app/system/sanitize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

type Handler struct {
	Funds    *fundstore.Store
	Payments *payments.Client
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(funds *fundstore.Store, pay *payments.Client, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Funds: funds, Payments: pay, AuditLog: auditLog, Log: logger}
}

type listResponse struct {
	Items   []models.Fund `json:"items"`
	Total   int64         `json:"total_amount"`
	Page    int           `json:"page"`
	HasNext bool          `json:"has_next"`
}

func opCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Medium())
}

// HandleList handles GET /funds: recorded contributions plus the running
// total, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentActor(r)
	if err := accesspolicy.Check(actor, accesspolicy.FundList); err != nil {
		apierrors.Render(w, err)
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	page := paging.Parse(r)
	items, err := h.Funds.List(ctx, page.Limit, page.Skip)
	if err != nil {
		apierrors.Render(w, err)
		return
	}
	hasNext := paging.Trim(&items)
	if items == nil {
		items = []models.Fund{}
	}

	total, err := h.Funds.TotalAmount(ctx)
	if err != nil {
		apierrors.Render(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{Items: items, Total: total, Page: page.Number, HasNext: hasNext})
}

type checkoutBody struct {
	Amount int64 `json:"amount"`
}

type checkoutResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
}

// HandleCheckout handles POST /funds/checkout: asks the payment processor
// for a hosted checkout page for the signed-in user.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentActor(r)
	if err := accesspolicy.Check(actor, accesspolicy.FundCheckout); err != nil {
		apierrors.Render(w, err)
		return
	}

	var body checkoutBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	if body.Amount <= 0 {
		apierrors.RenderBadRequest(w, "amount must be positive")
		return
	}

	// No processor configured: same envelope as a processor outage.
	if h.Payments == nil {
		apierrors.JSON(w, http.StatusBadGateway, "payment_unavailable", "The payment processor is unavailable; try again.")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	sess, err := h.Payments.CreateCheckoutSession(ctx, body.Amount, actor.Name, actor.Email)
	if err != nil {
		h.Log.Error("checkout session failed", zap.Error(err))
		apierrors.JSON(w, http.StatusBadGateway, "payment_unavailable", "The payment processor is unavailable; try again.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(checkoutResponse{Reference: sess.Reference, RedirectURL: sess.RedirectURL})
}

type confirmBody struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Amount        int64  `json:"amount"`
	TransactionID string `json:"transaction_id"`
	Note          string `json:"note"`
}

// HandleConfirm handles POST /funds/confirm: records a completed payment
// reported by the processor's success callback.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentActor(r)
	if err := accesspolicy.Check(actor, accesspolicy.FundCheckout); err != nil {
		apierrors.Render(w, err)
		return
	}

	var body confirmBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	if body.Amount <= 0 || body.TransactionID == "" {
		apierrors.RenderBadRequest(w, "amount and transaction_id are required")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	created, err := h.Funds.Create(ctx, models.Fund{
		Name:          sanitize.Text(body.Name),
		Email:         body.Email,
		Amount:        body.Amount,
		TransactionID: body.TransactionID,
		Note:          sanitize.Text(body.Note),
	})
	if err != nil {
		apierrors.Render(w, err)
		return
	}

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventFundRecorded,
		ActorID:   &actor.ID,
		Success:   true,
		Details: map[string]string{
			"transaction_id": created.TransactionID,
		},
	})
	h.Log.Info("fund recorded",
		zap.String("fund_id", created.ID.Hex()),
		zap.Int64("amount", created.Amount),
		zap.String("transaction_id", created.TransactionID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

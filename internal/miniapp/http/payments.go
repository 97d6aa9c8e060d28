package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/miniappsdk"
)

// PaymentsHandler starts payments and hands them to the host app.
type PaymentsHandler struct {
	Payments *service.PaymentService
}

// HandleCreate handles POST /v1/payments
//
//	@Summary		Create Payment
//	@Description	Creates a backend transaction for a package on behalf of the verified tab and remembers it as the tab's last transaction.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		miniappsdk.CreatePaymentRequest	true	"Package to pay for"
//	@Success		201		{object}	miniappsdk.PaymentResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse	"login_required"
//	@Failure		429		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		502		{object}	httpx.ErrorResponse	"backend_unavailable or backend_rejected"
//	@Router			/v1/payments [post].
func (h *PaymentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tabID := httpx.TabFromContext(ctx)

	var req miniappsdk.CreatePaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	p, err := h.Payments.Initiate(ctx, tabID, service.InitiateRequest{
		PackageID: req.PackageID,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := toPaymentResponse(p.Record)
	resp.ExpiresAt = p.ExpiresAt.UTC().Format(time.RFC3339)
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// HandleHandoff handles POST /v1/payments/{id}/handoff
//
//	@Summary		Hand Off Payment
//	@Description	Builds the PAYMENT_HUB_TRANSACTION message for the tab's last transaction.
//	@Description	When forward is true the page posts message to window.ReactNativeWebView.
//	@Tags			Payments
//	@Produce		json
//	@Param			id	path		string	true	"Transaction id"
//	@Success		200	{object}	miniappsdk.HandoffResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"login_required"
//	@Failure		404	{object}	httpx.ErrorResponse	"not_found"
//	@Failure		502	{object}	httpx.ErrorResponse	"backend_unavailable or backend_rejected"
//	@Router			/v1/payments/{id}/handoff [post].
func (h *PaymentsHandler) HandleHandoff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tabID := httpx.TabFromContext(ctx)

	d, err := h.Payments.Handoff(ctx, tabID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := json.Marshal(d.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, miniappsdk.HandoffResponse{
		Port:    d.Port,
		Forward: d.Forward,
		Message: msg,
	})
}

// HandleLast handles GET /v1/payments/last
//
//	@Summary		Last Payment
//	@Description	Reads the tab's last transaction back from the backend.
//	@Tags			Payments
//	@Produce		json
//	@Success		200	{object}	miniappsdk.PaymentResponse
//	@Failure		404	{object}	httpx.ErrorResponse	"not_found"
//	@Failure		502	{object}	httpx.ErrorResponse	"backend_unavailable or backend_rejected"
//	@Router			/v1/payments/last [get].
func (h *PaymentsHandler) HandleLast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := h.Payments.LastResult(ctx, httpx.TabFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPaymentResponse(rec))
}

func toPaymentResponse(rec domain.TransactionRecord) miniappsdk.PaymentResponse {
	return miniappsdk.PaymentResponse{
		TransactionID: rec.TransactionID,
		Amount:        rec.Amount,
		AmountText:    FormatVND(rec.Amount),
		Description:   rec.Description,
		Merchant:      rec.Merchant.Name,
		Status:        rec.Status,
	}
}

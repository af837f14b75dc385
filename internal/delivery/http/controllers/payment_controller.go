package controllers

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/domain"
)

// webhookSecretHeader carries the shared secret on gateway webhook calls.
const webhookSecretHeader = "X-Webhook-Secret"

// PayEventRequest is the request body for POST /events/{eventID}/payments.
type PayEventRequest struct {
	Method string `json:"method"` // optional: "card", "paypal", or "bank_transfer" (defaults to "card")
}

// Validate implements Validator.
func (p PayEventRequest) Validate() []string {
	method := strings.TrimSpace(strings.ToLower(p.Method))
	if method != "" && method != "card" && method != "paypal" && method != "bank_transfer" {
		return []string{"method must be \"card\", \"paypal\", or \"bank_transfer\""}
	}
	return nil
}

// PaymentWebhookRequest is the request body for POST /payments/webhook.
type PaymentWebhookRequest struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// Validate implements Validator.
func (p PaymentWebhookRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.TransactionID) == "" {
		errs = append(errs, "transaction_id is required")
	}
	status := strings.TrimSpace(strings.ToLower(p.Status))
	if status != "success" && status != "failed" && status != "refunded" {
		errs = append(errs, "status must be \"success\", \"failed\", or \"refunded\"")
	}
	return errs
}

// PayEventSuccessResponse is the success response envelope for POST /events/{eventID}/payments (201).
type PayEventSuccessResponse struct {
	Data  *domain.Payment   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetPaymentSuccessResponse is the success response envelope for GET /payments/{paymentID} (200).
type GetPaymentSuccessResponse struct {
	Data  *domain.Payment   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventPaymentsSuccessResponse is the success response envelope for GET /events/{eventID}/payments (200).
type ListEventPaymentsSuccessResponse struct {
	Data  []*domain.Payment `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PaymentWebhookSuccessResponse is the success response envelope for POST /payments/webhook (200).
type PaymentWebhookSuccessResponse struct {
	Data  *domain.Payment   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PaymentController handles payments and the gateway webhook.
type PaymentController struct {
	Logger        *slog.Logger
	Service       domain.PaymentService
	WebhookSecret string
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService, webhookSecret string) *PaymentController {
	return &PaymentController{
		Logger:        logger,
		Service:       svc,
		WebhookSecret: webhookSecret,
	}
}

// PayEvent godoc
// @Summary Pay for an event
// @Description Charge the full event total through the payment gateway. Only the event owner can pay, and only while the event is pending and unpaid. A declined charge still returns 201; the payment carries the failed status and can be retried. A successful charge confirms the event. Requires Bearer token.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body PayEventRequest true "Payment method (optional)"
// @Success 201 {object} controllers.PayEventSuccessResponse "data contains the settled payment (success or failed)"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already paid, or not payable)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/payments [post]
func (c *PaymentController) PayEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req PayEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	method := strings.TrimSpace(strings.ToLower(req.Method))

	payment, err := c.Service.Pay(r.Context(), eventID, userID, method)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyPaid) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event already paid")
			return
		}
		if errors.Is(err, domain.ErrEventNotPayable) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, payment)
}

// GetPayment godoc
// @Summary Get a payment by ID
// @Description Returns a single payment. Customers only see their own payments; organizers see any. Requires Bearer token.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param paymentID path string true "Payment ID (UUID)"
// @Success 200 {object} controllers.GetPaymentSuccessResponse "data contains the payment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/{paymentID} [get]
func (c *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("paymentID")
	if paymentID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing paymentID")
		return
	}
	if !uuidRegex.MatchString(paymentID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid paymentID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	callerRole, _ := middleware.RoleFromContext(r.Context())

	payment, err := c.Service.GetByID(r.Context(), paymentID, callerID, callerRole)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "payment not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

// ListEventPayments godoc
// @Summary List payments for an event
// @Description Returns all payment attempts for an event, newest first. Customers only see their own events' payments; organizers see any. Requires Bearer token.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListEventPaymentsSuccessResponse "data is an array of payments"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/payments [get]
func (c *PaymentController) ListEventPayments(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	callerRole, _ := middleware.RoleFromContext(r.Context())

	payments, err := c.Service.ListByEvent(r.Context(), eventID, callerID, callerRole)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payments)
}

// Webhook godoc
// @Summary Payment gateway webhook
// @Description Settle a payment by gateway transaction id. Authenticated with the shared secret in the X-Webhook-Secret header. Replays of the same status are no-ops.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string true "Shared webhook secret"
// @Param body body PaymentWebhookRequest true "Transaction id and settled status"
// @Success 200 {object} controllers.PaymentWebhookSuccessResponse "data contains the updated payment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invalid transition)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	// Fail closed when no secret is configured.
	secret := r.Header.Get(webhookSecretHeader)
	if c.WebhookSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(c.WebhookSecret)) != 1 {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid webhook secret")
		return
	}
	var req PaymentWebhookRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status := domain.PaymentStatus(strings.TrimSpace(strings.ToLower(req.Status)))

	payment, err := c.Service.HandleWebhook(r.Context(), strings.TrimSpace(req.TransactionID), status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, payment)
}

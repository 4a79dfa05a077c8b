package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Olatundeawo/ordora/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	webhookSecret  string
	debug          bool
}

// NewPaymentHandler creates a new instance of PaymentHandler. debug disables
// webhook signature verification and must stay off in production.
func NewPaymentHandler(paymentService *service.PaymentService, webhookSecret string, debug bool) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		webhookSecret:  webhookSecret,
		debug:          debug,
	}
}

// Initiate creates a hosted payment link for an order --> POST /payments/qr/:order_id
func (h *PaymentHandler) Initiate(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	payment, err := h.paymentService.Initiate(c.Request().Context(), orderID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// Webhook receives gateway push events --> POST /payments/webhook
func (h *PaymentHandler) Webhook(c echo.Context) error {
	if !h.debug {
		signature := c.Request().Header.Get("verif-hash")
		if signature == "" || signature != h.webhookSecret {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
		}
	}

	var ev service.WebhookEvent
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	outcome, err := h.paymentService.HandleWebhook(c.Request().Context(), ev)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": string(outcome)})
}

// Callback is the post-payment redirect landing --> GET /payments/callback
func (h *PaymentHandler) Callback(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"tx_ref": c.QueryParam("tx_ref"),
		"status": c.QueryParam("status"),
	})
}

// Status polls the gateway for a reference --> GET /payments/status/:reference
func (h *PaymentHandler) Status(c echo.Context) error {
	reference := c.Param("reference")
	if reference == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Reference required"})
	}

	status, err := h.paymentService.PollStatus(c.Request().Context(), reference)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status, "reference": reference})
}

// ByOrder looks up an order's payment --> GET /payments/order/:order_id
func (h *PaymentHandler) ByOrder(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	payment, err := h.paymentService.GetByOrder(c.Request().Context(), orderID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// Mine lists the caller's payments --> GET /payments/me
func (h *PaymentHandler) Mine(c echo.Context) error {
	claims := claimsFrom(c)

	payments, err := h.paymentService.ListCustomerPayments(c.Request().Context(), claims.UserID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}

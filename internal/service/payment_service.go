package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/Olatundeawo/ordora/internal/entity"
	"github.com/Olatundeawo/ordora/internal/gateway"
	"github.com/Olatundeawo/ordora/internal/repository"
)

const webhookEventChargeCompleted = "charge.completed"

type PaymentRepo interface {
	CreatePayment(ctx context.Context, p *entity.Payment) (*entity.Payment, error)
	GetPaymentByReference(ctx context.Context, reference string) (*entity.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID int) (*entity.Payment, error)
	GetPaymentsByCustomer(ctx context.Context, customerID int) ([]*entity.Payment, error)
	UpdatePaymentStatus(ctx context.Context, reference, status string) error
	MarkOrderPaid(ctx context.Context, orderID int, reference string) (bool, []repository.FulfilledItem, error)
}

type PaymentGateway interface {
	CreatePayment(ctx context.Context, p gateway.PaymentRequest) (string, error)
	VerifyTransaction(ctx context.Context, txRef string) (string, error)
}

// WebhookEvent is the gateway's push payload. Meta carries the order id the
// payment was initiated with; tx_ref is the idempotency key.
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

type WebhookData struct {
	Status string      `json:"status"`
	TxRef  string      `json:"tx_ref"`
	Meta   WebhookMeta `json:"meta"`
}

type WebhookMeta struct {
	OrderID int `json:"order_id"`
}

type WebhookOutcome string

const (
	OutcomeProcessed WebhookOutcome = "success"
	OutcomeIgnored   WebhookOutcome = "ignored"
	OutcomeDuplicate WebhookOutcome = "duplicate"
)

type PaymentService struct {
	payments    PaymentRepo
	orders      OrderRepo
	users       UserRepo
	gateway     PaymentGateway
	kafkaWriter *kafka.Writer
	redirectURL string
	currency    string
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(payments PaymentRepo, orders OrderRepo, users UserRepo, gw PaymentGateway, kafkaWriter *kafka.Writer, redirectURL, currency string) *PaymentService {
	return &PaymentService{
		payments:    payments,
		orders:      orders,
		users:       users,
		gateway:     gw,
		kafkaWriter: kafkaWriter,
		redirectURL: redirectURL,
		currency:    currency,
	}
}

// Initiate creates a hosted payment session for the order and persists the
// pending payment row. The call is idempotent: if a payment already exists
// for the order the stored one is returned without touching the gateway.
func (s *PaymentService) Initiate(ctx context.Context, orderID int) (*entity.Payment, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	existing, err := s.payments.GetPaymentByOrderID(ctx, orderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	customer, err := s.users.GetUserByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	txRef := TxRef(order.ID, order.CreatedAt.Unix())
	link, err := s.gateway.CreatePayment(ctx, gateway.PaymentRequest{
		TxRef:          txRef,
		Amount:         order.Total,
		Currency:       s.currency,
		PaymentOptions: "card,bank,ussd",
		RedirectURL:    s.redirectURL,
		Customer:       gateway.Customer{Email: customer.Email},
		Meta:           gateway.Meta{OrderID: order.ID},
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error initiating payment for order %d", orderID)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	payment, err := s.payments.CreatePayment(ctx, &entity.Payment{
		OrderID:    order.ID,
		Reference:  txRef,
		Amount:     order.Total,
		Status:     entity.PaymentStatusPending,
		HostedLink: link,
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error persisting payment for order %d", orderID)
		return nil, err
	}

	return payment, nil
}

// HandleWebhook consumes a gateway push event. Only a successful
// charge.completed transitions state; everything else is acknowledged and
// ignored. Redelivery of an already processed event is a no-op.
func (s *PaymentService) HandleWebhook(ctx context.Context, ev WebhookEvent) (WebhookOutcome, error) {
	if ev.Event != webhookEventChargeCompleted {
		return OutcomeIgnored, nil
	}

	orderID := ev.Data.Meta.OrderID
	if orderID == 0 {
		// Degraded path: some channels drop meta, so fall back to parsing
		// the order id out of the tx_ref. Lossy; only works for references
		// this service generated.
		id, ok := OrderIDFromTxRef(ev.Data.TxRef)
		if !ok {
			return "", fmt.Errorf("%w: order id missing from webhook", ErrInvalidInput)
		}
		orderID = id
	}

	if ev.Data.Status != gateway.StatusSuccessful {
		return OutcomeIgnored, nil
	}

	payment, err := s.payments.GetPaymentByReference(ctx, ev.Data.TxRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: payment %s", ErrNotFound, ev.Data.TxRef)
		}
		return "", err
	}
	if payment.OrderID != orderID {
		return "", fmt.Errorf("%w: tx_ref %s does not belong to order %d", ErrInvalidInput, ev.Data.TxRef, orderID)
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return "", err
	}

	return s.reconcilePaid(ctx, order, ev.Data.TxRef)
}

// PollStatus pulls the gateway's current status for a reference and folds it
// into local state. Converges with the webhook path: whichever runs first
// wins the pending->paid transition, the other observes a duplicate.
func (s *PaymentService) PollStatus(ctx context.Context, reference string) (string, error) {
	payment, err := s.payments.GetPaymentByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: payment %s", ErrNotFound, reference)
		}
		return "", err
	}

	status, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		logger.Error().Err(err).Msgf("Error verifying transaction %s", reference)
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	switch status {
	case gateway.StatusSuccessful:
		order, err := s.orders.GetOrderByID(ctx, payment.OrderID)
		if err != nil {
			return "", err
		}
		if _, err := s.reconcilePaid(ctx, order, reference); err != nil {
			return "", err
		}
	case gateway.StatusFailed:
		if err := s.payments.UpdatePaymentStatus(ctx, reference, entity.PaymentStatusFailed); err != nil {
			return "", err
		}
	}

	return status, nil
}

func (s *PaymentService) GetByOrder(ctx context.Context, orderID int) (*entity.Payment, error) {
	payment, err := s.payments.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment for order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ListCustomerPayments(ctx context.Context, customerID int) ([]*entity.Payment, error) {
	payments, err := s.payments.GetPaymentsByCustomer(ctx, customerID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing payments for customer %d", customerID)
		return nil, err
	}
	return payments, nil
}

func (s *PaymentService) reconcilePaid(ctx context.Context, order *entity.Order, reference string) (WebhookOutcome, error) {
	applied, fulfilled, err := s.payments.MarkOrderPaid(ctx, order.ID, reference)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marking order %d paid", order.ID)
		return "", err
	}
	if !applied {
		logger.Info().Msgf("Payment %s already processed, skipping", reference)
		return OutcomeDuplicate, nil
	}

	for _, f := range fulfilled {
		if f.Remaining < 0 {
			logger.Warn().Msgf("Goods %d stock went negative (%d) fulfilling order %d", f.ProductID, f.Remaining, order.ID)
		}
	}

	order.Status = entity.OrderStatusPaid
	if err := publishOrderEvent(ctx, s.kafkaWriter, order, "paid"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing paid event for order %d", order.ID)
	}

	return OutcomeProcessed, nil
}

// TxRef builds the transaction reference sent to the gateway. The embedded
// order id doubles as the webhook fallback lookup key.
func TxRef(orderID int, createdUnix int64) string {
	return fmt.Sprintf("order-%d-%d", orderID, createdUnix)
}

// OrderIDFromTxRef recovers the order id from a reference built by TxRef.
func OrderIDFromTxRef(txRef string) (int, bool) {
	parts := strings.Split(txRef, "-")
	if len(parts) < 2 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

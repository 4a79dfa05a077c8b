package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/Olatundeawo/ordora/internal/entity"
	"github.com/Olatundeawo/ordora/internal/repository"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, customerID int, items []entity.OrderItemRequest) (*entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	GetOrdersByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error)
	GetOrdersByProducer(ctx context.Context, producerID int) ([]*entity.Order, error)
	OrderContainsProducerGoods(ctx context.Context, orderID, producerID int) (bool, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) error
}

// OrderService is a service that provides order-related operations.
type OrderService struct {
	repo        OrderRepo
	kafkaWriter *kafka.Writer
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(repo OrderRepo, kafkaWriter *kafka.Writer) *OrderService {
	return &OrderService{repo: repo, kafkaWriter: kafkaWriter}
}

// CreateOrder creates a new order for the customer. The total is computed
// from current goods prices when the order is written; it is not recomputed
// against later price changes.
func (s *OrderService) CreateOrder(ctx context.Context, customerID int, items []entity.OrderItemRequest) (*entity.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrInvalidInput)
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %d", ErrInvalidInput, it.ProductID)
		}
	}

	order, err := s.repo.CreateOrder(ctx, customerID, items)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	if err := publishOrderEvent(ctx, s.kafkaWriter, order, "created"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing created event for order %d", order.ID)
	}

	return order, nil
}

// GetOrderForCustomer returns an order owned by the customer.
func (s *OrderService) GetOrderForCustomer(ctx context.Context, customerID, orderID int) (*entity.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}
	return order, nil
}

// GetOrderForProducer returns an order that includes at least one of the
// producer's goods.
func (s *OrderService) GetOrderForProducer(ctx context.Context, producerID, orderID int) (*entity.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.OrderContainsProducerGoods(ctx, orderID, producerID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error checking producer goods for order %d", orderID)
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}
	return order, nil
}

func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID int) ([]*entity.Order, error) {
	orders, err := s.repo.GetOrdersByCustomer(ctx, customerID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing orders for customer %d", customerID)
		return nil, err
	}
	return orders, nil
}

// ListProducerOrders returns orders containing at least one of the
// producer's goods.
func (s *OrderService) ListProducerOrders(ctx context.Context, producerID int) ([]*entity.Order, error) {
	orders, err := s.repo.GetOrdersByProducer(ctx, producerID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing orders for producer %d", producerID)
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID int) (*entity.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		logger.Error().Err(err).Msgf("Error getting order by ID %d", orderID)
		return nil, err
	}
	return order, nil
}

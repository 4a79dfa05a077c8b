package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Olatundeawo/ordora/internal/entity"
)

// ErrProductNotFound is returned when an order references goods that do
// not exist. The whole creation rolls back in that case.
var ErrProductNotFound = errors.New("product not found")

type OrderRepository struct {
	db *sql.DB
}

// orderTotal sums price*quantity over the submitted items using the prices
// read from the goods table. Every referenced product must have a price.
func orderTotal(prices map[int]decimal.Decimal, items []entity.OrderItemRequest) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		price, ok := prices[it.ProductID]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %d", ErrProductNotFound, it.ProductID)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// CreateOrder inserts the order and its items as one transaction. The total
// is computed from the goods table inside the transaction so client-supplied
// prices are never trusted.
func (r *OrderRepository) CreateOrder(ctx context.Context, customerID int, items []entity.OrderItemRequest) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	// Look up prices for every referenced product
	placeholders := make([]string, 0, len(items))
	ids := make([]interface{}, 0, len(items))
	for _, it := range items {
		placeholders = append(placeholders, "?")
		ids = append(ids, it.ProductID)
	}
	priceQuery := `SELECT id, price FROM goods WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, priceQuery, ids...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	prices := map[int]decimal.Decimal{}
	for rows.Next() {
		var id int
		var price decimal.Decimal
		if err := rows.Scan(&id, &price); err != nil {
			rows.Close()
			tx.Rollback()
			return nil, err
		}
		prices[id] = price
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		tx.Rollback()
		return nil, err
	}

	total, err := orderTotal(prices, items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderQuery := `INSERT INTO orders (customer_id, status, total) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, customerID, entity.OrderStatusPending, total)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Insert order items with batch
	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity) VALUES `
	var values []interface{}
	for _, it := range items {
		itemQuery += "(?, ?, ?),"
		values = append(values, orderID, it.ProductID, it.Quantity)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order := &entity.Order{
		ID:         int(orderID),
		CustomerID: customerID,
		Status:     entity.OrderStatusPending,
		Total:      total,
	}
	for _, it := range items {
		order.Items = append(order.Items, entity.OrderItem{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return order, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order := &entity.Order{}
	query := `SELECT id, customer_id, status, total, created_at FROM orders WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&order.ID, &order.CustomerID, &order.Status, &order.Total, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *OrderRepository) GetOrdersByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error) {
	query := `SELECT id, customer_id, status, total, created_at FROM orders WHERE customer_id = ? ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, customerID)
}

// GetOrdersByProducer lists orders that contain at least one of the
// producer's goods.
func (r *OrderRepository) GetOrdersByProducer(ctx context.Context, producerID int) ([]*entity.Order, error) {
	query := `SELECT DISTINCT o.id, o.customer_id, o.status, o.total, o.created_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN goods g ON g.id = oi.product_id
		WHERE g.producer_id = ?
		ORDER BY o.created_at DESC`
	return r.queryOrders(ctx, query, producerID)
}

// OrderContainsProducerGoods reports whether any line of the order is for
// goods owned by the producer.
func (r *OrderRepository) OrderContainsProducerGoods(ctx context.Context, orderID, producerID int) (bool, error) {
	query := `SELECT COUNT(*)
		FROM order_items oi
		JOIN goods g ON g.id = oi.product_id
		WHERE oi.order_id = ? AND g.producer_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, query, orderID, producerID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE orders SET status = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var o entity.Order
		err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.getItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}

	return orders, nil
}

func (r *OrderRepository) getItems(ctx context.Context, orderID int) ([]entity.OrderItem, error) {
	query := `SELECT id, order_id, product_id, quantity FROM order_items WHERE order_id = ?`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Olatundeawo/ordora/internal/entity"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db}
}

// FulfilledItem reports one stock decrement applied while marking an order
// paid. Remaining may be negative: fulfillment does not floor-check stock.
type FulfilledItem struct {
	ProductID int
	Quantity  int
	Remaining int
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, p *entity.Payment) (*entity.Payment, error) {
	query := `INSERT INTO payments (order_id, reference, amount, status, hosted_link) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, p.OrderID, p.Reference, p.Amount, p.Status, p.HostedLink)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	p.ID = int(id)
	return p, nil
}

func (r *PaymentRepository) GetPaymentByReference(ctx context.Context, reference string) (*entity.Payment, error) {
	query := `SELECT id, order_id, reference, amount, status, hosted_link, created_at, paid_at FROM payments WHERE reference = ?`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, reference))
}

func (r *PaymentRepository) GetPaymentByOrderID(ctx context.Context, orderID int) (*entity.Payment, error) {
	query := `SELECT id, order_id, reference, amount, status, hosted_link, created_at, paid_at FROM payments WHERE order_id = ?`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, orderID))
}

func (r *PaymentRepository) GetPaymentsByCustomer(ctx context.Context, customerID int) ([]*entity.Payment, error) {
	query := `SELECT p.id, p.order_id, p.reference, p.amount, p.status, p.hosted_link, p.created_at, p.paid_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE o.customer_id = ?
		ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		p := &entity.Payment{}
		var paidAt sql.NullTime
		err := rows.Scan(&p.ID, &p.OrderID, &p.Reference, &p.Amount, &p.Status, &p.HostedLink, &p.CreatedAt, &paidAt)
		if err != nil {
			return nil, err
		}
		if paidAt.Valid {
			p.PaidAt = &paidAt.Time
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *PaymentRepository) UpdatePaymentStatus(ctx context.Context, reference, status string) error {
	query := `UPDATE payments SET status = ? WHERE reference = ?`
	_, err := r.db.ExecContext(ctx, query, status, reference)
	if err != nil {
		return err
	}
	return nil
}

// MarkOrderPaid performs the reconcile transition as one transaction:
// payment pending->paid, order ->PAID, and every line item's goods quantity
// decremented under a row lock. The conditional UPDATE on the payment row is
// the idempotency guard: if the payment is no longer pending (webhook
// redelivery, or a concurrent poll won the race) nothing is applied and
// applied=false is returned.
func (r *PaymentRepository) MarkOrderPaid(ctx context.Context, orderID int, reference string) (applied bool, fulfilled []FulfilledItem, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE payments SET status = ?, paid_at = ? WHERE reference = ? AND status = ?`,
		entity.PaymentStatusPaid, time.Now().UTC(), reference, entity.PaymentStatusPending)
	if err != nil {
		tx.Rollback()
		return false, nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, nil, err
	}
	if n == 0 {
		tx.Rollback()
		return false, nil, nil
	}

	_, err = tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, entity.OrderStatusPaid, orderID)
	if err != nil {
		tx.Rollback()
		return false, nil, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT product_id, quantity FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		tx.Rollback()
		return false, nil, err
	}
	type line struct{ productID, qty int }
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.qty); err != nil {
			rows.Close()
			tx.Rollback()
			return false, nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		tx.Rollback()
		return false, nil, err
	}

	for _, l := range lines {
		var stock int
		if err := tx.QueryRowContext(ctx, `SELECT quantity FROM goods WHERE id = ? FOR UPDATE`, l.productID).Scan(&stock); err != nil {
			tx.Rollback()
			return false, nil, err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE goods SET quantity = quantity - ? WHERE id = ?`, l.qty, l.productID); err != nil {
			tx.Rollback()
			return false, nil, err
		}
		fulfilled = append(fulfilled, FulfilledItem{
			ProductID: l.productID,
			Quantity:  l.qty,
			Remaining: stock - l.qty,
		})
	}

	if err := tx.Commit(); err != nil {
		return false, nil, err
	}
	return true, fulfilled, nil
}

func (r *PaymentRepository) scanPayment(row *sql.Row) (*entity.Payment, error) {
	p := &entity.Payment{}
	var paidAt sql.NullTime
	err := row.Scan(&p.ID, &p.OrderID, &p.Reference, &p.Amount, &p.Status, &p.HostedLink, &p.CreatedAt, &paidAt)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}
	return p, nil
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Payment struct {
	ID         int             `json:"id"`
	OrderID    int             `json:"order_id"`
	Reference  string          `json:"reference"` // gateway tx_ref, idempotency key
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	HostedLink string          `json:"hosted_link"`
	CreatedAt  time.Time       `json:"created_at"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

/*
Mysql Schema:

CREATE TABLE payments (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL UNIQUE,
	reference VARCHAR(100) NOT NULL UNIQUE,
	amount DECIMAL(10,2) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	hosted_link TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	paid_at TIMESTAMP NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);
*/

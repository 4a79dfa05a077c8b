package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCompleted = "COMPLETED"
)

type Order struct {
	ID         int             `json:"id"`
	CustomerID int             `json:"customer_id"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Items      []OrderItem     `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID        int `json:"id"`
	OrderID   int `json:"order_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// OrderItemRequest is what a customer submits; prices are never taken
// from the client, they are read from the goods table at creation time.
type OrderItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

/*
Mysql Schema:

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	customer_id INT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	total DECIMAL(10,2) NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (customer_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL,
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
	FOREIGN KEY (product_id) REFERENCES goods(id) ON DELETE CASCADE
);
*/

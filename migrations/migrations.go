package migrations

import (
	"database/sql"
	"time"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS goods (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		producer_id INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (producer_id) REFERENCES users(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		customer_id INT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		total DECIMAL(10,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_id) REFERENCES users(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
		FOREIGN KEY (product_id) REFERENCES goods(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS payments (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL UNIQUE,
		reference VARCHAR(100) NOT NULL UNIQUE,
		amount DECIMAL(10,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		hosted_link TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		paid_at TIMESTAMP NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	);`,
}

// AutoMigrate creates the schema if it does not exist. Tables are applied
// in dependency order so the foreign keys resolve.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

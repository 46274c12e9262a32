package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Decimal columns hold exact decimal text and creationDate holds the
// normalized ISO-8601 timestamp, so ordering by it is chronological.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    orderId TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    creationDate TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_creation_date ON orders(creationDate);

CREATE TABLE IF NOT EXISTS items (
    itemId INTEGER PRIMARY KEY AUTOINCREMENT,
    orderId TEXT NOT NULL,
    productId INTEGER NOT NULL,
    quantity INTEGER NOT NULL,
    price TEXT NOT NULL,
    FOREIGN KEY (orderId) REFERENCES orders(orderId) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_order_product ON items(orderId, productId);
`

// EnsureSchema creates the orders and items tables if they are missing
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return tx.Commit()
}

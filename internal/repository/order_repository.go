package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/apperror"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is an open transaction. Commit or Rollback releases its connection.
type Tx interface {
	DBTX
	Commit() error
	Rollback() error
}

// OrderRepository issues the order and item statements against a SQLite pool.
// Write operations run on the transaction they are given; the finders and
// DeleteOrderHeader run directly on the pool.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a repository over an open pool
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// BeginTx starts a new transaction
func (r *OrderRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// InsertOrder inserts the order header. A duplicate orderId yields an
// *apperror.ConflictError.
func (r *OrderRepository) InsertOrder(ctx context.Context, tx DBTX, order *models.Order) error {
	query := `INSERT INTO orders (orderId, value, creationDate) VALUES (?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		order.OrderID, order.Value.String(), models.FormatTimestamp(order.CreationDate))
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("Order", order.OrderID, err)
		}
		return fmt.Errorf("failed to insert order %s: %w", order.OrderID, err)
	}
	return nil
}

// InsertOrderItem inserts one item row for orderID
func (r *OrderRepository) InsertOrderItem(ctx context.Context, tx DBTX, orderID string, item models.OrderItem) error {
	query := `INSERT INTO items (orderId, productId, quantity, price) VALUES (?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query, orderID, item.ProductID, item.Quantity, item.Price.String())
	if err != nil {
		return fmt.Errorf("failed to insert item %d for order %s: %w", item.ProductID, orderID, err)
	}
	return nil
}

// FindOrderByID returns the order header, or ErrOrderNotFound
func (r *OrderRepository) FindOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `SELECT orderId, value, creationDate FROM orders WHERE orderId = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}
	return order, nil
}

// FindItemsByOrderID returns the items of an order in insertion order
func (r *OrderRepository) FindItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `
		SELECT productId, quantity, price
		FROM items
		WHERE orderId = ?
		ORDER BY itemId
	`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for order %s: %w", orderID, err)
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		var price string
		if err := rows.Scan(&item.ProductID, &item.Quantity, &price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid price %q for order %s: %w", price, orderID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// FindAllOrders returns every order header, newest first
func (r *OrderRepository) FindAllOrders(ctx context.Context) ([]models.Order, error) {
	query := `SELECT orderId, value, creationDate FROM orders ORDER BY creationDate DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderHeader sets value and creationDate and returns the affected row count
func (r *OrderRepository) UpdateOrderHeader(ctx context.Context, tx DBTX, orderID string, order *models.Order) (int64, error) {
	query := `UPDATE orders SET value = ?, creationDate = ? WHERE orderId = ?`

	result, err := tx.ExecContext(ctx, query,
		order.Value.String(), models.FormatTimestamp(order.CreationDate), orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to update order %s: %w", orderID, err)
	}
	return result.RowsAffected()
}

// UpdateOrderItem sets quantity and price of the item matching orderID and
// productID and returns the affected row count
func (r *OrderRepository) UpdateOrderItem(ctx context.Context, tx DBTX, orderID string, productID int, item models.OrderItem) (int64, error) {
	query := `UPDATE items SET quantity = ?, price = ? WHERE orderId = ? AND productId = ?`

	result, err := tx.ExecContext(ctx, query, item.Quantity, item.Price.String(), orderID, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to update item %d of order %s: %w", productID, orderID, err)
	}
	return result.RowsAffected()
}

// DeleteOrderHeader deletes the order row; its items go with it through the
// foreign key cascade. Returns the affected row count.
func (r *OrderRepository) DeleteOrderHeader(ctx context.Context, orderID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE orderId = ?`, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}
	return result.RowsAffected()
}

// Ping checks that the pool can reach the database
func (r *OrderRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var value, created string
	if err := row.Scan(&order.OrderID, &value, &created); err != nil {
		return nil, err
	}

	var err error
	if order.Value, err = decimal.NewFromString(value); err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", value, err)
	}
	if order.CreationDate, err = time.Parse(models.TimestampLayout, created); err != nil {
		return nil, fmt.Errorf("invalid creationDate %q: %w", created, err)
	}
	return &order, nil
}

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/apperror"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/models"
)

func setupTestRepo(t *testing.T) (*OrderRepository, *sql.DB) {
	t.Helper()
	db, err := OpenInMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewOrderRepository(db), db
}

func newOrder(id string, value string, created time.Time) *models.Order {
	return &models.Order{
		OrderID:      id,
		Value:        decimal.RequireFromString(value),
		CreationDate: created,
	}
}

// insertOrder writes an order and its items in one committed transaction
func insertOrder(t *testing.T, repo *OrderRepository, order *models.Order) {
	t.Helper()
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.InsertOrder(ctx, tx, order))
	for _, item := range order.Items {
		require.NoError(t, repo.InsertOrderItem(ctx, tx, order.OrderID, item))
	}
	require.NoError(t, tx.Commit())
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestInsertAndFindOrder(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	order := newOrder("1001", "99.50", created)
	order.Items = []models.OrderItem{
		{ProductID: 7, Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{ProductID: 3, Quantity: 1, Price: decimal.RequireFromString("79.50")},
	}
	insertOrder(t, repo, order)

	found, err := repo.FindOrderByID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", found.OrderID)
	assert.True(t, order.Value.Equal(found.Value))
	assert.True(t, created.Equal(found.CreationDate))

	items, err := repo.FindItemsByOrderID(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 7, items[0].ProductID)
	assert.Equal(t, 3, items[1].ProductID)
	assert.True(t, decimal.RequireFromString("79.5").Equal(items[1].Price))
}

func TestFindOrderByID_NotFound(t *testing.T) {
	repo, _ := setupTestRepo(t)

	_, err := repo.FindOrderByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFindItemsByOrderID_Empty(t *testing.T) {
	repo, _ := setupTestRepo(t)

	items, err := repo.FindItemsByOrderID(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestInsertOrder_Duplicate(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	insertOrder(t, repo, newOrder("1001", "1", time.Now()))

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	err = repo.InsertOrder(ctx, tx, newOrder("1001", "2", time.Now()))
	require.Error(t, err)

	var conflict *apperror.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "1001", conflict.ID)
	assert.NotNil(t, conflict.Unwrap())

	require.NoError(t, tx.Rollback())
	assert.Equal(t, 1, countRows(t, db, "orders"))
}

func TestInsertOrderItem_UnknownOrder(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	// foreign keys are enforced on pooled connections
	err = repo.InsertOrderItem(ctx, tx, "missing", models.OrderItem{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestFindAllOrders_NewestFirst(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	insertOrder(t, repo, newOrder("a", "1", base))
	insertOrder(t, repo, newOrder("b", "2", base.Add(48*time.Hour)))
	insertOrder(t, repo, newOrder("c", "3", base.Add(-time.Hour)))

	orders, err := repo.FindAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{orders[0].OrderID, orders[1].OrderID, orders[2].OrderID})
}

func TestFindAllOrders_Empty(t *testing.T) {
	repo, _ := setupTestRepo(t)

	orders, err := repo.FindAllOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestUpdateOrderHeader(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	insertOrder(t, repo, newOrder("1001", "10", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	updated := newOrder("", "25.75", time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC))

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	n, err := repo.UpdateOrderHeader(ctx, tx, "1001", updated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.UpdateOrderHeader(ctx, tx, "missing", updated)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, tx.Commit())

	found, err := repo.FindOrderByID(ctx, "1001")
	require.NoError(t, err)
	assert.True(t, updated.Value.Equal(found.Value))
	assert.True(t, updated.CreationDate.Equal(found.CreationDate))
}

func TestUpdateOrderItem(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	order := newOrder("1001", "10", time.Now())
	order.Items = []models.OrderItem{{ProductID: 7, Quantity: 1, Price: decimal.NewFromInt(10)}}
	insertOrder(t, repo, order)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	n, err := repo.UpdateOrderItem(ctx, tx, "1001", 7, models.OrderItem{Quantity: 5, Price: decimal.RequireFromString("2.5")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.UpdateOrderItem(ctx, tx, "1001", 8, models.OrderItem{Quantity: 5, Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, tx.Commit())

	items, err := repo.FindItemsByOrderID(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, decimal.RequireFromString("2.5").Equal(items[0].Price))
}

func TestDeleteOrderHeader_CascadesItems(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	order := newOrder("1001", "10", time.Now())
	order.Items = []models.OrderItem{
		{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(5)},
		{ProductID: 2, Quantity: 1, Price: decimal.NewFromInt(5)},
	}
	insertOrder(t, repo, order)
	insertOrder(t, repo, &models.Order{
		OrderID:      "2002",
		Value:        decimal.NewFromInt(1),
		CreationDate: time.Now(),
		Items:        []models.OrderItem{{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(1)}},
	})
	require.Equal(t, 3, countRows(t, db, "items"))

	n, err := repo.DeleteOrderHeader(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, countRows(t, db, "orders"))
	assert.Equal(t, 1, countRows(t, db, "items"))

	n, err = repo.DeleteOrderHeader(ctx, "1001")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	_, db := setupTestRepo(t)
	assert.NoError(t, EnsureSchema(context.Background(), db))
}

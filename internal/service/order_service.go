package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/apperror"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/mapper"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/repository"
)

const orderResource = "Order"

// OrderRepository interface for order data access
type OrderRepository interface {
	BeginTx(ctx context.Context) (repository.Tx, error)
	InsertOrder(ctx context.Context, tx repository.DBTX, order *models.Order) error
	InsertOrderItem(ctx context.Context, tx repository.DBTX, orderID string, item models.OrderItem) error
	FindOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	FindItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
	FindAllOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderHeader(ctx context.Context, tx repository.DBTX, orderID string, order *models.Order) (int64, error)
	UpdateOrderItem(ctx context.Context, tx repository.DBTX, orderID string, productID int, item models.OrderItem) (int64, error)
	DeleteOrderHeader(ctx context.Context, orderID string) (int64, error)
}

// OrderService runs the order workflows. Every write happens inside a single
// transaction that is committed on success and rolled back on any error.
type OrderService struct {
	repo OrderRepository
	log  *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repo OrderRepository, log *slog.Logger) *OrderService {
	return &OrderService{
		repo: repo,
		log:  log,
	}
}

// CreateOrder maps the payload and stores the header and all items atomically.
// Items are inserted in payload order; the first failure aborts the rest.
func (s *OrderService) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	order, err := mapper.ToOrder(payload)
	if err != nil {
		return nil, err
	}

	err = s.withTx(ctx, func(tx repository.Tx) error {
		if err := s.repo.InsertOrder(ctx, tx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := s.repo.InsertOrderItem(ctx, tx, order.OrderID, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderDetails returns the order header with its items.
// The two reads are not transactional.
func (s *OrderService) GetOrderDetails(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.FindItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListOrders returns all order headers, newest first, without items
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.repo.FindAllOrders(ctx)
}

// UpdateOrder replaces the header value and creation date.
// A zero affected-row count is reported as not found, so a concurrent
// delete cannot slip between a check and the update.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID string, payload models.OrderPayload) (bool, error) {
	header, err := mapper.ToHeader(payload)
	if err != nil {
		return false, err
	}

	err = s.withTx(ctx, func(tx repository.Tx) error {
		affected, err := s.repo.UpdateOrderHeader(ctx, tx, orderID, header)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.NewNotFound(orderResource, orderID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// UpdateItemOrder sets quantity and price of one item of an order.
// Both values are required; nothing is read or written when either is missing.
func (s *OrderService) UpdateItemOrder(ctx context.Context, orderID string, productID int, update models.ItemUpdate) (bool, error) {
	if update.Quantity == nil {
		return false, apperror.NewValidation("quantity", "is required")
	}
	if update.Price == nil {
		return false, apperror.NewValidation("price", "is required")
	}

	if _, err := s.findOrder(ctx, orderID); err != nil {
		return false, err
	}

	item := models.OrderItem{
		ProductID: productID,
		Quantity:  *update.Quantity,
		Price:     *update.Price,
	}

	err := s.withTx(ctx, func(tx repository.Tx) error {
		affected, err := s.repo.UpdateOrderItem(ctx, tx, orderID, productID, item)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.NewNotFound(fmt.Sprintf("Item %d in Order", productID), orderID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// DeleteOrder removes the order; the store cascades the delete to its items
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	affected, err := s.repo.DeleteOrderHeader(ctx, orderID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NewNotFound(orderResource, orderID)
	}
	return nil
}

func (s *OrderService) findOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, apperror.NewNotFound(orderResource, orderID)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// withTx runs fn inside a transaction. It commits when fn succeeds and rolls
// back before returning fn's error unchanged otherwise. Commit and Rollback
// both hand the connection back to the pool.
func (s *OrderService) withTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}

	finished := false
	defer func() {
		// fn panicked
		if !finished {
			_ = tx.Rollback()
		}
	}()

	err = fn(tx)
	finished = true
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("failed to roll back transaction", "error", rbErr, "cause", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/apperror"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/mapper"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// Routes registers the order endpoints; mount it under /order
func (h *OrderHandler) Routes(r chi.Router) {
	r.Get("/list", h.ListOrders)
	r.Post("/", h.CreateOrder)
	r.Get("/{orderId}", h.GetOrder)
	r.Put("/{orderId}", h.UpdateOrder)
	r.Delete("/{orderId}", h.DeleteOrder)
	r.Put("/{orderId}/item/{productId}", h.UpdateItem)
}

// ListOrders handles GET /order/list
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.fail(w, "failed to list orders", err)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewOrderSummaries(orders), h.log)
}

// CreateOrder handles POST /order
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), req)
	if err != nil {
		h.fail(w, "failed to create order", err)
		return
	}

	WriteJSON(w, http.StatusCreated, models.CreateOrderResponse{
		Message: "Order created successfully",
		OrderID: order.OrderID,
		Data:    models.NewOrderResponse(order),
	}, h.log)
	h.log.Info("order created successfully", "order_id", order.OrderID, "items_count", len(order.Items))
}

// GetOrder handles GET /order/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.orderService.GetOrderDetails(r.Context(), orderID)
	if err != nil {
		h.fail(w, "failed to get order", err, "order_id", orderID)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewOrderResponse(order), h.log)
}

// UpdateOrder handles PUT /order/{orderId}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req models.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode order update", "order_id", orderID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if _, err := h.orderService.UpdateOrder(r.Context(), orderID, req); err != nil {
		h.fail(w, "failed to update order", err, "order_id", orderID)
		return
	}

	WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Order updated successfully"}, h.log)
}

// DeleteOrder handles DELETE /order/{orderId}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	if err := h.orderService.DeleteOrder(r.Context(), orderID); err != nil {
		h.fail(w, "failed to delete order", err, "order_id", orderID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateItem handles PUT /order/{orderId}/item/{productId}
func (h *OrderHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	rawProductID := chi.URLParam(r, "productId")

	productID, err := strconv.Atoi(rawProductID)
	if err != nil {
		h.log.Warn("invalid product ID format", "productId", rawProductID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid product ID", h.log)
		return
	}

	var req models.ItemUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode item update", "order_id", orderID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if _, err := h.orderService.UpdateItemOrder(r.Context(), orderID, productID, mapper.ToItemUpdate(req)); err != nil {
		h.fail(w, "failed to update item", err, "order_id", orderID, "productId", productID)
		return
	}

	WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Item updated successfully"}, h.log)
}

// fail logs err at a level matching its classification and writes the response
func (h *OrderHandler) fail(w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	if apperror.StatusCode(err) == http.StatusInternalServerError {
		h.log.Error(msg, attrs...)
	} else {
		h.log.Info(msg, attrs...)
	}
	WriteAppError(w, err, h.log)
}

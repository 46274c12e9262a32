package models

// OrderResponse is the outbound order with its items
type OrderResponse struct {
	OrderID      string         `json:"orderId"`
	Value        float64        `json:"value"`
	CreationDate string         `json:"creationDate"`
	Items        []ItemResponse `json:"items"`
}

// ItemResponse is an outbound line item
type ItemResponse struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderSummary is the outbound order header used by the list endpoint
type OrderSummary struct {
	OrderID      string  `json:"orderId"`
	Value        float64 `json:"value"`
	CreationDate string  `json:"creationDate"`
}

// CreateOrderResponse is returned after an order is created
type CreateOrderResponse struct {
	Message string        `json:"message"`
	OrderID string        `json:"orderId"`
	Data    OrderResponse `json:"data"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// NewOrderResponse formats an order for the wire: decimals become numbers
// and the creation date becomes an ISO-8601 string.
func NewOrderResponse(o *Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		})
	}

	return OrderResponse{
		OrderID:      o.OrderID,
		Value:        o.Value.InexactFloat64(),
		CreationDate: FormatTimestamp(o.CreationDate),
		Items:        items,
	}
}

// NewOrderSummaries projects orders to their headers
func NewOrderSummaries(orders []Order) []OrderSummary {
	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, OrderSummary{
			OrderID:      o.OrderID,
			Value:        o.Value.InexactFloat64(),
			CreationDate: FormatTimestamp(o.CreationDate),
		})
	}
	return summaries
}

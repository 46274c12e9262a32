// Package mapper translates inbound order payloads into the internal,
// store-shaped representation. All functions are pure.
package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/apperror"
	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/models"
)

// accepted creation date layouts, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02",
}

// ToOrder maps a full inbound order, items included
func ToOrder(in models.OrderPayload) (*models.Order, error) {
	if in.NumeroPedido == nil || strings.TrimSpace(*in.NumeroPedido) == "" {
		return nil, apperror.NewValidation("numeroPedido", "is required")
	}

	order, err := ToHeader(in)
	if err != nil {
		return nil, err
	}
	order.OrderID = OrderID(*in.NumeroPedido)

	order.Items = make([]models.OrderItem, 0, len(in.Items))
	for i, item := range in.Items {
		mapped, err := toItem(i, item)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, mapped)
	}

	return order, nil
}

// ToHeader maps the header fields (value and creation date) only.
// The returned order has no ID and no items.
func ToHeader(in models.OrderPayload) (*models.Order, error) {
	if in.ValorTotal == nil {
		return nil, apperror.NewValidation("valorTotal", "is required")
	}
	if in.DataCriacao == nil {
		return nil, apperror.NewValidation("dataCriacao", "is required")
	}

	created, err := ParseDate(*in.DataCriacao)
	if err != nil {
		return nil, err
	}

	return &models.Order{
		Value:        *in.ValorTotal,
		CreationDate: created,
	}, nil
}

// OrderID strips the suffix segment from an order number: "1001-01" becomes "1001"
func OrderID(numeroPedido string) string {
	if i := strings.Index(numeroPedido, "-"); i >= 0 {
		return numeroPedido[:i]
	}
	return numeroPedido
}

// ParseDate parses a creation date and normalizes it to UTC with millisecond precision
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, apperror.NewValidation("dataCriacao", fmt.Sprintf("cannot parse %q as a date", s))
}

// ToItemUpdate normalizes the two accepted spellings of an item update.
// The camelCase field wins when both are present.
func ToItemUpdate(in models.ItemUpdatePayload) models.ItemUpdate {
	update := models.ItemUpdate{
		Quantity: in.Quantity,
		Price:    in.Price,
	}
	if update.Quantity == nil {
		update.Quantity = in.QuantidadeItem
	}
	if update.Price == nil {
		update.Price = in.ValorItem
	}
	return update
}

func toItem(index int, in models.ItemPayload) (models.OrderItem, error) {
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", index, name)
	}

	productID, err := strconv.Atoi(in.IDItem.String())
	if err != nil {
		return models.OrderItem{}, apperror.NewValidation(field("idItem"), fmt.Sprintf("%q is not an integer", in.IDItem.String()))
	}
	if in.QuantidadeItem == nil {
		return models.OrderItem{}, apperror.NewValidation(field("quantidadeItem"), "is required")
	}
	if in.ValorItem == nil {
		return models.OrderItem{}, apperror.NewValidation(field("valorItem"), "is required")
	}

	return models.OrderItem{
		ProductID: productID,
		Quantity:  *in.QuantidadeItem,
		Price:     *in.ValorItem,
	}, nil
}

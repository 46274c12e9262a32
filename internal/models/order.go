package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the normalized ISO-8601 form used on the wire and in the store
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// OrderPayload is the inbound order body.
// Field names follow the upstream order feed, not the outbound camelCase.
type OrderPayload struct {
	NumeroPedido *string          `json:"numeroPedido"`
	DataCriacao  *string          `json:"dataCriacao"`
	ValorTotal   *decimal.Decimal `json:"valorTotal"`
	Items        []ItemPayload    `json:"items"`
}

// ItemPayload is one inbound line item.
// idItem arrives either as a JSON string or a JSON number.
type ItemPayload struct {
	IDItem         json.Number      `json:"idItem"`
	QuantidadeItem *int             `json:"quantidadeItem"`
	ValorItem      *decimal.Decimal `json:"valorItem"`
}

// ItemUpdatePayload is the body of an item update. Both spellings are
// accepted for each value; see mapper.ToItemUpdate.
type ItemUpdatePayload struct {
	Quantity       *int             `json:"quantity"`
	QuantidadeItem *int             `json:"quantidadeItem"`
	Price          *decimal.Decimal `json:"price"`
	ValorItem      *decimal.Decimal `json:"valorItem"`
}

// ItemUpdate is the normalized item update. Nil means the value was absent.
type ItemUpdate struct {
	Quantity *int
	Price    *decimal.Decimal
}

// Order is the internal, store-shaped order
type Order struct {
	OrderID      string
	Value        decimal.Decimal
	CreationDate time.Time
	Items        []OrderItem
}

// OrderItem is a single line item of an order
type OrderItem struct {
	ProductID int
	Quantity  int
	Price     decimal.Decimal
}

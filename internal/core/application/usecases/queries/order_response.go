// Package queries contains the read operations of the order lifecycle.
// Queries never mutate state; the pending list is served through the cache.
package queries

import (
	"time"

	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderResponse is the read model of an order. It is also the element type of
// the cached pending list snapshot, so its JSON shape is the cache format.
type OrderResponse struct {
	ID         int64          `json:"id"`
	ClientName string         `json:"clientName"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Items      []ItemResponse `json:"items"`
}

type ItemResponse struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewOrderResponse maps an aggregate to its read model.
func NewOrderResponse(o *order.Order) OrderResponse {
	items := o.Items()
	resp := OrderResponse{
		ID:         o.ID(),
		ClientName: o.ClientName(),
		Status:     o.Status().String(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
		Items:      make([]ItemResponse, 0, len(items)),
	}

	for _, item := range items {
		resp.Items = append(resp.Items, ItemResponse{
			ID:          item.ID(),
			OrderID:     item.OrderID(),
			Description: item.Description(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Amount(),
			CreatedAt:   item.CreatedAt(),
			UpdatedAt:   item.UpdatedAt(),
		})
	}

	return resp
}

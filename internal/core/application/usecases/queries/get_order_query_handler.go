package queries

import (
	"context"

	"orders/internal/core/ports"
)

// GetOrderQueryHandler reads a single order straight from the store.
// A missing order surfaces as errs.ErrObjectNotFound.
type GetOrderQueryHandler struct {
	reader ports.OrderReader
}

func NewGetOrderQueryHandler(reader ports.OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}

	return NewOrderResponse(o), nil
}

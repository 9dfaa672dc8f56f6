package http

import (
	"errors"
	"log/slog"
	"net/http"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const orderNotFoundMessage = "Order not found"

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  commands.CreateOrderCommandHandler
	advanceOrderHandler commands.AdvanceOrderCommandHandler

	// Query handlers
	getPendingOrdersHandler queries.GetPendingOrdersQueryHandler
	getOrderHandler         queries.GetOrderQueryHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	getPendingOrdersHandler queries.GetPendingOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		advanceOrderHandler:     advanceOrderHandler,
		getPendingOrdersHandler: getPendingOrdersHandler,
		getOrderHandler:         getOrderHandler,
		logger:                  logger.With("component", "http_server"),
	}
}

// ListOrders handles GET /orders - retrieves all orders that are not delivered.
func (s *Server) ListOrders(ctx echo.Context) error {
	orders, err := s.getPendingOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetPendingOrdersQuery())
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve orders")
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id int64) error {
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.writeError(ctx, err, "")
	}

	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, toOrder(o))
}

// CreateOrder handles POST /orders - creates a new initiated order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := ctx.Validate(&body); err != nil {
		return s.writeError(ctx, err, "")
	}

	items := make([]commands.NewOrderItem, len(body.Items))
	for i, item := range body.Items {
		items[i] = commands.NewOrderItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
		}
	}

	cmd, err := commands.NewCreateOrderCommand(body.ClientName, items)
	if err != nil {
		return s.writeError(ctx, err, "")
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, toOrder(queries.NewOrderResponse(created)))
}

// AdvanceOrder handles POST /orders/{id}/advance. The response is the order
// after the step, or a message once the order has been delivered and removed.
func (s *Server) AdvanceOrder(ctx echo.Context, id int64) error {
	cmd, err := commands.NewAdvanceOrderCommand(id)
	if err != nil {
		return s.writeError(ctx, err, "")
	}

	result, err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err, "Failed to advance order")
	}

	if result.Deleted {
		return ctx.JSON(http.StatusOK, Message{Message: result.Message})
	}
	return ctx.JSON(http.StatusOK, toOrder(queries.NewOrderResponse(result.Order)))
}

// writeError maps application errors to responses: validation failures to
// 400, missing orders to 404 and everything else to 500 with fallback as the
// message.
func (s *Server) writeError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errs.IsValidation(err):
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: orderNotFoundMessage})
	}

	s.logger.ErrorContext(ctx.Request().Context(), "request failed",
		"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
	if fallback == "" {
		fallback = http.StatusText(http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusInternalServerError, Error{Code: http.StatusInternalServerError, Message: fallback})
}

func toOrder(o queries.OrderResponse) Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		}
	}

	return Order{
		ID:         o.ID,
		ClientName: o.ClientName,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Items:      items,
	}
}

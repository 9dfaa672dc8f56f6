package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// NewOrder is the POST /orders request body.
type NewOrder struct {
	ClientName string         `json:"clientName" validate:"required"`
	Items      []NewOrderItem `json:"items"      validate:"required,dive"`
}

// NewOrderItem is one line of a NewOrder.
type NewOrderItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity"    validate:"gte=1"`
	UnitPrice   float64 `json:"unitPrice"   validate:"gte=0"`
}

// Order is the wire shape of an order with its items.
type Order struct {
	ID         int64       `json:"id"`
	ClientName string      `json:"clientName"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	Items      []OrderItem `json:"items"`
}

type OrderItem struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"orderId"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Message struct {
	Message string `json:"message"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List every order that is not delivered
	// (GET /orders)
	ListOrders(ctx echo.Context) error
	// Create an initiated order
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// Get one order by id
	// (GET /orders/{id})
	GetOrder(ctx echo.Context, id int64) error
	// Move the order one step forward
	// (POST /orders/{id}/advance)
	AdvanceOrder(ctx echo.Context, id int64) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	return w.Handler.ListOrders(ctx)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) AdvanceOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AdvanceOrder(ctx, id)
}

func bindOrderID(ctx echo.Context) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/orders", wrapper.ListOrders)
	router.POST(baseURL+"/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/orders/:id", wrapper.GetOrder)
	router.POST(baseURL+"/orders/:id/advance", wrapper.AdvanceOrder)
}

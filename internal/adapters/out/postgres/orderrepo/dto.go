// Package orderrepo maps the order aggregate onto the orders and order_items
// tables and implements ports.OrderRepository with GORM.
package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is a row of the orders table.
type OrderDTO struct {
	ID         int64          `gorm:"column:id;primaryKey;autoIncrement"`
	ClientName string         `gorm:"column:client_name;not null"`
	Status     string         `gorm:"column:status;not null;index"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	Items      []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is a row of the order_items table.
type OrderItemDTO struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"column:order_id;not null;index"`
	Description string          `gorm:"column:description;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:         aggregate.ID(),
		ClientName: aggregate.ClientName(),
		Status:     aggregate.Status().String(),
		CreatedAt:  aggregate.CreatedAt(),
		UpdatedAt:  aggregate.UpdatedAt(),
	}
}

func itemFromDomain(orderID int64, item order.Item) OrderItemDTO {
	return OrderItemDTO{
		OrderID:     orderID,
		Description: item.Description(),
		Quantity:    item.Quantity(),
		UnitPrice:   item.UnitPrice().Amount(),
	}
}

// ToDomain rebuilds the aggregate from a row and its item rows.
func ToDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		price, priceErr := kernel.NewPrice(itemDTO.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}

		item, itemErr := order.RestoreItem(
			itemDTO.ID,
			itemDTO.OrderID,
			itemDTO.Description,
			itemDTO.Quantity,
			price,
			itemDTO.CreatedAt,
			itemDTO.UpdatedAt,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(dto.ID, dto.ClientName, status, dto.CreatedAt, dto.UpdatedAt, items)
}

// Package orderquery is the read side of the order store. It joins orders
// with their items in a single statement built with squirrel.
package orderquery

import (
	"context"
	"database/sql"
	"fmt"

	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// Reader implements ports.OrderReader.
type Reader struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

func NewReader(db *sql.DB) *Reader {
	return &Reader{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindNonDelivered returns pending orders with their items ordered by order id.
func (r *Reader) FindNonDelivered(ctx context.Context) ([]*order.Order, error) {
	query := r.baseQuery().Where(squirrel.NotEq{"o.status": order.Delivered.String()})

	dtos, err := r.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, mapErr := orderrepo.ToDomain(dto)
		if mapErr != nil {
			return nil, fmt.Errorf("map order %d: %w", dto.ID, mapErr)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *Reader) Get(ctx context.Context, id int64) (*order.Order, error) {
	dtos, err := r.fetch(ctx, r.baseQuery().Where(squirrel.Eq{"o.id": id}))
	if err != nil {
		return nil, err
	}

	if len(dtos) == 0 {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return orderrepo.ToDomain(dtos[0])
}

func (r *Reader) baseQuery() squirrel.SelectBuilder {
	return r.sq.
		Select(
			"o.id", "o.client_name", "o.status", "o.created_at", "o.updated_at",
			"i.id", "i.description", "i.quantity", "i.unit_price", "i.created_at", "i.updated_at",
		).
		From("orders o").
		LeftJoin("order_items i ON i.order_id = o.id").
		OrderBy("o.id", "i.id")
}

// fetch runs the join and folds item rows into their order.
func (r *Reader) fetch(ctx context.Context, query squirrel.SelectBuilder) ([]orderrepo.OrderDTO, error) {
	const op = "orderquery.Reader.fetch"

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	dtos := make([]orderrepo.OrderDTO, 0)
	for rows.Next() {
		var (
			o           orderrepo.OrderDTO
			itemID      sql.NullInt64
			description sql.NullString
			quantity    sql.NullInt64
			unitPrice   decimal.NullDecimal
			itemCreated sql.NullTime
			itemUpdated sql.NullTime
		)

		if err = rows.Scan(
			&o.ID, &o.ClientName, &o.Status, &o.CreatedAt, &o.UpdatedAt,
			&itemID, &description, &quantity, &unitPrice, &itemCreated, &itemUpdated,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		if len(dtos) == 0 || dtos[len(dtos)-1].ID != o.ID {
			o.Items = make([]orderrepo.OrderItemDTO, 0)
			dtos = append(dtos, o)
		}

		if itemID.Valid {
			last := &dtos[len(dtos)-1]
			last.Items = append(last.Items, orderrepo.OrderItemDTO{
				ID:          itemID.Int64,
				OrderID:     o.ID,
				Description: description.String,
				Quantity:    int(quantity.Int64),
				UnitPrice:   unitPrice.Decimal,
				CreatedAt:   itemCreated.Time,
				UpdatedAt:   itemUpdated.Time,
			})
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return dtos, nil
}

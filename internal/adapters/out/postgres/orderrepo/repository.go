package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order row, then one row per item.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) (int64, error) {
	if err := aggregate.Validate(); err != nil {
		return 0, err
	}

	db := r.db.WithContext(ctx)

	dto := fromDomain(aggregate)
	dto.ID = 0
	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return 0, translate(err)
	}

	for _, item := range aggregate.Items() {
		itemDTO := itemFromDomain(dto.ID, item)
		if err := db.Create(&itemDTO).Error; err != nil {
			return 0, translate(err)
		}
	}

	return dto.ID, nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	return r.load(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the order row with SELECT ... FOR UPDATE. It must run
// inside a transaction for the lock to outlive the statement.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	return r.load(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) FindDeliveredIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("status = ?", order.Delivered.String()).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status.String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id)
	}
	return nil
}

func (r *GormOrderRepository) DeleteItemsByOrder(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&OrderItemDTO{}).Error
}

func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id)
	}
	return nil
}

// load reads the order row first so that a locking clause applies to it alone,
// then reads the items.
func (r *GormOrderRepository) load(db *gorm.DB, id int64) (*order.Order, error) {
	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	if err := r.db.WithContext(db.Statement.Context).
		Where("order_id = ?", id).
		Order("id").
		Find(&dto.Items).Error; err != nil {
		return nil, fmt.Errorf("load items of order %d: %w", id, err)
	}

	return ToDomain(dto)
}

// translate turns constraint violations raised by the schema into validation
// errors. The pgx error type comes from the GORM driver, the pq one from
// connections opened through database/sql with lib/pq.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNullViolation {
			return errs.NewValueIsInvalidErrorWithCause(constraintName(pgErr.ConstraintName, pgErr.ColumnName), err)
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) == pgCheckViolation || string(pqErr.Code) == pgNotNullViolation {
			return errs.NewValueIsInvalidErrorWithCause(constraintName(pqErr.Constraint, pqErr.Column), err)
		}
	}

	return err
}

func constraintName(constraint, column string) string {
	if constraint != "" {
		return constraint
	}
	return column
}

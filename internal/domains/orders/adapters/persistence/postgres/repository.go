package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/order-tracker/internal/domains/orders/domain"
	"github.com/Apurer/order-tracker/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists tracked orders in PostgreSQL using GORM. The schema is
// owned by the migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	Position    int       `gorm:"column:position;index"`
	TrackerLink string    `gorm:"column:tracker_link"`
	TimeOrdered string    `gorm:"column:time_ordered"`
	Status      int16     `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;index"`
}

func (orderRecord) TableName() string { return "tracked_orders" }

// Reset replaces every stored order with the given list, keeping its order.
func (r *Repository) Reset(ctx context.Context, orders []*domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	records := make([]orderRecord, 0, len(orders))
	for i, order := range orders {
		if order == nil {
			return errors.New("order is nil")
		}
		if err := order.Validate(); err != nil {
			return err
		}
		records = append(records, toRecord(order, i))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&orderRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

// Save updates the mutable columns of an existing order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", order.ID).
		Updates(mutableColumns(order))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, order.ID)
}

// Update locks the row with SELECT ... FOR UPDATE for the whole
// read-mutate-write cycle, so concurrent API and worker sweeps serialize.
func (r *Repository) Update(ctx context.Context, id int64, mutate ports.MutateFunc) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var updated *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		order := record.toDomain()
		changed, err := mutate(order)
		if err != nil {
			return err
		}
		if changed {
			if err := order.Validate(); err != nil {
				return err
			}
			if err := tx.Model(&orderRecord{}).Where("id = ?", id).Updates(mutableColumns(order)).Error; err != nil {
				return err
			}
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all orders in insertion order.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func mutableColumns(order *domain.Order) map[string]any {
	return map[string]any{
		"tracker_link": order.TrackerLink,
		"time_ordered": order.TimeOrdered,
		"status":       int16(order.Status),
		"updated_at":   gorm.Expr("NOW()"),
	}
}

func toRecord(order *domain.Order, position int) orderRecord {
	return orderRecord{
		ID:          order.ID,
		Position:    position,
		TrackerLink: order.TrackerLink,
		TimeOrdered: order.TimeOrdered,
		Status:      int16(order.Status),
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:          r.ID,
		TrackerLink: r.TrackerLink,
		TimeOrdered: r.TimeOrdered,
		Status:      domain.Status(r.Status),
	}
}

package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the orders bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&trackedOrderRecord{})
}

// Tracked order schema mirrors the orders Postgres adapter.
type trackedOrderRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	Position    int       `gorm:"column:position;index"`
	TrackerLink string    `gorm:"column:tracker_link"`
	TimeOrdered string    `gorm:"column:time_ordered"`
	Status      int16     `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;index"`
}

func (trackedOrderRecord) TableName() string { return "tracked_orders" }

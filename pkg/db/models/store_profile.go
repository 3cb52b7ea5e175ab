package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/saveplate/saveplate-backend/pkg/enums"
)

// StoreProfile carries the delivery mode and closing time stamped onto orders
// at commit time. Missing profiles degrade to defaults, they never block a
// checkout.
type StoreProfile struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	OrderType   enums.OrderType `gorm:"column:order_type;type:text;not null;default:'pickup'"`
	ClosingTime string          `gorm:"column:closing_time;not null;default:'20:00'"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

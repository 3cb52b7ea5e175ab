package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saveplate/saveplate-backend/pkg/enums"
)

// Order is the durable record of a committed, single-store purchase. Items are
// denormalized snapshots; later edits to the source food items never alter a
// past order.
type Order struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID     uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index"`
	StoreID     uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	StoreName   string          `gorm:"column:store_name"`
	DisplayName string          `gorm:"column:display_name;not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	OrderType   enums.OrderType   `gorm:"column:order_type;type:text;not null;default:'pickup'"`
	ClosingTime string          `gorm:"column:closing_time;not null"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

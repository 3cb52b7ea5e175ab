package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// FoodItem is a seller listing with live stock. Quantity is only ever written
// inside a transaction; legacy rows may carry no store id and fall back to the
// owning user for grouping.
type FoodItem struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       *uuid.UUID       `gorm:"column:store_id;type:uuid;index"`
	OwnerID       uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index"`
	Name          string           `gorm:"column:name;not null"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	Quantity      int              `gorm:"column:quantity;not null;default:0;check:quantity >= 0"`
	ExpiryDate    *time.Time       `gorm:"column:expiry_date"`
	ImageURL      string           `gorm:"column:image_url"`
	Tags          pq.StringArray   `gorm:"column:tags;type:text[]"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// GroupKey returns the store the item belongs to, falling back to the owner
// for legacy rows without a store id.
func (f FoodItem) GroupKey() uuid.UUID {
	if f.StoreID != nil && *f.StoreID != uuid.Nil {
		return *f.StoreID
	}
	return f.OwnerID
}

// SoldOut reports whether the item has no stock left. Zero stock is also
// reachable through cancellations, so this is a proxy, not a sales signal.
func (f FoodItem) SoldOut() bool {
	return f.Quantity == 0
}

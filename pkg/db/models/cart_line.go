package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a buyer's pending intent to purchase a food item. Store and
// price fields are snapshots taken when the line was added; checkout
// re-validates against live data.
type CartLine struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID   uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index;uniqueIndex:idx_cart_lines_buyer_food"`
	FoodID    uuid.UUID       `gorm:"column:food_id;type:uuid;not null;uniqueIndex:idx_cart_lines_buyer_food"`
	StoreID   *uuid.UUID      `gorm:"column:store_id;type:uuid"`
	SellerID  uuid.UUID       `gorm:"column:seller_id;type:uuid;not null"`
	StoreName string          `gorm:"column:store_name"`
	FoodName  string          `gorm:"column:food_name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null;default:1;check:quantity >= 1"`
	ImageURL  string          `gorm:"column:image_url"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotal returns the snapshot price multiplied by the desired quantity.
func (c CartLine) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// GroupKey keys the line to its selling store, with the seller's user id as a
// fallback for legacy lines that never captured a store id.
func (c CartLine) GroupKey() uuid.UUID {
	if c.StoreID != nil && *c.StoreID != uuid.Nil {
		return *c.StoreID
	}
	return c.SellerID
}

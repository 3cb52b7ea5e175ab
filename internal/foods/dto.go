package foods

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
)

// FoodItemDTO is the API-facing shape of a listing.
type FoodItemDTO struct {
	ID            uuid.UUID        `json:"id"`
	StoreID       *uuid.UUID       `json:"store_id,omitempty"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Quantity      int              `json:"quantity"`
	SoldOut       bool             `json:"sold_out"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// FromModel maps a persisted listing to its DTO.
func FromModel(item *models.FoodItem) *FoodItemDTO {
	if item == nil {
		return nil
	}
	return &FoodItemDTO{
		ID:            item.ID,
		StoreID:       item.StoreID,
		Name:          item.Name,
		Price:         item.Price,
		OriginalPrice: item.OriginalPrice,
		Quantity:      item.Quantity,
		SoldOut:       item.SoldOut(),
		ExpiryDate:    item.ExpiryDate,
		ImageURL:      item.ImageURL,
		Tags:          item.Tags,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

// CreateFoodInput captures the fields a seller provides for a new listing.
type CreateFoodInput struct {
	Name          string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Quantity      int
	ExpiryDate    *time.Time
	ImageURL      string
	Tags          []string
}

// UpdateFoodInput captures the mutable listing fields. Quantity is absent on
// purpose; stock only moves through AdjustQuantity.
type UpdateFoodInput struct {
	Name          *string
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	ExpiryDate    *time.Time
	ImageURL      *string
	Tags          *[]string
}

// ListPage is one page of the public browse feed.
type ListPage struct {
	Items      []FoodItemDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
)

// CartLineDTO is the API-facing shape of a cart line.
type CartLineDTO struct {
	ID        uuid.UUID       `json:"id"`
	FoodID    uuid.UUID       `json:"food_id"`
	StoreID   *uuid.UUID      `json:"store_id,omitempty"`
	StoreName string          `json:"store_name,omitempty"`
	FoodName  string          `json:"food_name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	ImageURL  string          `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// FromModel maps a persisted line to its DTO.
func FromModel(line *models.CartLine) *CartLineDTO {
	if line == nil {
		return nil
	}
	return &CartLineDTO{
		ID:        line.ID,
		FoodID:    line.FoodID,
		StoreID:   line.StoreID,
		StoreName: line.StoreName,
		FoodName:  line.FoodName,
		Price:     line.Price,
		Quantity:  line.Quantity,
		LineTotal: line.LineTotal(),
		ImageURL:  line.ImageURL,
		CreatedAt: line.CreatedAt,
	}
}

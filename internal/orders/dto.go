package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
	"github.com/saveplate/saveplate-backend/pkg/enums"
)

// OrderItemDTO is one snapshot line inside an order.
type OrderItemDTO struct {
	FoodID   uuid.UUID       `json:"food_id"`
	FoodName string          `json:"food_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

// OrderDTO is the API-facing shape of an order.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	StoreID     uuid.UUID         `json:"store_id"`
	StoreName   string            `json:"store_name,omitempty"`
	DisplayName string            `json:"display_name"`
	TotalPrice  decimal.Decimal   `json:"total_price"`
	Quantity    int               `json:"quantity"`
	Status      enums.OrderStatus `json:"status"`
	OrderType   enums.OrderType   `json:"order_type"`
	ClosingTime string            `json:"closing_time"`
	Items       []OrderItemDTO    `json:"items,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// FromModel maps a persisted order to its DTO.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:          order.ID,
		StoreID:     order.StoreID,
		StoreName:   order.StoreName,
		DisplayName: order.DisplayName,
		TotalPrice:  order.TotalPrice,
		Quantity:    order.Quantity,
		Status:      order.Status,
		OrderType:   order.OrderType,
		ClosingTime: order.ClosingTime,
		CreatedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			FoodID:   item.FoodID,
			FoodName: item.FoodName,
			Quantity: item.Quantity,
			Price:    item.Price,
			ImageURL: item.ImageURL,
		})
	}
	return dto
}

// ListPage is one page of a buyer's or store's order history.
type ListPage struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

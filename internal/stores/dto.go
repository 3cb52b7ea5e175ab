package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
	"github.com/saveplate/saveplate-backend/pkg/enums"
)

// StoreProfileDTO is the API-facing shape of a store profile.
type StoreProfileDTO struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Name        string          `json:"name"`
	OrderType   enums.OrderType `json:"order_type"`
	ClosingTime string          `json:"closing_time"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromModel maps a persisted profile to its DTO.
func FromModel(profile *models.StoreProfile) *StoreProfileDTO {
	if profile == nil {
		return nil
	}
	return &StoreProfileDTO{
		ID:          profile.ID,
		OwnerID:     profile.OwnerID,
		Name:        profile.Name,
		OrderType:   profile.OrderType,
		ClosingTime: profile.ClosingTime,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}

// UpsertProfileInput captures the mutable profile fields.
type UpsertProfileInput struct {
	Name        *string
	OrderType   *enums.OrderType
	ClosingTime *string
}

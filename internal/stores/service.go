package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
	"github.com/saveplate/saveplate-backend/pkg/enums"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.StoreProfile, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.StoreProfile, error)
	Create(ctx context.Context, profile *models.StoreProfile) error
	Update(ctx context.Context, profile *models.StoreProfile) error
}

// Service exposes store profile operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*StoreProfileDTO, error)
	Upsert(ctx context.Context, ownerID, storeID uuid.UUID, input UpsertProfileInput) (*StoreProfileDTO, error)
}

type service struct {
	repo profileRepository
}

// NewService builds a store profile service.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store profile repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store profile")
	}
	return FromModel(profile), nil
}

func (s *service) Upsert(ctx context.Context, ownerID, storeID uuid.UUID, input UpsertProfileInput) (*StoreProfileDTO, error) {
	if input.OrderType != nil && !input.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if input.ClosingTime != nil && strings.TrimSpace(*input.ClosingTime) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "closing time cannot be blank")
	}

	profile, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store profile")
		}
		profile = &models.StoreProfile{
			ID:          storeID,
			OwnerID:     ownerID,
			OrderType:   enums.OrderTypePickup,
			ClosingTime: DefaultClosingTime,
		}
		applyProfileInput(profile, input)
		if err := s.repo.Create(ctx, profile); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store profile")
		}
		return FromModel(profile), nil
	}

	if profile.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store profile belongs to another seller")
	}

	applyProfileInput(profile, input)
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store profile")
	}
	return FromModel(profile), nil
}

func applyProfileInput(profile *models.StoreProfile, input UpsertProfileInput) {
	if input.Name != nil {
		profile.Name = strings.TrimSpace(*input.Name)
	}
	if input.OrderType != nil {
		profile.OrderType = *input.OrderType
	}
	if input.ClosingTime != nil {
		profile.ClosingTime = strings.TrimSpace(*input.ClosingTime)
	}
}

package foods

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
	"github.com/saveplate/saveplate-backend/pkg/pagination"
)

type foodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.FoodItem, string, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FoodItem, error)
	Create(ctx context.Context, item *models.FoodItem) error
	Update(ctx context.Context, item *models.FoodItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx *gorm.DB) *Repository
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes listing operations.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*FoodItemDTO, error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]FoodItemDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, storeID *uuid.UUID, input CreateFoodInput) (*FoodItemDTO, error)
	Update(ctx context.Context, ownerID, foodID uuid.UUID, input UpdateFoodInput) (*FoodItemDTO, error)
	Delete(ctx context.Context, ownerID, foodID uuid.UUID) error
	AdjustQuantity(ctx context.Context, ownerID, foodID uuid.UUID, delta int) (*FoodItemDTO, error)
}

type service struct {
	repo foodRepository
	tx   txRunner
}

// NewService builds a listing service over the repository and the shared
// transaction primitive.
func NewService(repo foodRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("food repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListPage, error) {
	items, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list food items")
	}
	page := &ListPage{
		Items:      make([]FoodItemDTO, 0, len(items)),
		NextCursor: next,
	}
	for i := range items {
		page.Items = append(page.Items, *FromModel(&items[i]))
	}
	return page, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*FoodItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}
	return FromModel(item), nil
}

func (s *service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]FoodItemDTO, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller food items")
	}
	dtos := make([]FoodItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, storeID *uuid.UUID, input CreateFoodInput) (*FoodItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	item := &models.FoodItem{
		ID:            uuid.New(),
		StoreID:       storeID,
		OwnerID:       ownerID,
		Name:          name,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Quantity:      input.Quantity,
		ExpiryDate:    input.ExpiryDate,
		ImageURL:      input.ImageURL,
		Tags:          input.Tags,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create food item")
	}
	return FromModel(item), nil
}

func (s *service) Update(ctx context.Context, ownerID, foodID uuid.UUID, input UpdateFoodInput) (*FoodItemDTO, error) {
	item, err := s.loadOwned(ctx, ownerID, foodID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		item.Name = name
	}
	if input.Price != nil {
		if input.Price.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		item.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		item.OriginalPrice = input.OriginalPrice
	}
	if input.ExpiryDate != nil {
		item.ExpiryDate = input.ExpiryDate
	}
	if input.ImageURL != nil {
		item.ImageURL = *input.ImageURL
	}
	if input.Tags != nil {
		item.Tags = *input.Tags
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update food item")
	}
	return FromModel(item), nil
}

func (s *service) Delete(ctx context.Context, ownerID, foodID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, ownerID, foodID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, foodID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete food item")
	}
	return nil
}

// AdjustQuantity moves stock by delta inside a transaction. Seller restocks
// and manual corrections use the same decrement guard as checkout, so a
// correction racing a purchase can never drive quantity negative.
func (s *service) AdjustQuantity(ctx context.Context, ownerID, foodID uuid.UUID, delta int) (*FoodItemDTO, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}

	var updated *models.FoodItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item, err := txRepo.FindByID(ctx, foodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "food item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
		}
		if item.OwnerID != ownerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "food item belongs to another seller")
		}

		if delta > 0 {
			if err := txRepo.Restock(ctx, foodID, delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock food item")
			}
		} else {
			ok, err := txRepo.DecrementStock(ctx, foodID, -delta)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement food item")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "quantity cannot drop below zero").
					WithDetails(map[string]any{"food_id": foodID, "quantity": item.Quantity})
			}
		}

		updated, err = txRepo.FindByID(ctx, foodID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload food item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) loadOwned(ctx context.Context, ownerID, foodID uuid.UUID) (*models.FoodItem, error) {
	item, err := s.repo.FindByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}
	if item.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "food item belongs to another seller")
	}
	return item, nil
}

package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/internal/stores"
	"github.com/saveplate/saveplate-backend/pkg/db/models"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
)

type lineRepository interface {
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.CartLine, error)
	FindByID(ctx context.Context, buyerID, lineID uuid.UUID) (*models.CartLine, error)
	FindByFood(ctx context.Context, buyerID, foodID uuid.UUID) (*models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	Delete(ctx context.Context, buyerID, lineID uuid.UUID) error
}

type foodReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
}

type profileResolver interface {
	Resolve(ctx context.Context, storeID uuid.UUID) stores.Snapshot
}

// Service exposes cart operations.
type Service interface {
	List(ctx context.Context, buyerID uuid.UUID) ([]CartLineDTO, error)
	AddItem(ctx context.Context, buyerID, foodID uuid.UUID, quantity int) (*CartLineDTO, error)
	UpdateQuantity(ctx context.Context, buyerID, lineID uuid.UUID, quantity int) (*CartLineDTO, error)
	Remove(ctx context.Context, buyerID, lineID uuid.UUID) error
}

type service struct {
	repo     lineRepository
	foods    foodReader
	resolver profileResolver
}

// NewService builds a cart service.
func NewService(repo lineRepository, foods foodReader, resolver profileResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if foods == nil {
		return nil, fmt.Errorf("food reader required")
	}
	return &service{repo: repo, foods: foods, resolver: resolver}, nil
}

func (s *service) List(ctx context.Context, buyerID uuid.UUID) ([]CartLineDTO, error) {
	lines, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	dtos := make([]CartLineDTO, 0, len(lines))
	for i := range lines {
		dtos = append(dtos, *FromModel(&lines[i]))
	}
	return dtos, nil
}

// AddItem snapshots the food item into a new line, or bumps the existing
// line's quantity when the buyer already has the item carted. The stock check
// here is advisory; checkout re-validates inside the transaction.
func (s *service) AddItem(ctx context.Context, buyerID, foodID uuid.UUID, quantity int) (*CartLineDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	food, err := s.foods.FindByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeItemRemoved, "food item is no longer available").
				WithDetails(map[string]any{"food_id": foodID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}

	existing, err := s.repo.FindByFood(ctx, buyerID, foodID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	desired := quantity
	if existing != nil {
		desired = existing.Quantity + quantity
	}
	if err := s.guardStock(food, desired); err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.repo.UpdateQuantity(ctx, existing.ID, desired); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		existing.Quantity = desired
		return FromModel(existing), nil
	}

	storeName := ""
	if s.resolver != nil && food.StoreID != nil {
		storeName = s.resolver.Resolve(ctx, *food.StoreID).Name
	}

	line := &models.CartLine{
		ID:        uuid.New(),
		BuyerID:   buyerID,
		FoodID:    food.ID,
		StoreID:   food.StoreID,
		SellerID:  food.OwnerID,
		StoreName: storeName,
		FoodName:  food.Name,
		Price:     food.Price,
		Quantity:  quantity,
		ImageURL:  food.ImageURL,
	}
	if err := s.repo.Create(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	return FromModel(line), nil
}

// UpdateQuantity changes the desired purchase count. Increases re-check live
// stock for early feedback; the authoritative check stays in checkout.
func (s *service) UpdateQuantity(ctx context.Context, buyerID, lineID uuid.UUID, quantity int) (*CartLineDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1, remove the line instead")
	}

	line, err := s.repo.FindByID(ctx, buyerID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if quantity > line.Quantity {
		food, err := s.foods.FindByID(ctx, line.FoodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeItemRemoved, "food item is no longer available").
					WithDetails(map[string]any{"food_name": line.FoodName})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
		}
		if err := s.guardStock(food, quantity); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateQuantity(ctx, line.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	line.Quantity = quantity
	return FromModel(line), nil
}

func (s *service) Remove(ctx context.Context, buyerID, lineID uuid.UUID) error {
	if err := s.repo.Delete(ctx, buyerID, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return nil
}

func (s *service) guardStock(food *models.FoodItem, desired int) error {
	if desired > food.Quantity {
		return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("only %d of %q left", food.Quantity, food.Name)).
			WithDetails(map[string]any{
				"food_id":   food.ID,
				"food_name": food.Name,
				"available": food.Quantity,
				"requested": desired,
			})
	}
	return nil
}

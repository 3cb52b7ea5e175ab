package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/internal/foods"
	"github.com/saveplate/saveplate-backend/pkg/db/models"
	"github.com/saveplate/saveplate-backend/pkg/enums"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
	"github.com/saveplate/saveplate-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order read and lifecycle operations. Totals are never
// recomputed after creation; cancellation only moves status and stock.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, orderID uuid.UUID) (*OrderDTO, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*ListPage, error)
	ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*ListPage, error)
	Complete(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo  *Repository
	foods *foods.Repository
	tx    txRunner
}

// NewService builds an order service.
func NewService(repo *Repository, foodsRepo *foods.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if foodsRepo == nil {
		return nil, fmt.Errorf("food repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, foods: foodsRepo, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(order, userID, storeID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another account")
	}
	return FromModel(order), nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*ListPage, error) {
	orders, next, err := s.repo.ListByBuyer(ctx, buyerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return toPage(orders, next), nil
}

func (s *service) ListForStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*ListPage, error) {
	orders, next, err := s.repo.ListByStore(ctx, storeID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store orders")
	}
	return toPage(orders, next), nil
}

// Complete marks a pending order picked up. Only the selling store may do
// this.
func (s *service) Complete(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another store")
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("order is already %s", order.Status))
	}

	ok, err := s.repo.UpdateStatus(ctx, orderID, enums.OrderStatusPending, enums.OrderStatusCompleted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete order")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
	}
	order.Status = enums.OrderStatusCompleted
	return FromModel(order), nil
}

// Cancel moves a pending order to cancelled and returns its stock in the same
// transaction. Either the buyer or the selling store may cancel.
func (s *service) Cancel(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(order, userID, storeID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another account")
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("order is already %s", order.Status))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return CancelAndRestock(ctx, tx, s.repo, s.foods, order)
	})
	if err != nil {
		return nil, err
	}
	order.Status = enums.OrderStatusCancelled
	return FromModel(order), nil
}

// CancelAndRestock flips the order to cancelled and returns every item's
// quantity to stock, all inside the caller's transaction. Shared with the
// pickup expiry job.
func CancelAndRestock(ctx context.Context, tx *gorm.DB, repo *Repository, foodsRepo *foods.Repository, order *models.Order) error {
	txRepo := repo.WithTx(tx)
	ok, err := txRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
	}

	txFoods := foodsRepo.WithTx(tx)
	for _, item := range order.Items {
		if err := txFoods.Restock(ctx, item.FoodID, item.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock cancelled order item")
		}
	}
	return nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func canView(order *models.Order, userID uuid.UUID, storeID *uuid.UUID) bool {
	if order.BuyerID == userID {
		return true
	}
	return storeID != nil && order.StoreID == *storeID
}

func toPage(orders []models.Order, next string) *ListPage {
	page := &ListPage{
		Orders:     make([]OrderDTO, 0, len(orders)),
		NextCursor: next,
	}
	for i := range orders {
		page.Orders = append(page.Orders, *FromModel(&orders[i]))
	}
	return page
}

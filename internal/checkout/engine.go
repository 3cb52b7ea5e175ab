package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/internal/cart"
	"github.com/saveplate/saveplate-backend/internal/foods"
	"github.com/saveplate/saveplate-backend/internal/orders"
	"github.com/saveplate/saveplate-backend/internal/stores"
	"github.com/saveplate/saveplate-backend/pkg/db/models"
	"github.com/saveplate/saveplate-backend/pkg/enums"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
	"github.com/saveplate/saveplate-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type profileResolver interface {
	Resolve(ctx context.Context, storeID uuid.UUID) stores.Snapshot
}

// GroupResult is the outcome for one store group: an order id on success, a
// typed failure otherwise. Failures carry pkgerrors codes so callers can tell
// a stock problem from an aborted transaction.
type GroupResult struct {
	StoreID   uuid.UUID        `json:"store_id"`
	StoreName string           `json:"store_name,omitempty"`
	OrderID   *uuid.UUID       `json:"order_id,omitempty"`
	Failure   *pkgerrors.Error `json:"-"`
}

// Succeeded reports whether this group committed an order.
func (g GroupResult) Succeeded() bool {
	return g.Failure == nil
}

// Result aggregates per-group outcomes of one checkout invocation. A mixed
// result is not an error: committed groups stay committed.
type Result struct {
	Groups []GroupResult `json:"groups"`
}

// AllSucceeded reports whether every store group committed.
func (r *Result) AllSucceeded() bool {
	for _, g := range r.Groups {
		if !g.Succeeded() {
			return false
		}
	}
	return true
}

// Engine converts a buyer's cart into one order per store while enforcing
// inventory correctness. Store groups run sequentially; there is deliberately
// no outer transaction spanning groups, so a failure in one store never rolls
// back orders already placed with others.
type Engine struct {
	tx       txRunner
	foods    *foods.Repository
	orders   *orders.Repository
	cart     *cart.Repository
	resolver profileResolver
	log      *logger.Logger
}

// NewEngine builds a checkout engine.
func NewEngine(tx txRunner, foodsRepo *foods.Repository, ordersRepo *orders.Repository, cartRepo *cart.Repository, resolver profileResolver, log *logger.Logger) (*Engine, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if foodsRepo == nil || ordersRepo == nil || cartRepo == nil {
		return nil, fmt.Errorf("food, order and cart repositories required")
	}
	return &Engine{
		tx:       tx,
		foods:    foodsRepo,
		orders:   ordersRepo,
		cart:     cartRepo,
		resolver: resolver,
		log:      log,
	}, nil
}

// Checkout runs the verify-and-commit cycle for every store group in the
// buyer's lines and returns the per-group outcomes. The returned error is
// reserved for inputs that never reached a transaction.
func (e *Engine) Checkout(ctx context.Context, buyerID uuid.UUID, lines []models.CartLine) (*Result, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}

	result := &Result{}
	for _, group := range SplitByStore(lines) {
		result.Groups = append(result.Groups, e.checkoutGroup(ctx, buyerID, group))
	}
	return result, nil
}

func (e *Engine) checkoutGroup(ctx context.Context, buyerID uuid.UUID, group Group) GroupResult {
	// The profile read is informational, not safety-critical, so it stays
	// outside the transaction and degrades to defaults on failure.
	snap := stores.DefaultSnapshot()
	if e.resolver != nil {
		snap = e.resolver.Resolve(ctx, group.Key)
	}
	storeName := snap.Name
	if storeName == "" && len(group.Lines) > 0 {
		storeName = group.Lines[0].StoreName
	}

	res := GroupResult{StoreID: group.Key, StoreName: storeName}

	var orderID uuid.UUID
	err := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		id, err := e.commitGroup(ctx, tx, buyerID, group, storeName, snap)
		if err != nil {
			return err
		}
		orderID = id
		return nil
	})
	if err != nil {
		res.Failure = asGroupFailure(err)
		if e.log != nil {
			lctx := e.log.WithStoreID(e.log.WithBuyerID(ctx, buyerID.String()), group.Key.String())
			if pkgerrors.IsUserCorrectable(err) {
				e.log.Warn(lctx, "checkout group rejected: "+res.Failure.Message())
			} else {
				e.log.Error(lctx, "checkout group aborted", err)
			}
		}
		return res
	}

	res.OrderID = &orderID
	e.cleanupLines(ctx, buyerID, group)
	return res
}

// commitGroup validates stock and writes the order inside one transaction.
// Validation failures surface as typed errors before any decrement happens,
// so a rejected group leaves every quantity untouched.
func (e *Engine) commitGroup(ctx context.Context, tx *gorm.DB, buyerID uuid.UUID, group Group, storeName string, snap stores.Snapshot) (uuid.UUID, error) {
	txFoods := e.foods.WithTx(tx)

	ids := make([]uuid.UUID, 0, len(group.Lines))
	for _, line := range group.Lines {
		ids = append(ids, line.FoodID)
	}
	items, err := txFoods.FindByIDs(ctx, ids)
	if err != nil {
		return uuid.Nil, err
	}
	byID := make(map[uuid.UUID]*models.FoodItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	for _, line := range group.Lines {
		item, ok := byID[line.FoodID]
		if !ok {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeItemRemoved, fmt.Sprintf("%q is no longer available", line.FoodName)).
				WithDetails(map[string]any{"food_id": line.FoodID, "food_name": line.FoodName})
		}
		if line.Quantity > item.Quantity {
			return uuid.Nil, insufficientStock(item.Name, item.ID, item.Quantity, line.Quantity)
		}
	}

	order := &models.Order{
		ID:          uuid.New(),
		BuyerID:     buyerID,
		StoreID:     group.Key,
		StoreName:   storeName,
		Status:      enums.OrderStatusPending,
		OrderType:   snap.OrderType,
		ClosingTime: snap.ClosingTime,
	}
	for _, line := range group.Lines {
		// The decrement guard re-checks stock at write time, so two buyers
		// racing for the last unit serialize here and the loser fails without
		// having touched anything (the transaction rolls back).
		ok, err := txFoods.DecrementStock(ctx, line.FoodID, line.Quantity)
		if err != nil {
			return uuid.Nil, err
		}
		if !ok {
			item := byID[line.FoodID]
			return uuid.Nil, insufficientStock(item.Name, item.ID, item.Quantity, line.Quantity)
		}

		order.Items = append(order.Items, models.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			FoodID:   line.FoodID,
			FoodName: line.FoodName,
			Quantity: line.Quantity,
			Price:    line.Price,
			ImageURL: line.ImageURL,
		})
		order.Quantity += line.Quantity
		order.TotalPrice = order.TotalPrice.Add(line.LineTotal())
	}
	order.DisplayName = DisplayName(order.Items)

	if err := e.orders.WithTx(tx).Create(ctx, order); err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}

// cleanupLines deletes the committed group's cart lines. This runs outside
// the transaction on purpose: a line that survives a crash here only causes
// a harmless re-validation on the next attempt, so failures are logged and
// swallowed.
func (e *Engine) cleanupLines(ctx context.Context, buyerID uuid.UUID, group Group) {
	ids := make([]uuid.UUID, 0, len(group.Lines))
	for _, line := range group.Lines {
		ids = append(ids, line.ID)
	}
	if err := e.cart.DeleteLines(ctx, buyerID, ids); err != nil && e.log != nil {
		lctx := e.log.WithBuyerID(ctx, buyerID.String())
		e.log.Warn(lctx, "cart cleanup failed after committed order: "+err.Error())
	}
}

func insufficientStock(name string, id uuid.UUID, available, requested int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("only %d of %q left", available, name)).
		WithDetails(map[string]any{
			"food_id":   id,
			"food_name": name,
			"available": available,
			"requested": requested,
		})
}

// asGroupFailure keeps user-correctable failures as-is and wraps everything
// else as an aborted transaction. Infrastructure errors must never read as
// stock problems.
func asGroupFailure(err error) *pkgerrors.Error {
	if pkgerrors.IsUserCorrectable(err) {
		return pkgerrors.As(err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout transaction aborted, please retry")
}

package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/internal/foods"
	"github.com/saveplate/saveplate-backend/internal/stores"
	"github.com/saveplate/saveplate-backend/pkg/db/models"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
)

type stubResolver struct {
	snap stores.Snapshot
}

func (s stubResolver) Resolve(context.Context, uuid.UUID) stores.Snapshot {
	return s.snap
}

func newCartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupCartTestDB(t)
	svc, err := NewService(
		NewRepository(db),
		foods.NewRepository(db),
		stubResolver{snap: stores.Snapshot{Name: "Ban Suan Bakery"}},
	)
	require.NoError(t, err)
	return svc, db
}

func seedFood(t *testing.T, db *gorm.DB, name string, qty int, price int64) *models.FoodItem {
	t.Helper()

	storeID := uuid.New()
	item := &models.FoodItem{
		ID:        uuid.New(),
		StoreID:   &storeID,
		OwnerID:   uuid.New(),
		Name:      name,
		Price:     decimal.NewFromInt(price),
		Quantity:  qty,
		ImageURL:  "https://img.example/" + name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestAddItemSnapshotsFoodFields(t *testing.T) {
	svc, db := newCartService(t)
	buyer := uuid.New()
	food := seedFood(t, db, "Mango Sticky Rice", 5, 60)

	dto, err := svc.AddItem(context.Background(), buyer, food.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, food.ID, dto.FoodID)
	assert.Equal(t, "Mango Sticky Rice", dto.FoodName)
	assert.Equal(t, "Ban Suan Bakery", dto.StoreName)
	assert.Equal(t, 2, dto.Quantity)
	assert.True(t, decimal.NewFromInt(120).Equal(dto.LineTotal))
}

func TestAddItemAccumulatesExistingLine(t *testing.T) {
	svc, db := newCartService(t)
	buyer := uuid.New()
	food := seedFood(t, db, "Bento", 5, 80)

	_, err := svc.AddItem(context.Background(), buyer, food.ID, 2)
	require.NoError(t, err)

	dto, err := svc.AddItem(context.Background(), buyer, food.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, dto.Quantity)

	lines, err := svc.List(context.Background(), buyer)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddItemRejectsMissingFood(t *testing.T) {
	svc, _ := newCartService(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeItemRemoved, appErr.Code())
}

func TestAddItemGuardsAgainstStock(t *testing.T) {
	svc, db := newCartService(t)
	buyer := uuid.New()
	food := seedFood(t, db, "Bento", 2, 80)

	_, err := svc.AddItem(context.Background(), buyer, food.ID, 3)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeOutOfStock, appErr.Code())
}

func TestUpdateQuantityGuardsIncreasesOnly(t *testing.T) {
	svc, db := newCartService(t)
	buyer := uuid.New()
	food := seedFood(t, db, "Bento", 3, 80)

	dto, err := svc.AddItem(context.Background(), buyer, food.ID, 3)
	require.NoError(t, err)

	// Stock drains to zero after the line was added.
	require.NoError(t, db.Model(&models.FoodItem{}).Where("id = ?", food.ID).Update("quantity", 0).Error)

	// Decreasing never consults stock.
	down, err := svc.UpdateQuantity(context.Background(), buyer, dto.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, down.Quantity)

	_, err = svc.UpdateQuantity(context.Background(), buyer, dto.ID, 2)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeOutOfStock, appErr.Code())
}

func TestUpdateQuantityFloorIsOne(t *testing.T) {
	svc, db := newCartService(t)
	buyer := uuid.New()
	food := seedFood(t, db, "Bento", 3, 80)

	dto, err := svc.AddItem(context.Background(), buyer, food.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(context.Background(), buyer, dto.ID, 0)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, db := newCartService(t)
	buyer := uuid.New()
	food := seedFood(t, db, "Bento", 3, 80)

	dto, err := svc.AddItem(context.Background(), buyer, food.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), buyer, dto.ID))
	require.NoError(t, svc.Remove(context.Background(), buyer, dto.ID))
}

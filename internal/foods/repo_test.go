package foods

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
	"github.com/saveplate/saveplate-backend/pkg/pagination"
)

func setupFoodsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:foods_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS food_items (
  id TEXT PRIMARY KEY,
  store_id TEXT,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  expiry_date DATETIME,
  image_url TEXT,
  tags TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

// gormTxRunner adapts a raw test DB to the transaction primitive services
// expect.
type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func newFoodItem(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, qty int, created time.Time) *models.FoodItem {
	t.Helper()

	item := &models.FoodItem{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Price:     decimal.NewFromInt(50),
		Quantity:  qty,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryListPaginatesNewestFirst(t *testing.T) {
	db := setupFoodsTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New()

	now := time.Now().UTC()
	newFoodItem(t, db, owner, "Khao Pad", 3, now.Add(-2*time.Hour))
	newFoodItem(t, db, owner, "Pad Thai", 5, now.Add(-time.Hour))
	newFoodItem(t, db, owner, "Green Curry", 2, now)

	first, next, err := repo.List(context.Background(), pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Green Curry", first[0].Name)
	assert.Equal(t, "Pad Thai", first[1].Name)
	require.NotEmpty(t, next)

	second, last, err := repo.List(context.Background(), pagination.Params{Limit: 2, Cursor: next}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Khao Pad", second[0].Name)
	assert.Empty(t, last)
}

func TestRepositoryListHidesSoldOutByDefault(t *testing.T) {
	db := setupFoodsTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New()

	now := time.Now().UTC()
	newFoodItem(t, db, owner, "Available", 4, now)
	newFoodItem(t, db, owner, "Gone", 0, now.Add(-time.Minute))

	visible, _, err := repo.List(context.Background(), pagination.Params{}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Available", visible[0].Name)

	all, _, err := repo.List(context.Background(), pagination.Params{}, ListFilters{IncludeSoldOut: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDecrementStockGuardsAgainstOversell(t *testing.T) {
	db := setupFoodsTestDB(t)
	repo := NewRepository(db)
	item := newFoodItem(t, db, uuid.New(), "Bento", 2, time.Now().UTC())

	ok, err := repo.DecrementStock(context.Background(), item.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(context.Background(), item.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok, "zero stock must reject further decrements")

	reloaded, err := repo.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Quantity)
}

func TestDecrementStockRejectsNonPositiveQty(t *testing.T) {
	db := setupFoodsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.DecrementStock(context.Background(), uuid.New(), 0)
	require.Error(t, err)
}

func TestRestockAddsQuantityBack(t *testing.T) {
	db := setupFoodsTestDB(t)
	repo := NewRepository(db)
	item := newFoodItem(t, db, uuid.New(), "Bento", 1, time.Now().UTC())

	require.NoError(t, repo.Restock(context.Background(), item.ID, 3))

	reloaded, err := repo.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Quantity)
}

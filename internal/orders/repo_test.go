package orders

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
	"github.com/saveplate/saveplate-backend/pkg/enums"
	"github.com/saveplate/saveplate-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	foodItems := `
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
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  store_name TEXT,
  display_name TEXT NOT NULL,
  total_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  order_type TEXT NOT NULL DEFAULT 'pickup',
  closing_time TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  food_id TEXT NOT NULL,
  food_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  image_url TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(foodItems).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func newOrder(t *testing.T, db *gorm.DB, buyerID, storeID uuid.UUID, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:          uuid.New(),
		BuyerID:     buyerID,
		StoreID:     storeID,
		StoreName:   "Test Store",
		DisplayName: "Pad Thai",
		TotalPrice:  decimal.NewFromInt(50),
		Quantity:    1,
		Status:      status,
		OrderType:   enums.OrderTypePickup,
		ClosingTime: "20:00",
		Items: []models.OrderItem{
			{
				ID:       uuid.New(),
				FoodID:   uuid.New(),
				FoodName: "Pad Thai",
				Quantity: 1,
				Price:    decimal.NewFromInt(50),
			},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryListByBuyerPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	buyer := uuid.New()

	now := time.Now().UTC()
	older := newOrder(t, db, buyer, uuid.New(), enums.OrderStatusPending, now.Add(-time.Hour))
	newer := newOrder(t, db, buyer, uuid.New(), enums.OrderStatusPending, now)
	newOrder(t, db, uuid.New(), uuid.New(), enums.OrderStatusPending, now)

	first, next, err := repo.ListByBuyer(context.Background(), buyer, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, newer.ID, first[0].ID)
	require.NotEmpty(t, next)
	require.Len(t, first[0].Items, 1)

	second, last, err := repo.ListByBuyer(context.Background(), buyer, pagination.Params{Limit: 1, Cursor: next})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, older.ID, second[0].ID)
	assert.Empty(t, last)
}

func TestRepositoryUpdateStatusChecksCurrent(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	order := newOrder(t, db, uuid.New(), uuid.New(), enums.OrderStatusPending, time.Now().UTC())

	ok, err := repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusCompleted)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok, "terminal orders must not transition again")
}

func TestRepositoryListStalePending(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	stale := newOrder(t, db, uuid.New(), uuid.New(), enums.OrderStatusPending, now.Add(-48*time.Hour))
	newOrder(t, db, uuid.New(), uuid.New(), enums.OrderStatusPending, now)
	newOrder(t, db, uuid.New(), uuid.New(), enums.OrderStatusCompleted, now.Add(-48*time.Hour))

	got, err := repo.ListStalePending(context.Background(), now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID)
	require.Len(t, got[0].Items, 1)
}

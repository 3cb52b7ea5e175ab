package foods

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
	"github.com/saveplate/saveplate-backend/pkg/pagination"
)

// Repository handles food item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to food item operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads a listing by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads the given listings ordered by id. The deterministic order
// keeps concurrent checkouts touching rows in the same sequence.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.FoodItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.FoodItem
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListFilters narrows the public browse feed.
type ListFilters struct {
	StoreID        *uuid.UUID
	IncludeSoldOut bool
	Tag            string
}

// List returns one page of listings, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.FoodItem, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).Model(&models.FoodItem{})
	if filters.StoreID != nil {
		q = q.Where("store_id = ?", *filters.StoreID)
	}
	if !filters.IncludeSoldOut {
		q = q.Where("quantity > 0")
	}
	if filters.Tag != "" {
		q = q.Where("? = ANY(tags)", filters.Tag)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var items []models.FoodItem
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&items).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return items, next, nil
}

// ListByOwner returns every listing the seller owns, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FoodItem, error) {
	var items []models.FoodItem
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create persists a new listing.
func (r *Repository) Create(ctx context.Context, item *models.FoodItem) error {
	if item == nil {
		return fmt.Errorf("food item is required")
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// Update saves the provided listing.
func (r *Repository) Update(ctx context.Context, item *models.FoodItem) error {
	if item == nil {
		return fmt.Errorf("food item is required")
	}
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes the listing. Deleting an absent row is not an error.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FoodItem{}, "id = ?", id).Error
}

// DecrementStock atomically subtracts qty from the listing when enough stock
// remains. The guard in the WHERE clause is what makes overselling impossible:
// a concurrent decrement that would push quantity negative matches zero rows.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}
	res := r.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Restock atomically adds qty back to the listing.
func (r *Repository) Restock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", qty)
	}
	return r.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).
		Error
}

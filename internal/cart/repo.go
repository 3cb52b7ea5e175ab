package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
)

// Repository handles cart line persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to cart operations.
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

// ListByBuyer returns the buyer's lines in the order they were added.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at, id").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByID loads one of the buyer's lines.
func (r *Repository) FindByID(ctx context.Context, buyerID, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND id = ?", buyerID, lineID).
		First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// FindByFood loads the buyer's line for the given food item, if any.
func (r *Repository) FindByFood(ctx context.Context, buyerID, foodID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND food_id = ?", buyerID, foodID).
		First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// Create persists a new line.
func (r *Repository) Create(ctx context.Context, line *models.CartLine) error {
	if line == nil {
		return fmt.Errorf("cart line is required")
	}
	return r.db.WithContext(ctx).Create(line).Error
}

// UpdateQuantity sets the line's quantity.
func (r *Repository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

// Delete removes one of the buyer's lines. Deleting an absent line is a
// no-op so that cleanup retries stay safe.
func (r *Repository) Delete(ctx context.Context, buyerID, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("buyer_id = ? AND id = ?", buyerID, lineID).
		Delete(&models.CartLine{}).Error
}

// DeleteLines removes the named subset of the buyer's lines. Missing ids are
// skipped silently for the same reason Delete is idempotent.
func (r *Repository) DeleteLines(ctx context.Context, buyerID uuid.UUID, lineIDs []uuid.UUID) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("buyer_id = ? AND id IN ?", buyerID, lineIDs).
		Delete(&models.CartLine{}).Error
}

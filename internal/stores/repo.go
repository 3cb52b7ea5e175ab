package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
)

// Repository handles store profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store profile operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a profile by its store UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StoreProfile, error) {
	var profile models.StoreProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByOwner returns the profile owned by the provided user, if any.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.StoreProfile, error) {
	var profile models.StoreProfile
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create persists a new profile row.
func (r *Repository) Create(ctx context.Context, profile *models.StoreProfile) error {
	if profile == nil {
		return fmt.Errorf("profile is required")
	}
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update saves the provided profile.
func (r *Repository) Update(ctx context.Context, profile *models.StoreProfile) error {
	if profile == nil {
		return fmt.Errorf("profile is required")
	}
	return r.db.WithContext(ctx).Save(profile).Error
}

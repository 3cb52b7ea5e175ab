package stores

import (
	"context"

	"github.com/google/uuid"

	"github.com/saveplate/saveplate-backend/pkg/enums"
	"github.com/saveplate/saveplate-backend/pkg/logger"
)

// Defaults stamped onto orders when a store never configured a profile or the
// profile read fails mid-checkout.
const (
	DefaultClosingTime = "20:00"
)

// Snapshot is the profile data an order needs at commit time. Name may be
// empty when the profile is missing; callers fall back to whatever name they
// captured earlier.
type Snapshot struct {
	Name        string
	OrderType   enums.OrderType
	ClosingTime string
}

// DefaultSnapshot returns the fallback profile values.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		OrderType:   enums.OrderTypePickup,
		ClosingTime: DefaultClosingTime,
	}
}

// Resolver fetches profile snapshots for checkout. A profile that cannot be
// read degrades to defaults; it never aborts the purchase.
type Resolver struct {
	repo profileRepository
	log  *logger.Logger
}

// NewResolver builds a Resolver over the profile repository.
func NewResolver(repo profileRepository, log *logger.Logger) *Resolver {
	return &Resolver{repo: repo, log: log}
}

// Resolve returns the profile snapshot for the store, or defaults when the
// profile is missing or the read fails. Failures are logged at warn.
func (r *Resolver) Resolve(ctx context.Context, storeID uuid.UUID) Snapshot {
	if r == nil || r.repo == nil {
		return DefaultSnapshot()
	}

	profile, err := r.repo.FindByID(ctx, storeID)
	if err != nil {
		if r.log != nil {
			ctx = r.log.WithStoreID(ctx, storeID.String())
			r.log.Warn(ctx, "store profile unavailable, using defaults")
		}
		return DefaultSnapshot()
	}

	snap := Snapshot{
		Name:        profile.Name,
		OrderType:   profile.OrderType,
		ClosingTime: profile.ClosingTime,
	}
	if !snap.OrderType.IsValid() {
		snap.OrderType = enums.OrderTypePickup
	}
	if snap.ClosingTime == "" {
		snap.ClosingTime = DefaultClosingTime
	}
	return snap
}

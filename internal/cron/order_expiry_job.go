package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/saveplate/saveplate-backend/internal/foods"
	"github.com/saveplate/saveplate-backend/internal/orders"
	"github.com/saveplate/saveplate-backend/pkg/logger"
)

const defaultExpiryBatch = 200

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderExpiryJobParams configure the pickup expiry job.
type OrderExpiryJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Orders      *orders.Repository
	Foods       *foods.Repository
	ExpiryAfter time.Duration
	BatchSize   int
}

// NewOrderExpiryJob builds the job that cancels pending orders nobody picked
// up and returns their stock to the listings.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Foods == nil {
		return nil, fmt.Errorf("food repository required")
	}
	if params.ExpiryAfter <= 0 {
		return nil, fmt.Errorf("expiry window must be positive")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultExpiryBatch
	}
	return &orderExpiryJob{
		logg:        params.Logger,
		db:          params.DB,
		orders:      params.Orders,
		foods:       params.Foods,
		expiryAfter: params.ExpiryAfter,
		batch:       batch,
		now:         time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg        *logger.Logger
	db          txRunner
	orders      *orders.Repository
	foods       *foods.Repository
	expiryAfter time.Duration
	batch       int
	now         func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

// Run cancels every stale pending order in its own transaction so one bad
// order cannot block the rest of the batch. Errors are collected, not fatal.
func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.expiryAfter)
	stale, err := j.orders.ListStalePending(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	var errs []error
	cancelled := 0
	for i := range stale {
		order := stale[i]
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			return orders.CancelAndRestock(ctx, tx, j.orders, j.foods, &order)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", order.ID, err))
			continue
		}
		cancelled++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned":   len(stale),
		"cancelled": cancelled,
	})
	j.logg.Info(logCtx, "order expiry loop complete")
	return multierr.Combine(errs...)
}

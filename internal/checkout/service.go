package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saveplate/saveplate-backend/pkg/db/models"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
)

type lineLister interface {
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.CartLine, error)
}

// Service loads the buyer's cart and runs it through the engine.
type Service interface {
	Checkout(ctx context.Context, buyerID uuid.UUID) (*Result, error)
}

type service struct {
	engine *Engine
	lines  lineLister
}

// NewService builds the checkout service.
func NewService(engine *Engine, lines lineLister) (Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("checkout engine required")
	}
	if lines == nil {
		return nil, fmt.Errorf("cart line lister required")
	}
	return &service{engine: engine, lines: lines}, nil
}

func (s *service) Checkout(ctx context.Context, buyerID uuid.UUID) (*Result, error) {
	lines, err := s.lines.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return s.engine.Checkout(ctx, buyerID, lines)
}

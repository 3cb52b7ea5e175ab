package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/saveplate/saveplate-backend/api/responses"
	checkoutsvc "github.com/saveplate/saveplate-backend/internal/checkout"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
	"github.com/saveplate/saveplate-backend/pkg/logger"
)

type checkoutGroupResponse struct {
	StoreID   uuid.UUID           `json:"store_id"`
	StoreName string              `json:"store_name,omitempty"`
	OrderID   *uuid.UUID          `json:"order_id,omitempty"`
	Error     *checkoutGroupError `json:"error,omitempty"`
}

type checkoutGroupError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type checkoutResponse struct {
	Groups []checkoutGroupResponse `json:"groups"`
}

func newCheckoutResponse(result *checkoutsvc.Result) checkoutResponse {
	resp := checkoutResponse{Groups: make([]checkoutGroupResponse, 0, len(result.Groups))}
	for _, group := range result.Groups {
		entry := checkoutGroupResponse{
			StoreID:   group.StoreID,
			StoreName: group.StoreName,
			OrderID:   group.OrderID,
		}
		if group.Failure != nil {
			entry.Error = &checkoutGroupError{
				Code:    string(group.Failure.Code()),
				Message: group.Failure.Message(),
			}
			if pkgerrors.MetadataFor(group.Failure.Code()).DetailsAllowed {
				entry.Error.Details = group.Failure.Details()
			}
		}
		resp.Groups = append(resp.Groups, entry)
	}
	return resp
}

// Checkout converts the buyer's cart into orders, one per store. Groups
// succeed or fail independently; a mixed outcome still returns 200 with the
// per-group breakdown.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		buyerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutResponse(result))
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/saveplate/saveplate-backend/api/responses"
	"github.com/saveplate/saveplate-backend/api/validators"
	storesvc "github.com/saveplate/saveplate-backend/internal/stores"
	"github.com/saveplate/saveplate-backend/pkg/enums"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
	"github.com/saveplate/saveplate-backend/pkg/logger"
)

// StoreProfileDetail exposes a store's public profile.
func StoreProfileDetail(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		storeID, err := pathUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetByID(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// StoreProfileMe returns the authenticated seller's own profile.
func StoreProfileMe(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetByID(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

type upsertStoreProfileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	OrderType   *string `json:"order_type,omitempty"`
	ClosingTime *string `json:"closing_time,omitempty"`
}

func (p upsertStoreProfileRequest) toInput() (storesvc.UpsertProfileInput, error) {
	input := storesvc.UpsertProfileInput{
		ClosingTime: p.ClosingTime,
	}
	if p.Name != nil {
		name := validators.SanitizeString(*p.Name, 255)
		input.Name = &name
	}
	if p.OrderType != nil {
		orderType := enums.OrderType(strings.ToLower(strings.TrimSpace(*p.OrderType)))
		if !orderType.IsValid() {
			return storesvc.UpsertProfileInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
		}
		input.OrderType = &orderType
	}
	return input, nil
}

// StoreProfileUpsert creates or edits the seller's profile.
func StoreProfileUpsert(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		ownerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertStoreProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Upsert(r.Context(), ownerID, storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

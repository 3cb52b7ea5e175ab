package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saveplate/saveplate-backend/api/responses"
	"github.com/saveplate/saveplate-backend/api/validators"
	foodsvc "github.com/saveplate/saveplate-backend/internal/foods"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
	"github.com/saveplate/saveplate-backend/pkg/logger"
	"github.com/saveplate/saveplate-backend/pkg/pagination"
)

// FoodList serves the public browse feed.
func FoodList(svc foodsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := foodsvc.ListFilters{
			Tag: validators.SanitizeString(r.URL.Query().Get("tag"), 64),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("store_id")); raw != "" {
			storeID, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid store id"))
				return
			}
			filters.StoreID = &storeID
		}
		if strings.EqualFold(r.URL.Query().Get("include_sold_out"), "true") {
			filters.IncludeSoldOut = true
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		page, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// FoodDetail serves a single public listing.
func FoodDetail(svc foodsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		foodID, err := pathUUID(r, "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetByID(r.Context(), foodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// SellerFoodList returns every listing owned by the authenticated seller.
func SellerFoodList(svc foodsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		ownerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListMine(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

type createFoodRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Quantity      int              `json:"quantity" validate:"min=0"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	ImageURL      string           `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags          []string         `json:"tags,omitempty" validate:"omitempty,dive,required"`
}

func (p createFoodRequest) toInput() (foodsvc.CreateFoodInput, error) {
	if p.Price.IsNegative() {
		return foodsvc.CreateFoodInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return foodsvc.CreateFoodInput{}, pkgerrors.New(pkgerrors.CodeValidation, "original price must not be negative")
	}
	return foodsvc.CreateFoodInput{
		Name:          validators.SanitizeString(p.Name, 255),
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Quantity:      p.Quantity,
		ExpiryDate:    p.ExpiryDate,
		ImageURL:      validators.SanitizeString(p.ImageURL, 2048),
		Tags:          p.Tags,
	}, nil
}

// SellerFoodCreate publishes a new listing under the seller's store.
func SellerFoodCreate(svc foodsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		ownerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := optionalStoreIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createFoodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), ownerID, storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateFoodRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags          *[]string        `json:"tags,omitempty"`
}

func (p updateFoodRequest) toInput() (foodsvc.UpdateFoodInput, error) {
	if p.Price != nil && p.Price.IsNegative() {
		return foodsvc.UpdateFoodInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return foodsvc.UpdateFoodInput{}, pkgerrors.New(pkgerrors.CodeValidation, "original price must not be negative")
	}
	return foodsvc.UpdateFoodInput{
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		ExpiryDate:    p.ExpiryDate,
		ImageURL:      p.ImageURL,
		Tags:          p.Tags,
	}, nil
}

// SellerFoodUpdate edits the mutable fields of a listing. Stock is not one of
// them; it only moves through the stock endpoint.
func SellerFoodUpdate(svc foodsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		ownerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		foodID, err := pathUUID(r, "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateFoodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), ownerID, foodID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// SellerFoodDelete removes a listing.
func SellerFoodDelete(svc foodsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		ownerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		foodID, err := pathUUID(r, "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), ownerID, foodID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// SellerFoodAdjustStock moves stock by a signed delta. Decrements share the
// same non-negative guard the checkout path uses.
func SellerFoodAdjustStock(svc foodsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		ownerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		foodID, err := pathUUID(r, "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AdjustQuantity(r.Context(), ownerID, foodID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

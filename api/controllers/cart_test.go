package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/saveplate/saveplate-backend/api/middleware"
	cartsvc "github.com/saveplate/saveplate-backend/internal/cart"
	pkgerrors "github.com/saveplate/saveplate-backend/pkg/errors"
)

type stubCart struct {
	addFn    func(ctx context.Context, buyerID, foodID uuid.UUID, quantity int) (*cartsvc.CartLineDTO, error)
	updateFn func(ctx context.Context, buyerID, lineID uuid.UUID, quantity int) (*cartsvc.CartLineDTO, error)
}

func (s stubCart) List(context.Context, uuid.UUID) ([]cartsvc.CartLineDTO, error) {
	return []cartsvc.CartLineDTO{}, nil
}

func (s stubCart) AddItem(ctx context.Context, buyerID, foodID uuid.UUID, quantity int) (*cartsvc.CartLineDTO, error) {
	return s.addFn(ctx, buyerID, foodID, quantity)
}

func (s stubCart) UpdateQuantity(ctx context.Context, buyerID, lineID uuid.UUID, quantity int) (*cartsvc.CartLineDTO, error) {
	return s.updateFn(ctx, buyerID, lineID, quantity)
}

func (s stubCart) Remove(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func authedRequest(method, path, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartAddRejectsMalformedBody(t *testing.T) {
	svc := stubCart{addFn: func(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartLineDTO, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}

	req := authedRequest(http.MethodPost, "/api/v1/cart", `{"food_id":"not-a-uuid"}`)
	resp := httptest.NewRecorder()
	CartAdd(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartAddRejectsZeroQuantity(t *testing.T) {
	svc := stubCart{addFn: func(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartLineDTO, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}

	req := authedRequest(http.MethodPost, "/api/v1/cart", `{"food_id":"`+uuid.NewString()+`","quantity":0}`)
	resp := httptest.NewRecorder()
	CartAdd(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartAddSurfacesStockGuard(t *testing.T) {
	svc := stubCart{addFn: func(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartLineDTO, error) {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, `not enough stock for "Sushi Set"`).
			WithDetails(map[string]any{"available": 2, "requested": 5})
	}}

	req := authedRequest(http.MethodPost, "/api/v1/cart", `{"food_id":"`+uuid.NewString()+`","quantity":5}`)
	resp := httptest.NewRecorder()
	CartAdd(svc, nil)(resp, req)

	require.Equal(t, http.StatusConflict, resp.Code)

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, string(pkgerrors.CodeOutOfStock), body.Error.Code)
	require.Contains(t, body.Error.Message, "Sushi Set")
	require.EqualValues(t, 2, body.Error.Details["available"])
}

func TestCartAddCreatesLine(t *testing.T) {
	foodID := uuid.New()
	svc := stubCart{addFn: func(_ context.Context, _ uuid.UUID, gotFood uuid.UUID, quantity int) (*cartsvc.CartLineDTO, error) {
		require.Equal(t, foodID, gotFood)
		require.Equal(t, 2, quantity)
		return &cartsvc.CartLineDTO{ID: uuid.New(), FoodID: gotFood, Quantity: quantity}, nil
	}}

	req := authedRequest(http.MethodPost, "/api/v1/cart", `{"food_id":"`+foodID.String()+`","quantity":2}`)
	resp := httptest.NewRecorder()
	CartAdd(svc, nil)(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
}

func TestCartUpdateRejectsQuantityBelowOne(t *testing.T) {
	svc := stubCart{updateFn: func(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartLineDTO, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}

	req := withURLParam(authedRequest(http.MethodPatch, "/api/v1/cart/"+uuid.NewString(), `{"quantity":0}`), "lineId", uuid.NewString())
	resp := httptest.NewRecorder()
	CartUpdateQuantity(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

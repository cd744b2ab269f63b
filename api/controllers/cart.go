package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/middleware"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/responses"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/validators"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/cart"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/menu"
	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
)

// CartProvider resolves the cart bound to a session.
type CartProvider interface {
	Get(ctx context.Context, sessionID string) (*cart.Store, error)
}

type cartLineResponse struct {
	cart.LineItem
	LineTotal int `json:"lineTotal"`
}

type cartResponse struct {
	Items     []cartLineResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  int                `json:"subtotal"`
}

func newCartResponse(store *cart.Store) cartResponse {
	items := store.Items()
	lines := make([]cartLineResponse, len(items))
	for i, item := range items {
		lines[i] = cartLineResponse{LineItem: item, LineTotal: cart.Price(item)}
	}
	return cartResponse{
		Items:     lines,
		ItemCount: store.Count(),
		Subtotal:  store.Subtotal(),
	}
}

type addItemRequest struct {
	ItemID       string             `json:"itemId" validate:"required"`
	Name         string             `json:"name"`
	StoreID      string             `json:"storeId"`
	BasePrice    int                `json:"basePrice" validate:"min=0"`
	Quantity     int                `json:"quantity" validate:"min=1,max=99"`
	OptionGroups []menu.OptionGroup `json:"optionGroups" validate:"dive"`
}

func (r addItemRequest) toLineItem() cart.LineItem {
	return cart.LineItem{
		ItemID:       r.ItemID,
		Name:         r.Name,
		StoreID:      r.StoreID,
		BasePrice:    r.BasePrice,
		Quantity:     r.Quantity,
		OptionGroups: r.OptionGroups,
	}
}

type replaceCartRequest struct {
	Items []addItemRequest `json:"items" validate:"dive"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type mutationResponse struct {
	Applied bool         `json:"applied"`
	Cart    cartResponse `json:"cart"`
}

// CartFetch returns the session's cart.
func CartFetch(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := sessionCart(w, r, carts, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartReplace swaps the whole cart for the provided items without merging.
func CartReplace(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload replaceCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, ok := sessionCart(w, r, carts, logg)
		if !ok {
			return
		}

		items := make([]cart.LineItem, len(payload.Items))
		for i, item := range payload.Items {
			items[i] = item.toLineItem()
		}
		if err := store.Initialize(r.Context(), items); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

func CartClear(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := sessionCart(w, r, carts, logg)
		if !ok {
			return
		}
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartAddItem adds a line item, merging it into an existing entry with the same options.
func CartAddItem(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, ok := sessionCart(w, r, carts, logg)
		if !ok {
			return
		}

		line, err := store.Add(r.Context(), payload.toLineItem())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"item": cartLineResponse{LineItem: line, LineTotal: cart.Price(line)},
			"cart": newCartResponse(store),
		})
	}
}

// CartUpdateQuantity shifts an entry's quantity by delta. Results outside 1..max leave the cart
// as it was and report applied=false.
func CartUpdateQuantity(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fingerprint, err := validators.ParseInt32("fingerprint", chi.URLParam(r, "fingerprint"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, ok := sessionCart(w, r, carts, logg)
		if !ok {
			return
		}

		applied, err := store.UpdateQuantity(r.Context(), chi.URLParam(r, "itemId"), fingerprint, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mutationResponse{Applied: applied, Cart: newCartResponse(store)})
	}
}

func CartRemoveItem(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fingerprint, err := validators.ParseInt32("fingerprint", chi.URLParam(r, "fingerprint"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, ok := sessionCart(w, r, carts, logg)
		if !ok {
			return
		}

		removed, err := store.Remove(r.Context(), chi.URLParam(r, "itemId"), fingerprint)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mutationResponse{Applied: removed, Cart: newCartResponse(store)})
	}
}

func sessionCart(w http.ResponseWriter, r *http.Request, carts CartProvider, logg *logger.Logger) (*cart.Store, bool) {
	if carts == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable"))
		return nil, false
	}
	store, err := carts.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return store, true
}

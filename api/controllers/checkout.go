package controllers

import (
	"net/http"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/middleware"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/responses"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/validators"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/checkout"
	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
)

type completeRequest struct {
	StoreID string `json:"storeId" validate:"required"`
}

// Quote prices the session's cart for ?storeId= with the selected coupons applied.
func Quote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		storeID, err := validators.RequiredQuery(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), middleware.SessionIDFromContext(r.Context()), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutComplete finalizes the order and resets the session's cart and coupon selection.
func CheckoutComplete(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		var payload completeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithStoreID(ctx, payload.StoreID)
		}
		quote, err := svc.Complete(ctx, middleware.SessionIDFromContext(ctx), payload.StoreID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

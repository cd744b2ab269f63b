package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/middleware"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/responses"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/validators"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/checkout"
	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
)

// CouponsList returns the coupons usable at ?storeId= annotated for the session's cart.
func CouponsList(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
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

		views, err := svc.Coupons(r.Context(), middleware.SessionIDFromContext(r.Context()), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// CouponToggle selects or deselects a coupon. A rejected selection answers 422 with the reason.
func CouponToggle(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		couponID := chi.URLParam(r, "couponId")
		if couponID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "couponId is required"))
			return
		}

		result, err := svc.ToggleCoupon(r.Context(), middleware.SessionIDFromContext(r.Context()), couponID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if result.Reason.Rejected() {
			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithCouponID(ctx, couponID)
			}
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon cannot be applied").
				WithDetails(map[string]any{
					"couponId":          result.CouponID,
					"reason":            result.Reason,
					"selectedCouponIds": result.SelectedCouponIDs,
				}))
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CouponsClear(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		if err := svc.ClearCoupons(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"selectedCouponIds": []string{}})
	}
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/controllers"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/middleware"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/checkout"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/config"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	carts controllers.CartProvider,
	checkoutService checkout.Service,
	idempotencyStore middleware.IdempotencyStore,
	readiness map[string]controllers.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Logging(logg, httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(carts, logg))
			r.Put("/", controllers.CartReplace(carts, logg))
			r.Delete("/", controllers.CartClear(carts, logg))
			r.Post("/items", controllers.CartAddItem(carts, logg))
			r.Patch("/items/{itemId}/{fingerprint}", controllers.CartUpdateQuantity(carts, logg))
			r.Delete("/items/{itemId}/{fingerprint}", controllers.CartRemoveItem(carts, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.CouponsList(checkoutService, logg))
			r.Post("/{couponId}/toggle", controllers.CouponToggle(checkoutService, logg))
			r.Delete("/selection", controllers.CouponsClear(checkoutService, logg))
		})

		r.Get("/quote", controllers.Quote(checkoutService, logg))
		r.With(middleware.Idempotency(idempotencyStore, logg)).
			Post("/checkout/complete", controllers.CheckoutComplete(checkoutService, logg))
	})

	return r
}

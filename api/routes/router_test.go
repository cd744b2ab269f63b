package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/controllers"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/middleware"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/cart"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/checkout"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/coupon"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/stores"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/config"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/metrics"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/storage"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *cart.Registry) {
	t.Helper()
	cfg := &config.Config{
		App:  config.AppConfig{Env: "dev"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	validator := coupon.NewValidator(time.Now)
	carts := cart.NewRegistry(storage.NewMemory(), cart.Options{}, cart.RegistryOptions{})
	svc, err := checkout.NewService(checkout.Deps{
		Carts:      carts,
		Catalog:    coupon.NewCatalog(coupon.StaticSource{}, nil, nil),
		Selections: coupon.NewSelections(validator, coupon.SelectionsOptions{}),
		Stores:     stores.StaticSource{DefaultDeliveryFee: 3000},
		Calculator: coupon.NewCalculator(100),
		Validator:  validator,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	reg := prometheus.NewRegistry()
	router := NewRouter(
		cfg,
		logger.Nop(),
		carts,
		svc,
		nil,
		map[string]controllers.Pinger{"storage": stubPinger{}},
		metrics.NewHTTPMetrics(reg),
		reg,
	)
	return router, carts
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCartRoutesKeepSessionsApart(t *testing.T) {
	router, carts := newTestRouter(t)

	add := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"itemId":"cola","basePrice":2000,"quantity":1}`))
	add.Header.Set(middleware.SessionHeader, "alice")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, add)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get(middleware.SessionHeader) != "alice" {
		t.Fatalf("expected session header echoed")
	}

	fetch := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, fetch)
	issued := resp.Header().Get(middleware.SessionHeader)
	if issued == "" || issued == "alice" {
		t.Fatalf("expected a fresh session id, got %q", issued)
	}

	alice, err := carts.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if alice.Count() != 1 {
		t.Fatalf("expected alice's cart to hold 1 item, got %d", alice.Count())
	}
	other, err := carts.Get(context.Background(), issued)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if other.Count() != 0 {
		t.Fatalf("new session must start empty")
	}
}

func TestQuoteRouteUsesDefaultDeliveryFee(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote?storeId=s9", nil)
	req.Header.Set(middleware.SessionHeader, "bob")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"deliveryFee":3000`) {
		t.Fatalf("unexpected quote %s", resp.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "itseats_http_requests_total") {
		t.Fatalf("expected http metrics exposed")
	}
}

func TestCORSPreflightAllowsSessionHeader(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", middleware.SessionHeader)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

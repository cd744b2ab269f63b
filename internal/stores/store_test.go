package stores

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
)

func TestStaticSource(t *testing.T) {
	src := StaticSource{
		Stores:             map[string]Store{"s1": {Name: "Pizza Place", DeliveryFee: 3000}, "neg": {DeliveryFee: -1}},
		DefaultDeliveryFee: 2500,
	}

	st, err := src.GetStore(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ID != "s1" || st.DeliveryFee != 3000 {
		t.Fatalf("unexpected store %+v", st)
	}

	st, _ = src.GetStore(context.Background(), "unknown")
	if st.DeliveryFee != 2500 {
		t.Fatalf("expected default fee, got %d", st.DeliveryFee)
	}

	st, _ = src.GetStore(context.Background(), "neg")
	if st.DeliveryFee != 0 {
		t.Fatalf("expected negative fee to floor at 0, got %d", st.DeliveryFee)
	}
}

func TestHTTPSourceDecodesEnvelopeAndBareObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/stores/1":
			_, _ = w.Write([]byte(`{"data":{"storeId":1,"name":"Chicken","deliveryFee":3000}}`))
		case "/api/stores/2":
			_, _ = w.Write([]byte(`{"storeId":"2","deliveryFee":"1500.7"}`))
		case "/api/stores/3":
			_, _ = w.Write([]byte(`{"storeId":"3"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)
	cases := map[string]int{"1": 3000, "2": 1500, "3": 0}
	for id, fee := range cases {
		st, err := src.GetStore(context.Background(), id)
		if err != nil {
			t.Fatalf("store %s: unexpected error %v", id, err)
		}
		if st.DeliveryFee != fee {
			t.Fatalf("store %s: fee %d, want %d", id, st.DeliveryFee, fee)
		}
	}

	_, err := src.GetStore(context.Background(), "404")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = src.GetStore(context.Background(), " ")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHTTPSourceDependencyFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).GetStore(context.Background(), "1")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

package coupon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls   atomic.Int32
	records []Record
	err     error
	delay   time.Duration
}

func (c *countingSource) ListCoupons(context.Context) ([]Record, error) {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.records, c.err
}

func sampleRecords() []Record {
	yes := true
	return []Record{
		{CouponID: "global", CouponType: "FIXED_AMOUNT", CanUsed: &yes},
		{CouponID: "s1-only", StoreID: "s1", CouponType: "DELIVERY", CanUsed: &yes},
		{CouponID: "s2-only", StoreID: "s2", CouponType: "PERCENTAGE", CanUsed: &yes},
		{CouponType: "FIXED_AMOUNT"},
	}
}

func TestCatalogRefreshAndScope(t *testing.T) {
	catalog := NewCatalog(StaticSource{Records: sampleRecords()}, nil, nil)
	require.True(t, catalog.RefreshedAt().IsZero())
	require.NoError(t, catalog.EnsureLoaded(context.Background()))

	assert.Len(t, catalog.All(), 3)
	ids := func(cs []Coupon) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.ID
		}
		return out
	}
	assert.Equal(t, []string{"global", "s1-only"}, ids(catalog.ForStore("s1")))
	assert.Equal(t, []string{"global"}, ids(catalog.ForStore("s3")))

	c, ok := catalog.Lookup("s2-only")
	require.True(t, ok)
	assert.Equal(t, "s2", c.StoreID)
	_, ok = catalog.Lookup("missing")
	assert.False(t, ok)
	assert.False(t, catalog.RefreshedAt().IsZero())
}

func TestCatalogCoalescesConcurrentRefreshes(t *testing.T) {
	src := &countingSource{records: sampleRecords(), delay: 50 * time.Millisecond}
	catalog := NewCatalog(src, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = catalog.Refresh(context.Background())
		}()
	}
	wg.Wait()

	assert.Less(t, src.calls.Load(), int32(8))
	assert.Len(t, catalog.All(), 3)
}

func TestCatalogKeepsPreviousListOnFailure(t *testing.T) {
	src := &countingSource{records: sampleRecords()}
	catalog := NewCatalog(src, nil, nil)
	require.NoError(t, catalog.Refresh(context.Background()))

	src.err = errors.New("backend down")
	err := catalog.Refresh(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Len(t, catalog.All(), 3)
}

func TestHTTPSourceListsCoupons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/coupons", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"couponId":1,"couponType":"FIXED","discountValue":"1500"}]}`))
	}))
	defer srv.Close()

	records, err := NewHTTPSource(srv.URL+"/", time.Second).ListCoupons(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, FlexString("1"), records[0].CouponID)
	assert.Equal(t, "1500", records[0].DiscountValue.String())
}

func TestHTTPSourceRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).ListCoupons(context.Background())
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coupons.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"couponId":"a","couponType":"FIXED"}]`), 0o644))

	records, err := FileSource{Path: path}.ListCoupons(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.ListCoupons(context.Background())
	assert.Error(t, err)
}

type gatedSource struct {
	started chan struct{}
	release chan struct{}
}

func (g gatedSource) ListCoupons(ctx context.Context) ([]Record, error) {
	close(g.started)
	<-g.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sampleRecords(), nil
}

func TestCatalogRefreshSurvivesCallerCancellation(t *testing.T) {
	src := gatedSource{started: make(chan struct{}), release: make(chan struct{})}
	catalog := NewCatalog(src, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- catalog.Refresh(ctx) }()

	<-src.started
	cancel()
	close(src.release)

	require.NoError(t, <-done)
	assert.Len(t, catalog.All(), 3)
}

package coupon

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, raw string) Record {
	t.Helper()
	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestNormalizeMapsBackendFields(t *testing.T) {
	r := decodeRecord(t, `{
		"couponId": 42,
		"storeId": "7",
		"name": "Welcome",
		"discountValue": 10,
		"minPrice": 15000,
		"couponType": "percentage",
		"validDate": "2025-12-31T23:59:59Z",
		"isStackable": true,
		"canUsed": true,
		"maxDiscount": 5000
	}`)

	c, ok := Normalize(r)
	require.True(t, ok)
	assert.Equal(t, "42", c.ID)
	assert.Equal(t, "7", c.StoreID)
	assert.Equal(t, enums.CouponKindPercentage, c.Kind)
	assert.Equal(t, enums.DiscountModePercent, c.Value.Mode)
	assert.True(t, c.Value.Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 15000, c.MinOrderAmount)
	require.NotNil(t, c.MaxDiscount)
	assert.Equal(t, 5000, *c.MaxDiscount)
	assert.True(t, c.Stackable)
	assert.True(t, c.Usable)
	assert.False(t, c.Used)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), c.ValidUntil)
}

func TestNormalizeMissingFieldsDefault(t *testing.T) {
	c, ok := Normalize(decodeRecord(t, `{"couponId":"x","couponType":"FIXED_AMOUNT"}`))
	require.True(t, ok)
	assert.False(t, c.Usable, "absent canUsed means unusable")
	assert.False(t, c.Stackable)
	assert.Zero(t, c.MinOrderAmount)
	assert.Nil(t, c.MaxDiscount)
	assert.True(t, c.ValidUntil.IsZero())
	assert.True(t, c.Global())
}

func TestNormalizeRejectsUnusableRecords(t *testing.T) {
	_, ok := Normalize(decodeRecord(t, `{"couponType":"FIXED_AMOUNT"}`))
	assert.False(t, ok)
	_, ok = Normalize(decodeRecord(t, `{"couponId":"x","couponType":"MYSTERY"}`))
	assert.False(t, ok)

	coupons, dropped := NormalizeAll([]Record{
		decodeRecord(t, `{"couponId":"a","couponType":"FIXED"}`),
		decodeRecord(t, `{"couponId":"b"}`),
	})
	assert.Len(t, coupons, 1)
	assert.Equal(t, 1, dropped)
}

func TestNormalizeDeliveryValue(t *testing.T) {
	yes, no := true, false
	cases := []struct {
		name         string
		value        string
		isPercentage *bool
		wantMode     enums.DiscountMode
		wantValue    string
	}{
		{name: "100 waives", value: "100", wantMode: enums.DiscountModeFullWaiver, wantValue: "0"},
		{name: "large value waives", value: "2000", wantMode: enums.DiscountModeFullWaiver, wantValue: "0"},
		{name: "small amount", value: "50", wantMode: enums.DiscountModeAmount, wantValue: "50"},
		{name: "fraction is a percent", value: "0.5", wantMode: enums.DiscountModePercent, wantValue: "50"},
		{name: "explicit amount", value: "2000", isPercentage: &no, wantMode: enums.DiscountModeAmount, wantValue: "2000"},
		{name: "explicit percent", value: "30", isPercentage: &yes, wantMode: enums.DiscountModePercent, wantValue: "30"},
		{name: "explicit fraction", value: "0.3", isPercentage: &yes, wantMode: enums.DiscountModePercent, wantValue: "30"},
		{name: "explicit full percent", value: "100", isPercentage: &yes, wantMode: enums.DiscountModeFullWaiver, wantValue: "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := valueFor(enums.CouponKindDelivery, decimal.RequireFromString(tc.value), tc.isPercentage)
			assert.Equal(t, tc.wantMode, got.Mode)
			assert.True(t, got.Value.Equal(decimal.RequireFromString(tc.wantValue)), "value %s", got.Value)
		})
	}
}

func TestParseValidDate(t *testing.T) {
	assert.Equal(t, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC), parseValidDate("2025-03-01T10:30:00"))
	assert.Equal(t, time.Date(2025, 3, 1, 23, 59, 59, 999999999, time.UTC), parseValidDate("2025-03-01"))
	assert.True(t, parseValidDate("soon").IsZero())
	assert.True(t, parseValidDate("").IsZero())
}

func TestDecodeRecordsAcceptsEnvelope(t *testing.T) {
	bare, err := decodeRecords([]byte(`[{"couponId":"a"}]`))
	require.NoError(t, err)
	wrapped, err := decodeRecords([]byte(` {"data":[{"couponId":"a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, bare, wrapped)

	_, err = decodeRecords([]byte(`nope`))
	assert.Error(t, err)
}

func TestRecordMalformedFieldFallsBackToDefault(t *testing.T) {
	r := decodeRecord(t, `{"couponId":"a","couponType":"FIXED","discountValue":"abc","minPrice":"lots","canUsed":true,"isStackable":"yes"}`)

	assert.Equal(t, FlexString("a"), r.CouponID)
	assert.Equal(t, "FIXED", r.CouponType)
	assert.True(t, r.DiscountValue.IsZero())
	assert.Nil(t, r.MinPrice)
	assert.Nil(t, r.IsStackable)
	require.NotNil(t, r.CanUsed)
	assert.True(t, *r.CanUsed)
}

func TestDecodeRecordsKeepsGoodRecordsAroundBadOnes(t *testing.T) {
	records, err := decodeRecords([]byte(`{"data":[` +
		`{"couponId":"a","couponType":"FIXED","discountValue":"abc","canUsed":true},` +
		`42,` +
		`{"couponId":"b","couponType":"FIXED","discountValue":1500,"canUsed":true}]}`))
	require.NoError(t, err)
	require.Len(t, records, 3)

	coupons, dropped := NormalizeAll(records)
	assert.Equal(t, 1, dropped)
	require.Len(t, coupons, 2)
	assert.Equal(t, "a", coupons[0].ID)
	assert.True(t, coupons[0].Value.Value.IsZero())
	assert.Equal(t, "b", coupons[1].ID)
	assert.True(t, decimal.NewFromInt(1500).Equal(coupons[1].Value.Value))
}

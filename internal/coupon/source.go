package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source lists the coupons available to the customer.
type Source interface {
	ListCoupons(ctx context.Context) ([]Record, error)
}

// StaticSource serves a fixed record list.
type StaticSource struct {
	Records []Record
}

func (s StaticSource) ListCoupons(context.Context) ([]Record, error) {
	return append([]Record(nil), s.Records...), nil
}

// FileSource reads records from a JSON file on every call.
type FileSource struct {
	Path string
}

func (f FileSource) ListCoupons(context.Context) ([]Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read coupon file: %w", err)
	}
	return decodeRecords(data)
}

// HTTPSource fetches GET {baseURL}/api/coupons.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTPSource) ListCoupons(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/coupons", nil)
	if err != nil {
		return nil, fmt.Errorf("build coupon request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch coupons: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read coupon response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch coupons: unexpected status %d", resp.StatusCode)
	}
	return decodeRecords(body)
}

// decodeRecords accepts a bare JSON array or a {"data": [...]} envelope. Entries that are
// not objects decode to an empty Record, which normalization later drops.
func decodeRecords(data []byte) ([]Record, error) {
	var entries []json.RawMessage
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode coupons: %w", err)
		}
	} else {
		var envelope struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("decode coupons: %w", err)
		}
		entries = envelope.Data
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		var r Record
		if err := json.Unmarshal(entry, &r); err != nil {
			r = Record{}
		}
		records = append(records, r)
	}
	return records, nil
}

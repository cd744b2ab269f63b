package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/shopspring/decimal"
)

// HTTPSource fetches GET {baseURL}/api/stores/{id}.
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

type storeRecord struct {
	StoreID     json.RawMessage  `json:"storeId"`
	Name        string           `json:"name"`
	DeliveryFee *decimal.Decimal `json:"deliveryFee"`
}

func (h *HTTPSource) GetStore(ctx context.Context, storeID string) (*Store, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	endpoint := h.baseURL + "/api/stores/" + url.PathEscape(storeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build store request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch store")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	case resp.StatusCode != http.StatusOK:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("fetch store: unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read store response")
	}
	record, err := decodeStore(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode store response")
	}

	st := &Store{ID: storeID, Name: record.Name}
	if record.DeliveryFee != nil && record.DeliveryFee.Sign() > 0 {
		st.DeliveryFee = int(record.DeliveryFee.Floor().IntPart())
	}
	return st, nil
}

// decodeStore accepts the store object or a {"data": {...}} envelope.
func decodeStore(body []byte) (storeRecord, error) {
	var envelope struct {
		Data *storeRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return storeRecord{}, err
	}
	if envelope.Data != nil {
		return *envelope.Data, nil
	}
	var record storeRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return storeRecord{}, err
	}
	return record, nil
}

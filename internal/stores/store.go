// Package stores reads the store data the pricing code needs, which is the delivery fee.
package stores

import (
	"context"
	"strings"
)

// Store is the slice of backend store data used by quotes.
type Store struct {
	ID          string `json:"storeId"`
	Name        string `json:"name,omitempty"`
	DeliveryFee int    `json:"deliveryFee"`
}

// Source looks stores up by id.
type Source interface {
	GetStore(ctx context.Context, storeID string) (*Store, error)
}

// StaticSource serves stores from memory. Unknown ids get DefaultDeliveryFee.
type StaticSource struct {
	Stores             map[string]Store
	DefaultDeliveryFee int
}

func (s StaticSource) GetStore(_ context.Context, storeID string) (*Store, error) {
	storeID = strings.TrimSpace(storeID)
	if st, ok := s.Stores[storeID]; ok {
		st.ID = storeID
		st.DeliveryFee = nonNegative(st.DeliveryFee)
		return &st, nil
	}
	return &Store{ID: storeID, DeliveryFee: nonNegative(s.DefaultDeliveryFee)}, nil
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

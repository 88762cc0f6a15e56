package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dimitzel3/fuel-log/internal/fuel"
	"github.com/dimitzel3/fuel-log/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	inserted  []models.RefuelRecord
	insertErr error
}

func (m *mockStore) Insert(_ context.Context, rec models.RefuelRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, rec)
	return nil
}

func (m *mockStore) ListAll(_ context.Context) ([]models.RefuelRecord, error) { return nil, nil }

func (m *mockStore) Update(_ context.Context, _ int64, _ models.RefuelUpdate) error { return nil }

func (m *mockStore) Delete(_ context.Context, _ int64) error { return nil }

func testIngester(store *mockStore) *Ingester {
	return &Ingester{
		store: store,
		rules: fuel.Rules{
			Vehicles:  []string{"ABC-123"},
			FuelTypes: []string{"diesel", "unleaded"},
		},
		topic: "fleet/refuels",
	}
}

func TestIngest_ValidEvent(t *testing.T) {
	store := &mockStore{}
	i := testIngester(store)

	payload, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "J. Doe",
		FuelType:   "diesel",
		Liters:     "40.5",
		OdometerKM: "125000",
		FuelCost:   "65.30",
	})
	i.Ingest(context.Background(), payload)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "ABC-123", store.inserted[0].Vehicle)
	assert.NotEmpty(t, store.inserted[0].Date)
}

func TestIngest_MalformedPayloadDropped(t *testing.T) {
	store := &mockStore{}
	i := testIngester(store)

	i.Ingest(context.Background(), []byte("{not json"))

	assert.Empty(t, store.inserted)
}

func TestIngest_InvalidEventDropped(t *testing.T) {
	store := &mockStore{}
	i := testIngester(store)

	payload, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "J. Doe",
		FuelType:   "diesel",
		Liters:     "0",
		OdometerKM: "125000",
		FuelCost:   "65.30",
	})
	i.Ingest(context.Background(), payload)

	assert.Empty(t, store.inserted, "invalid events never reach the store")
}

func TestIngest_StoreErrorDoesNotPanic(t *testing.T) {
	store := &mockStore{insertErr: errors.New("connection refused")}
	i := testIngester(store)

	payload, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "J. Doe",
		FuelType:   "diesel",
		Liters:     "40.5",
		OdometerKM: "125000",
		FuelCost:   "65.30",
	})
	i.Ingest(context.Background(), payload)

	assert.Empty(t, store.inserted)
}

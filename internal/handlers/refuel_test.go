package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitzel3/fuel-log/internal/db"
	"github.com/dimitzel3/fuel-log/internal/fuel"
	"github.com/dimitzel3/fuel-log/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	records []models.RefuelRecord

	inserted []models.RefuelRecord
	updates  map[int64]models.RefuelUpdate
	deleted  []int64

	insertErr error
	listErr   error
	updateErr error
	deleteErr error
}

func newMockStore(records ...models.RefuelRecord) *mockStore {
	return &mockStore{records: records, updates: map[int64]models.RefuelUpdate{}}
}

func (m *mockStore) Insert(_ context.Context, rec models.RefuelRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, rec)
	return nil
}

func (m *mockStore) ListAll(_ context.Context) ([]models.RefuelRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.RefuelRecord(nil), m.records...), nil
}

func (m *mockStore) Update(_ context.Context, id int64, fields models.RefuelUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates[id] = fields
	return nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func testRecords() []models.RefuelRecord {
	return []models.RefuelRecord{
		{ID: 7, Vehicle: "ABC-123", DriverName: sptr("J. Doe"), FuelType: sptr("diesel"), Liters: fptr(40.5), OdometerKM: fptr(125000), FuelCost: fptr(50.00), Date: "2026-08-20", CreatedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)},
		{ID: 3, Vehicle: "ABC-456", DriverName: sptr("M. Papadopoulos"), Liters: fptr(30), OdometerKM: fptr(80000), FuelCost: fptr(48), Date: "2026-08-10", CreatedAt: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)},
	}
}

func testHandler(store *mockStore) *RefuelHandler {
	h := NewRefuelHandler(store, fuel.Rules{
		Vehicles:  []string{"ABC-123", "ABC-456"},
		FuelTypes: []string{"unleaded", "diesel", "adblue"},
	})
	h.Now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestServeRefuels_CreateValid(t *testing.T) {
	store := newMockStore()
	h := testHandler(store)

	body, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "J. Doe",
		FuelType:   "diesel",
		Liters:     "40.5",
		OdometerKM: "125000",
		FuelCost:   "65.30",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/refuels", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeRefuels(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "2026-09-01", store.inserted[0].Date)
}

func TestServeRefuels_CreateInvalidJSON(t *testing.T) {
	h := testHandler(newMockStore())
	req := httptest.NewRequest(http.MethodPost, "/api/refuels", bytes.NewBufferString("{bad json"))
	w := httptest.NewRecorder()
	h.ServeRefuels(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServeRefuels_CreateViolations(t *testing.T) {
	store := newMockStore()
	h := testHandler(store)

	body, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "J. Doe",
		FuelType:   "diesel",
		Liters:     "0",
		OdometerKM: "125000",
		FuelCost:   "65.30",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/refuels", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeRefuels(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp validationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{fuel.MsgLitersPositive}, resp.Errors)
	assert.Empty(t, store.inserted, "no store call on validation failure")
}

func TestServeRefuels_CreateStoreError(t *testing.T) {
	store := newMockStore()
	store.insertErr = errors.New("connection refused")
	h := testHandler(store)

	body, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "J. Doe",
		FuelType:   "diesel",
		Liters:     "40.5",
		OdometerKM: "125000",
		FuelCost:   "65.30",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/refuels", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeRefuels(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestServeRefuels_ListWithTotals(t *testing.T) {
	h := testHandler(newMockStore(testRecords()...))

	req := httptest.NewRequest(http.MethodGet, "/api/refuels", nil)
	w := httptest.NewRecorder()
	h.ServeRefuels(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Records, 2)
	assert.Equal(t, int64(7), resp.Records[0].ID, "store ordering preserved, newest id first")
	assert.Equal(t, "#7 · ABC-123 · J. Doe · 2026-08-20 09:00", resp.Records[0].Label)
	assert.InDelta(t, 70.5, resp.TotalLiters, 1e-9)
	assert.InDelta(t, 98.0, resp.TotalCost, 1e-9)
}

func TestServeRefuels_ListFiltered(t *testing.T) {
	h := testHandler(newMockStore(testRecords()...))

	req := httptest.NewRequest(http.MethodGet, "/api/refuels?vehicle=ABC-123", nil)
	w := httptest.NewRecorder()
	h.ServeRefuels(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Records, 1)
	assert.InDelta(t, 40.5, resp.TotalLiters, 1e-9)
	assert.InDelta(t, 50.0, resp.TotalCost, 1e-9)
}

func TestServeRefuels_MethodNotAllowed(t *testing.T) {
	h := testHandler(newMockStore())
	req := httptest.NewRequest(http.MethodPatch, "/api/refuels", nil)
	w := httptest.NewRecorder()
	h.ServeRefuels(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServeRefuelByID_EditSeedsForm(t *testing.T) {
	h := testHandler(newMockStore(testRecords()...))

	req := httptest.NewRequest(http.MethodGet, "/api/refuels/7", nil)
	w := httptest.NewRecorder()
	h.ServeRefuelByID(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp editResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.Record.ID)
	assert.Equal(t, "40.5", resp.Form.Liters)
	assert.Equal(t, "J. Doe", resp.Form.DriverName)
}

func TestServeRefuelByID_NotFound(t *testing.T) {
	h := testHandler(newMockStore(testRecords()...))

	req := httptest.NewRequest(http.MethodGet, "/api/refuels/99", nil)
	w := httptest.NewRecorder()
	h.ServeRefuelByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeRefuelByID_BadID(t *testing.T) {
	h := testHandler(newMockStore())

	req := httptest.NewRequest(http.MethodGet, "/api/refuels/abc", nil)
	w := httptest.NewRecorder()
	h.ServeRefuelByID(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServeRefuelByID_SaveFullFieldSet(t *testing.T) {
	store := newMockStore(testRecords()...)
	h := testHandler(store)

	body, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "J. Doe",
		FuelType:   "diesel",
		Liters:     "40.5",
		OdometerKM: "125000",
		FuelCost:   "55.00",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/refuels/7", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeRefuelByID(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	fields, ok := store.updates[7]
	require.True(t, ok)
	assert.Equal(t, 55.00, *fields.FuelCost)
	assert.Equal(t, 40.5, *fields.Liters, "update carries the full field set, not a diff")
}

func TestServeRefuelByID_SaveViolations(t *testing.T) {
	store := newMockStore(testRecords()...)
	h := testHandler(store)

	body, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "",
		Liters:     "40.5",
		OdometerKM: "125000",
		FuelCost:   "55.00",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/refuels/7", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeRefuelByID(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp validationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{fuel.MsgDriverRequired}, resp.Errors)
	assert.Empty(t, store.updates)
}

func TestServeRefuelByID_SaveGoneRecord(t *testing.T) {
	store := newMockStore(testRecords()...)
	store.updateErr = db.ErrRecordNotFound
	h := testHandler(store)

	body, _ := json.Marshal(models.RefuelInput{
		Vehicle:    "ABC-123",
		DriverName: "J. Doe",
		Liters:     "40.5",
		OdometerKM: "125000",
		FuelCost:   "55.00",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/refuels/7", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeRefuelByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeRefuelByID_Delete(t *testing.T) {
	store := newMockStore(testRecords()...)
	h := testHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/refuels/3", nil)
	w := httptest.NewRecorder()
	h.ServeRefuelByID(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{3}, store.deleted)
}

func TestServeRefuelByID_DeleteNotFound(t *testing.T) {
	store := newMockStore(testRecords()...)
	h := testHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/refuels/99", nil)
	w := httptest.NewRecorder()
	h.ServeRefuelByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, store.deleted)
}

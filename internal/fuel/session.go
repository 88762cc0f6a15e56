package fuel

import (
	"context"
	"fmt"
	"time"

	"github.com/dimitzel3/fuel-log/internal/models"
)

// Gateway is the contract over the external record store. Each call is one
// independent network request; there are no retries and no transactions.
type Gateway interface {
	Insert(ctx context.Context, rec models.RefuelRecord) error
	ListAll(ctx context.Context) ([]models.RefuelRecord, error)
	Update(ctx context.Context, id int64, fields models.RefuelUpdate) error
	Delete(ctx context.Context, id int64) error
}

// Create normalizes and validates raw input and, when valid, inserts a new
// record with its date and timestamp derived from now. Violations are
// returned without touching the store; a non-nil error is a store failure.
func Create(ctx context.Context, gw Gateway, rules Rules, in models.RefuelInput, now time.Time) ([]string, error) {
	c := Normalize(in)
	if violations := Validate(c, rules, ModeCreate); len(violations) > 0 {
		return violations, nil
	}
	rec := models.RefuelRecord{
		Vehicle:          c.Vehicle,
		DriverName:       c.DriverName,
		FuelType:         c.FuelType,
		Liters:           c.Liters,
		OdometerKM:       c.OdometerKM,
		FuelCost:         c.FuelCost,
		ReceiptInvoiceNo: c.ReceiptInvoiceNo,
		Date:             now.Format("2006-01-02"),
		CreatedAt:        now,
	}
	if err := gw.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert refuel record: %w", err)
	}
	return nil, nil
}

// SessionState is the edit session's position in its lifecycle.
type SessionState int

const (
	StateBrowsing SessionState = iota
	StateSelected
	StateEditing
)

// ErrNoSelection is returned when an edit operation runs without a selected
// record.
var ErrNoSelection = fmt.Errorf("no record selected")

// EditSession walks a user from the browse list through selecting, editing,
// and saving or deleting a single record. Selection resolves by record id,
// never by list position, because the displayed list is a filtered and
// re-sorted projection that can shift between renders. The store stays the
// sole source of truth: after any successful mutation the full set is
// re-fetched rather than patched locally.
type EditSession struct {
	gw    Gateway
	rules Rules

	state    SessionState
	records  []models.RefuelRecord
	selected *models.RefuelRecord
}

func NewEditSession(gw Gateway, rules Rules) *EditSession {
	return &EditSession{gw: gw, rules: rules, state: StateBrowsing}
}

func (s *EditSession) State() SessionState { return s.state }

// Records returns the most recently fetched full set.
func (s *EditSession) Records() []models.RefuelRecord { return s.records }

// Selected returns the currently selected record, if any.
func (s *EditSession) Selected() *models.RefuelRecord { return s.selected }

// Refresh re-fetches the full record set and returns to Browsing.
func (s *EditSession) Refresh(ctx context.Context) error {
	records, err := s.gw.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list refuel records: %w", err)
	}
	s.records = records
	s.selected = nil
	s.state = StateBrowsing
	return nil
}

// Select resolves an id from the fetched set and moves to Selected.
func (s *EditSession) Select(id int64) (models.RefuelRecord, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			rec := s.records[i]
			s.selected = &rec
			s.state = StateSelected
			return rec, nil
		}
	}
	return models.RefuelRecord{}, fmt.Errorf("refuel record %d not in current set", id)
}

// Edit seeds the edit form from the selected record's current values and
// moves to Editing.
func (s *EditSession) Edit() (models.RefuelInput, error) {
	if s.selected == nil {
		return models.RefuelInput{}, ErrNoSelection
	}
	s.state = StateEditing
	return s.selected.Input(), nil
}

// Save normalizes and re-validates the edited values and, when valid,
// replaces the selected record's mutable fields in the store. On violations
// or on a store failure the session stays in Editing so the entered values
// are not lost. On success the set is re-fetched and the session returns to
// Browsing.
func (s *EditSession) Save(ctx context.Context, in models.RefuelInput) ([]string, error) {
	if s.selected == nil {
		return nil, ErrNoSelection
	}
	c := Normalize(in)
	if violations := Validate(c, s.rules, ModeEdit); len(violations) > 0 {
		return violations, nil
	}
	if err := s.gw.Update(ctx, s.selected.ID, c.Update()); err != nil {
		return nil, fmt.Errorf("update refuel record %d: %w", s.selected.ID, err)
	}
	return nil, s.Refresh(ctx)
}

// Delete removes the selected record unconditionally (no validation) and
// returns to Browsing with a fresh set.
func (s *EditSession) Delete(ctx context.Context) error {
	if s.selected == nil {
		return ErrNoSelection
	}
	if err := s.gw.Delete(ctx, s.selected.ID); err != nil {
		return fmt.Errorf("delete refuel record %d: %w", s.selected.ID, err)
	}
	return s.Refresh(ctx)
}

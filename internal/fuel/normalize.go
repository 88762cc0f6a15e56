package fuel

import (
	"strconv"
	"strings"

	"github.com/dimitzel3/fuel-log/internal/models"
)

// Candidate is a normalized record candidate: every optional field is either
// a concrete value or absent (nil). It is what the validator operates on and
// what gets persisted once valid.
type Candidate struct {
	Vehicle          string
	DriverName       *string
	FuelType         *string
	Liters           *float64
	OdometerKM       *float64
	FuelCost         *float64
	ReceiptInvoiceNo *string
}

// NormalizeNumber parses a raw numeric form value. Empty or whitespace-only
// input is absent; input that fails to parse as a plain decimal is also
// absent (malformed and missing are indistinguishable downstream).
func NormalizeNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// NormalizeString trims surrounding whitespace; an empty result is absent.
func NormalizeString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

// Normalize converts raw form input into a candidate record.
func Normalize(in models.RefuelInput) Candidate {
	return Candidate{
		Vehicle:          strings.TrimSpace(in.Vehicle),
		DriverName:       NormalizeString(in.DriverName),
		FuelType:         NormalizeString(in.FuelType),
		Liters:           NormalizeNumber(in.Liters),
		OdometerKM:       NormalizeNumber(in.OdometerKM),
		FuelCost:         NormalizeNumber(in.FuelCost),
		ReceiptInvoiceNo: NormalizeString(in.ReceiptInvoiceNo),
	}
}

// Update returns the candidate as the mutable field set for a store update.
func (c Candidate) Update() models.RefuelUpdate {
	return models.RefuelUpdate{
		Vehicle:          c.Vehicle,
		DriverName:       c.DriverName,
		FuelType:         c.FuelType,
		Liters:           c.Liters,
		OdometerKM:       c.OdometerKM,
		FuelCost:         c.FuelCost,
		ReceiptInvoiceNo: c.ReceiptInvoiceNo,
	}
}

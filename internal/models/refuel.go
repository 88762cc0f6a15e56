package models

import (
	"strconv"
	"time"
)

// RefuelRecord represents one stored refueling event. The id is assigned by
// the store at insert time and never changes; Date and CreatedAt are derived
// from the creation timestamp and are immutable on update.
//
// Optional fields use pointers so that "not provided" is distinct from zero
// or the empty string.
type RefuelRecord struct {
	ID               int64     `bson:"id" json:"id"`
	Vehicle          string    `bson:"vehicle" json:"vehicle"`
	DriverName       *string   `bson:"driver_name,omitempty" json:"driver_name,omitempty"`
	FuelType         *string   `bson:"fuel_type,omitempty" json:"fuel_type,omitempty"`
	Liters           *float64  `bson:"liters,omitempty" json:"liters,omitempty"`
	OdometerKM       *float64  `bson:"odometer_km,omitempty" json:"odometer_km,omitempty"`
	FuelCost         *float64  `bson:"fuel_cost,omitempty" json:"fuel_cost,omitempty"`
	ReceiptInvoiceNo *string   `bson:"receipt_invoice_no,omitempty" json:"receipt_invoice_no,omitempty"`
	Date             string    `bson:"dt" json:"dt"` // ISO date YYYY-MM-DD
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// RefuelInput carries raw form values as entered by the user (or received
// from a fuel terminal). Numeric fields stay strings here; normalization
// decides whether they carry a value at all.
type RefuelInput struct {
	Vehicle          string `json:"vehicle"`
	DriverName       string `json:"driver_name"`
	FuelType         string `json:"fuel_type"`
	Liters           string `json:"liters"`
	OdometerKM       string `json:"odometer_km"`
	FuelCost         string `json:"fuel_cost"`
	ReceiptInvoiceNo string `json:"receipt_invoice_no"`
}

// RefuelUpdate names the mutable fields of a record. An update replaces all
// of them on the matched row; Date and CreatedAt are deliberately absent.
type RefuelUpdate struct {
	Vehicle          string   `bson:"vehicle"`
	DriverName       *string  `bson:"driver_name"`
	FuelType         *string  `bson:"fuel_type"`
	Liters           *float64 `bson:"liters"`
	OdometerKM       *float64 `bson:"odometer_km"`
	FuelCost         *float64 `bson:"fuel_cost"`
	ReceiptInvoiceNo *string  `bson:"receipt_invoice_no"`
}

// Input returns the record's current values as raw form values, used to seed
// an edit form.
func (r *RefuelRecord) Input() RefuelInput {
	in := RefuelInput{Vehicle: r.Vehicle}
	if r.DriverName != nil {
		in.DriverName = *r.DriverName
	}
	if r.FuelType != nil {
		in.FuelType = *r.FuelType
	}
	if r.Liters != nil {
		in.Liters = formatNumber(*r.Liters)
	}
	if r.OdometerKM != nil {
		in.OdometerKM = formatNumber(*r.OdometerKM)
	}
	if r.FuelCost != nil {
		in.FuelCost = formatNumber(*r.FuelCost)
	}
	if r.ReceiptInvoiceNo != nil {
		in.ReceiptInvoiceNo = *r.ReceiptInvoiceNo
	}
	return in
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package fuel

import (
	"fmt"

	"github.com/dimitzel3/fuel-log/internal/models"
)

// AllSentinel is the "(all)" pass-through entry of a filter select. An empty
// filter value means the same thing.
const AllSentinel = "(all)"

// Filter holds the optional history predicates. Vehicle and driver match by
// exact equality against the stored string; the date range is inclusive on
// both ends and only takes effect when both bounds are supplied.
type Filter struct {
	Vehicle   string
	Driver    string
	DateStart string // ISO date YYYY-MM-DD
	DateEnd   string
}

// Totals are the running sums over a filtered subset. Absent values count
// as zero.
type Totals struct {
	Liters float64 `json:"total_liters"`
	Cost   float64 `json:"total_cost"`
}

// Apply returns the subset of records matching the filter. The source slice
// is never mutated; the result is always freshly allocated.
func Apply(records []models.RefuelRecord, f Filter) []models.RefuelRecord {
	byDate := f.DateStart != "" && f.DateEnd != ""

	out := make([]models.RefuelRecord, 0, len(records))
	for _, rec := range records {
		if !passes(f.Vehicle, rec.Vehicle) {
			continue
		}
		driver := ""
		if rec.DriverName != nil {
			driver = *rec.DriverName
		}
		if !passes(f.Driver, driver) {
			continue
		}
		// ISO dates compare correctly as strings.
		if byDate && (rec.Date < f.DateStart || rec.Date > f.DateEnd) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func passes(want, got string) bool {
	return want == "" || want == AllSentinel || want == got
}

// Aggregate sums liters and fuel cost over the given records.
func Aggregate(records []models.RefuelRecord) Totals {
	var t Totals
	for _, rec := range records {
		if rec.Liters != nil {
			t.Liters += *rec.Liters
		}
		if rec.FuelCost != nil {
			t.Cost += *rec.FuelCost
		}
	}
	return t
}

// Label builds the human-readable row label shown in the browse list. The
// label is display-only; selection always resolves by id.
func Label(rec models.RefuelRecord) string {
	driver := "-"
	if rec.DriverName != nil {
		driver = *rec.DriverName
	}
	return fmt.Sprintf("#%d · %s · %s · %s", rec.ID, rec.Vehicle, driver, rec.CreatedAt.Format("2006-01-02 15:04"))
}

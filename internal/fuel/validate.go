package fuel

// SelectSentinel is the placeholder entry of a select input ("choose one").
// It is never a valid choice.
const SelectSentinel = "(select)"

// Rules carries the configured allow-lists. A field that is declared with an
// allow-list must be a concrete member of it; an empty list means the field
// is validated as free text only.
type Rules struct {
	Vehicles  []string
	FuelTypes []string
	Drivers   []string
}

// Mode selects the rule variant: a new record requires the driver to be an
// explicit selection from the configured list (when one is configured), an
// edited record accepts free text.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Validation messages, surfaced verbatim to the user one per line.
const (
	MsgDriverRequired   = "driver name is required"
	MsgDriverNotAllowed = "driver name must be selected from the configured drivers"
	MsgFuelTypeRequired = "fuel type must be selected"
	MsgLitersPositive   = "liters must be greater than 0"
	MsgOdometerPositive = "odometer reading must be greater than 0"
	MsgCostPositive     = "fuel cost must be greater than 0"
	MsgVehicleRequired  = "vehicle must be one of the configured vehicles"
)

// Validate checks a candidate against the business rules and returns every
// violation, in rule order. An empty slice means the candidate is valid.
// Pure function, no side effects.
func Validate(c Candidate, r Rules, mode Mode) []string {
	var violations []string

	switch {
	case c.DriverName == nil || *c.DriverName == SelectSentinel:
		violations = append(violations, MsgDriverRequired)
	case mode == ModeCreate && len(r.Drivers) > 0 && !contains(r.Drivers, *c.DriverName):
		violations = append(violations, MsgDriverNotAllowed)
	}

	if mode == ModeCreate && len(r.FuelTypes) > 0 {
		if c.FuelType == nil || *c.FuelType == SelectSentinel || !contains(r.FuelTypes, *c.FuelType) {
			violations = append(violations, MsgFuelTypeRequired)
		}
	}

	if c.Liters == nil || *c.Liters <= 0 {
		violations = append(violations, MsgLitersPositive)
	}
	if c.OdometerKM == nil || *c.OdometerKM <= 0 {
		violations = append(violations, MsgOdometerPositive)
	}
	if c.FuelCost == nil || *c.FuelCost <= 0 {
		violations = append(violations, MsgCostPositive)
	}

	if c.Vehicle == "" || (len(r.Vehicles) > 0 && !contains(r.Vehicles, c.Vehicle)) {
		violations = append(violations, MsgVehicleRequired)
	}

	return violations
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

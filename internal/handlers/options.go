package handlers

import (
	"net/http"
)

// OptionsHandler serves the configured allow-lists so clients can render
// their select inputs without hard-coding the choices.
type OptionsHandler struct {
	Vehicles  []string
	FuelTypes []string
	Drivers   []string
}

type optionsResponse struct {
	Vehicles  []string `json:"vehicles"`
	FuelTypes []string `json:"fuel_types"`
	Drivers   []string `json:"drivers,omitempty"`
}

// ServeOptions returns the allow-lists.
func (h *OptionsHandler) ServeOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{
		Vehicles:  h.Vehicles,
		FuelTypes: h.FuelTypes,
		Drivers:   h.Drivers,
	})
}

// Health is a liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

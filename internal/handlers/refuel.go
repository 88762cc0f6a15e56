package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dimitzel3/fuel-log/internal/db"
	"github.com/dimitzel3/fuel-log/internal/fuel"
	"github.com/dimitzel3/fuel-log/internal/models"
	log "github.com/sirupsen/logrus"
)

// RefuelHandler serves the refuel record endpoints. Every read re-fetches
// the full set from the store; nothing is cached between requests.
type RefuelHandler struct {
	Store fuel.Gateway
	Rules fuel.Rules
	Now   func() time.Time
}

// NewRefuelHandler creates a refuel handler backed by the given store.
func NewRefuelHandler(store fuel.Gateway, rules fuel.Rules) *RefuelHandler {
	return &RefuelHandler{Store: store, Rules: rules, Now: time.Now}
}

type validationResponse struct {
	Errors []string `json:"errors"`
}

type listedRefuel struct {
	models.RefuelRecord
	Label string `json:"label"`
}

type listResponse struct {
	Records     []listedRefuel `json:"records"`
	TotalLiters float64        `json:"total_liters"`
	TotalCost   float64        `json:"total_cost"`
}

type editResponse struct {
	Record models.RefuelRecord `json:"record"`
	Form   models.RefuelInput  `json:"form"`
}

// ServeRefuels handles the collection endpoint: POST creates a record,
// GET lists with optional filters and running totals.
func (h *RefuelHandler) ServeRefuels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ServeRefuelByID handles the single-record endpoint: GET seeds an edit
// form, PUT saves edited values, DELETE removes the record.
func (h *RefuelHandler) ServeRefuelByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/refuels/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid record id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.edit(w, r, id)
	case http.MethodPut:
		h.save(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RefuelHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var in models.RefuelInput
	if err := json.Unmarshal(body, &in); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	violations, err := fuel.Create(r.Context(), h.Store, h.Rules, in, h.Now())
	if err != nil {
		log.WithError(err).Error("Failed to save refuel record")
		http.Error(w, "Failed to save record: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(violations) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: violations})
		return
	}

	log.WithField("vehicle", in.Vehicle).Info("Refuel record created")
	w.WriteHeader(http.StatusCreated)
}

func (h *RefuelHandler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListAll(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list refuel records")
		http.Error(w, "Failed to load records: "+err.Error(), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	filtered := fuel.Apply(records, fuel.Filter{
		Vehicle:   q.Get("vehicle"),
		Driver:    q.Get("driver"),
		DateStart: q.Get("date_start"),
		DateEnd:   q.Get("date_end"),
	})
	totals := fuel.Aggregate(filtered)

	resp := listResponse{
		Records:     make([]listedRefuel, 0, len(filtered)),
		TotalLiters: totals.Liters,
		TotalCost:   totals.Cost,
	}
	for _, rec := range filtered {
		resp.Records = append(resp.Records, listedRefuel{RefuelRecord: rec, Label: fuel.Label(rec)})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *RefuelHandler) edit(w http.ResponseWriter, r *http.Request, id int64) {
	sess := fuel.NewEditSession(h.Store, h.Rules)
	if err := sess.Refresh(r.Context()); err != nil {
		http.Error(w, "Failed to load records: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rec, err := sess.Select(id)
	if err != nil {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	form, err := sess.Edit()
	if err != nil {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, editResponse{Record: rec, Form: form})
}

func (h *RefuelHandler) save(w http.ResponseWriter, r *http.Request, id int64) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var in models.RefuelInput
	if err := json.Unmarshal(body, &in); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	sess := fuel.NewEditSession(h.Store, h.Rules)
	if err := sess.Refresh(r.Context()); err != nil {
		http.Error(w, "Failed to load records: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := sess.Select(id); err != nil {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	if _, err := sess.Edit(); err != nil {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}

	violations, err := sess.Save(r.Context(), in)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			http.Error(w, "Record not found", http.StatusNotFound)
			return
		}
		log.WithError(err).WithField("id", id).Error("Failed to update refuel record")
		http.Error(w, "Failed to save record: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(violations) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: violations})
		return
	}

	log.WithField("id", id).Info("Refuel record updated")
	w.WriteHeader(http.StatusOK)
}

func (h *RefuelHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	sess := fuel.NewEditSession(h.Store, h.Rules)
	if err := sess.Refresh(r.Context()); err != nil {
		http.Error(w, "Failed to load records: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := sess.Select(id); err != nil {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}

	if err := sess.Delete(r.Context()); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			http.Error(w, "Record not found", http.StatusNotFound)
			return
		}
		log.WithError(err).WithField("id", id).Error("Failed to delete refuel record")
		http.Error(w, "Failed to delete record: "+err.Error(), http.StatusInternalServerError)
		return
	}

	log.WithField("id", id).Info("Refuel record deleted")
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

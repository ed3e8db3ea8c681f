package coverage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/skycloud/core/cloud"
	"github.com/kilianp07/skycloud/core/model"
	"github.com/kilianp07/skycloud/core/stats"
)

// MaxMapSize bounds the n parameter of the map endpoint.
const MaxMapSize = 1 << 20

// Resolver is the part of cloud.Resolver used by the handlers.
type Resolver interface {
	Resolve(delta int64) (float64, error)
	ResolveAt(t time.Time) (float64, error)
	Start() time.Time
	Series() *model.TimeSeries
}

// CoverageResponse is returned by GET /api/cloud.
type CoverageResponse struct {
	Delta    int64   `json:"delta"`
	Coverage float64 `json:"coverage"`
}

// NewHandler returns the cloud API:
//
//	GET /api/cloud?delta=SECONDS | ?time=RFC3339
//	GET /api/cloud/map?delta=SECONDS&n=COUNT
//	GET /api/cloud/status
//	GET /api/cloud/summary
func NewHandler(res Resolver, m *cloud.Model) http.Handler {
	h := &handler{res: res, model: m}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cloud", get(h.coverage))
	mux.HandleFunc("/api/cloud/map", get(h.cloudMap))
	mux.HandleFunc("/api/cloud/status", get(h.status))
	mux.HandleFunc("/api/cloud/summary", get(h.summary))
	return mux
}

type handler struct {
	res   Resolver
	model *cloud.Model
}

func get(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	}
}

func (h *handler) coverage(w http.ResponseWriter, r *http.Request) {
	delta, value, err := h.resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, CoverageResponse{Delta: delta, Coverage: value})
}

func (h *handler) cloudMap(w http.ResponseWriter, r *http.Request) {
	n := 1
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > MaxMapSize {
			http.Error(w, fmt.Sprintf("n must be an integer in [0, %d]", MaxMapSize), http.StatusBadRequest)
			return
		}
		n = v
	}
	_, value, err := h.resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.model.Compute(value, make([]float64, n)))
}

func (h *handler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.model.Status())
}

func (h *handler) summary(w http.ResponseWriter, _ *http.Request) {
	ts := h.res.Series()
	if ts == nil {
		writeError(w, cloud.ErrNotLoaded)
		return
	}
	writeJSON(w, stats.Summarize(ts))
}

type badRequest struct{ error }

func (h *handler) resolve(r *http.Request) (int64, float64, error) {
	q := r.URL.Query()
	if ts := q.Get("time"); ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return 0, 0, badRequest{fmt.Errorf("time must be RFC3339: %w", err)}
		}
		v, err := h.res.ResolveAt(t)
		return int64(t.Sub(h.res.Start()) / time.Second), v, err
	}
	var delta int64
	if s := q.Get("delta"); s != "" {
		d, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, badRequest{fmt.Errorf("delta must be an integer number of seconds")}
		}
		delta = d
	}
	v, err := h.res.Resolve(delta)
	return delta, v, err
}

func writeError(w http.ResponseWriter, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, cloud.ErrNotLoaded), errors.Is(err, cloud.ErrInsufficientData):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

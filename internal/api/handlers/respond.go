package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wonny/tradedash/internal/metrics"
	"github.com/wonny/tradedash/internal/strategy"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// listing is the {"response": [...]} wrapper the dashboard tables read
type listing struct {
	Response interface{} `json:"response"`
}

// isClientError reports errors caused by the request rather than the server
func isClientError(err error) bool {
	return errors.Is(err, metrics.ErrInvalidWindow) ||
		errors.Is(err, metrics.ErrTradeNotClosed) ||
		errors.Is(err, metrics.ErrTradeOutsideWindow) ||
		errors.Is(err, strategy.ErrInvalidInput)
}

// parseDateParam reads a required YYYY-MM-DD query parameter
func parseDateParam(r *http.Request, name string) (metrics.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return metrics.Date{}, fmt.Errorf("missing '%s' date (expected YYYY-MM-DD)", name)
	}
	d, err := metrics.ParseDate(raw)
	if err != nil {
		return metrics.Date{}, fmt.Errorf("invalid '%s' date format (expected YYYY-MM-DD)", name)
	}
	return d, nil
}

// parseWindow reads from/to and rejects inverted ranges
func parseWindow(r *http.Request) (metrics.Date, metrics.Date, error) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		return metrics.Date{}, metrics.Date{}, err
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		return metrics.Date{}, metrics.Date{}, err
	}
	if from.After(to) {
		return metrics.Date{}, metrics.Date{}, fmt.Errorf("'from' must not be after 'to'")
	}
	return from, to, nil
}

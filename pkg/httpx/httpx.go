package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

var ErrInvalidBody = errors.New("invalid request payload")

func JSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrInvalidBody
	}
	return nil
}

// QueryInt returns the integer query parameter or fallback when it is
// missing or malformed.
func QueryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

// QueryLimit reads "limit" clamped to [1, max].
func QueryLimit(r *http.Request, def, max int) int {
	n := QueryInt(r, "limit", def)
	if n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the household header, month and date query parameters, and JSON bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"budgetflow/internal/core"
)

// HouseholdHeader selects the household every API call is scoped to.
const HouseholdHeader = "X-Household-ID"

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var (
	errMissingHousehold = errors.New("missing " + HouseholdHeader + " header")
	errInvalidHousehold = errors.New("invalid " + HouseholdHeader + " header")
)

// ParseHouseholdID reads the household ID header. IDs must be positive.
func ParseHouseholdID(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.Header.Get(HouseholdHeader))
	if v == "" {
		return 0, errMissingHousehold
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidHousehold
	}
	return id, nil
}

// ParseMonthParam reads a required YYYY-MM query parameter.
func ParseMonthParam(query url.Values, key string) (core.YearMonth, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return core.YearMonth{}, fmt.Errorf("missing %s parameter", key)
	}
	ym, ok := core.ParseMonthYearKey(v)
	if !ok {
		return core.YearMonth{}, fmt.Errorf("invalid %s %q: want YYYY-MM", key, v)
	}
	return ym, nil
}

// ParseDateParam reads a required YYYY-MM-DD query parameter.
func ParseDateParam(query url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return core.Date{}, fmt.Errorf("missing %s parameter", key)
	}
	d, ok := core.ParseLocalDate(v)
	if !ok {
		return core.Date{}, fmt.Errorf("invalid %s %q: want YYYY-MM-DD", key, v)
	}
	return d, nil
}

// ParseReportRange reads either month=YYYY-MM or start/end dates.
func ParseReportRange(query url.Values) (core.DateRange, error) {
	if query.Get("month") != "" {
		ym, err := ParseMonthParam(query, "month")
		if err != nil {
			return core.DateRange{}, err
		}
		return ym.Range(), nil
	}
	start, err := ParseDateParam(query, "start")
	if err != nil {
		return core.DateRange{}, err
	}
	end, err := ParseDateParam(query, "end")
	if err != nil {
		return core.DateRange{}, err
	}
	rng := core.DateRange{Start: start, End: end}
	if err := rng.Validate(); err != nil {
		return core.DateRange{}, err
	}
	return rng, nil
}

// ParseTolerance reads an optional tolerance fraction in [0, 1).
func ParseTolerance(query url.Values, defaultValue float64) (float64, error) {
	v := strings.TrimSpace(query.Get("tolerance"))
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !core.ValidTolerance(f) {
		return 0, fmt.Errorf("invalid tolerance %q: want a fraction in [0, 1)", v)
	}
	return f, nil
}

// ParseCount reads an optional positive count, capped at max.
func ParseCount(query url.Values, defaultValue, max int) (int, error) {
	v := strings.TrimSpace(query.Get("count"))
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count %q: must be a positive number", v)
	}
	if n > max {
		n = max
	}
	return n, nil
}

// DecodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *JSONResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// sanitizeInput removes control characters except tab and newlines and trims
// whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

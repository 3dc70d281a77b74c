package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"budgetflow/internal/core"
)

func TestParseHouseholdID(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    int64
		wantErr error
	}{
		{"valid id", "42", 42, nil},
		{"padded id", " 7 ", 7, nil},
		{"missing header", "", 0, errMissingHousehold},
		{"not a number", "abc", 0, errInvalidHousehold},
		{"zero", "0", 0, errInvalidHousehold},
		{"negative", "-3", 0, errInvalidHousehold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set(HouseholdHeader, tt.header)
			}
			got, err := ParseHouseholdID(r)
			if err != tt.wantErr {
				t.Fatalf("ParseHouseholdID() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHouseholdID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseMonthParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    core.YearMonth
		wantErr bool
	}{
		{"valid month", "2024-03", core.YearMonth{Year: 2024, Month: 3}, false},
		{"missing", "", core.YearMonth{}, true},
		{"month 13", "2024-13", core.YearMonth{}, true},
		{"garbage", "invalid", core.YearMonth{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			if tt.value != "" {
				q.Set("month", tt.value)
			}
			got, err := ParseMonthParam(q, "month")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMonthParam() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMonthParam() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseReportRange(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"month", "month=2024-02", "2024-02-01..2024-02-29", false},
		{"start and end", "start=2024-01-15&end=2024-02-14", "2024-01-15..2024-02-14", false},
		{"timestamp start uses date part", "start=2025-11-13T23:00:00-05:00&end=2025-11-30", "2025-11-13..2025-11-30", false},
		{"end before start", "start=2024-02-01&end=2024-01-01", "", true},
		{"missing end", "start=2024-02-01", "", true},
		{"bad date", "start=2024-02-30&end=2024-03-01", "", true},
		{"bad month", "month=2024-00", "", true},
		{"nothing", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got, err := ParseReportRange(q)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReportRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseReportRange() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseTolerance(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    float64
		wantErr bool
	}{
		{"default", "", 0.15, false},
		{"explicit", "0.2", 0.2, false},
		{"zero", "0", 0, false},
		{"one is too much", "1", 0, true},
		{"negative", "-0.1", 0, true},
		{"garbage", "abc", 0, true},
		{"not a number", "NaN", 0, true},
		{"infinite", "Inf", 0, true},
		{"negative infinite", "-Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			if tt.value != "" {
				q.Set("tolerance", tt.value)
			}
			got, err := ParseTolerance(q, 0.15)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTolerance() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTolerance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{"default", "", 3, false},
		{"explicit", "5", 5, false},
		{"capped", "500", 24, false},
		{"zero", "0", 0, true},
		{"garbage", "many", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			if tt.value != "" {
				q.Set("count", tt.value)
			}
			got, err := ParseCount(q, 3, 24)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"month":"2024-03"}`, ""},
		{"empty", ``, "empty request body"},
		{"unknown field", `{"month":"2024-03","extra":1}`, "invalid JSON body"},
		{"trailing data", `{"month":"2024-03"}{"month":"2024-04"}`, "trailing data"},
		{"malformed", `{"month":`, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst exportRequest
			err := DecodeJSON(r, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("DecodeJSON() error = %v", err)
				}
				if dst.Month != "2024-03" {
					t.Errorf("Month = %q", dst.Month)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("DecodeJSON() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequireMethod(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		t.Error("RequireMethod() rejected an allowed method")
	}
	if resp := RequireMethod(r, http.MethodPost); resp == nil {
		t.Error("RequireMethod() accepted a disallowed method")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  groceries  ", "groceries"},
		{"rent\x00\x07", "rent"},
		{"line1\nline2", "line1\nline2"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

package http

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/7").
		JSON(map[string]int64{"id": 7}).
		Write(w, r)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if loc := w.Header().Get("Location"); loc != "/api/transactions/7" {
		t.Errorf("Location = %q", loc)
	}
	var body map[string]int64
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["id"] != 7 {
		t.Errorf("id = %d, want 7", body["id"])
	}
}

func TestJSONResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	NewJSONResponse().Status(http.StatusAccepted).Write(w, r)

	if w.Code != http.StatusAccepted {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusAccepted)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Body = %q, want empty", w.Body.String())
	}
}

func TestJSONResponseBuilder_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	NewJSONResponse().JSON(math.Inf(1)).Write(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *JSONResponseBuilder
		status  int
		message string
	}{
		{"bad request", BadRequestError("bad month"), http.StatusBadRequest, "bad month"},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, "boom"},
		{"unavailable", ServiceUnavailableError("no exports"), http.StatusServiceUnavailable, "no exports"},
		{"rate limited", TooManyRequestsError(time.Minute), http.StatusTooManyRequests, "rate limit exceeded"},
		{"method", MethodNotAllowedError("GET"), http.StatusMethodNotAllowed, "method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != tt.status {
				t.Errorf("Status code = %d, want %d", w.Code, tt.status)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.message {
				t.Errorf("error = %q, want %q", body.Error, tt.message)
			}
		})
	}
}

func TestMethodNotAllowedSetsAllow(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowedError("GET, POST").Write(w, httptest.NewRequest(http.MethodDelete, "/", nil))
	if got := w.Header().Get("Allow"); got != "GET, POST" {
		t.Errorf("Allow = %q", got)
	}
}

func TestTooManyRequestsSetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequestsError(1500*time.Millisecond).Write(w, httptest.NewRequest(http.MethodPost, "/", nil))
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}

	w = httptest.NewRecorder()
	TooManyRequestsError(0).Write(w, httptest.NewRequest(http.MethodPost, "/", nil))
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}
}

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct client", "203.0.113.5:1234", "", "", "203.0.113.5"},
		{"untrusted peer ignores forwarded", "203.0.113.5:1234", "198.51.100.1", "", "203.0.113.5"},
		{"trusted proxy uses first forwarded", "10.0.0.2:80", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"trusted proxy falls back to real ip", "127.0.0.1:80", "", "198.51.100.9", "198.51.100.9"},
		{"trusted proxy with garbage header", "192.168.1.1:80", "not-an-ip", "", "192.168.1.1"},
		{"no port", "203.0.113.7", "", "", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		agent  string
		want   bool
	}{
		{"normal report", http.MethodGet, "/api/reports/summary?month=2024-03", "budgetflow-cli", false},
		{"path traversal", http.MethodGet, "/api/../../etc/passwd", "", true},
		{"encoded query injection", http.MethodGet, "/api/reports/summary?month=1%27%20union%20select", "", true},
		{"scanner agent", http.MethodGet, "/healthz", "sqlmap/1.7", true},
		{"trace method", "TRACE", "/healthz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/", nil)
			r.URL.Path, r.URL.RawQuery, _ = strings.Cut(tt.target, "?")
			r.Header.Set("User-Agent", tt.agent)
			metrics := &securityMetrics{}
			if got := detectSuspiciousRequest(r, metrics); got != tt.want {
				t.Errorf("detectSuspiciousRequest() = %v, want %v", got, tt.want)
			}
			if tt.want && metrics.suspiciousRequests != 1 {
				t.Errorf("suspiciousRequests = %d, want 1", metrics.suspiciousRequests)
			}
		})
	}
}

func TestWriteLimiterLedgerQuota(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	wl := newWriteLimiter(3, 10)
	defer wl.stop()
	wl.now = func() time.Time { return now }
	metrics := &securityMetrics{}

	for i := 0; i < 3; i++ {
		if _, ok := wl.allow("1.2.3.4", ledgerWrite, metrics); !ok {
			t.Fatalf("write %d should be allowed", i+1)
		}
	}
	now = now.Add(20 * time.Second)
	retry, ok := wl.allow("1.2.3.4", ledgerWrite, metrics)
	if ok {
		t.Fatal("4th write within the window should be rejected")
	}
	if retry != 40*time.Second {
		t.Errorf("retry after = %v, want 40s", retry)
	}
	if _, ok := wl.allow("5.6.7.8", ledgerWrite, metrics); !ok {
		t.Error("other clients are not affected")
	}
	if metrics.rateLimitHits != 1 {
		t.Errorf("rateLimitHits = %d, want 1", metrics.rateLimitHits)
	}

	// steady traffic does not push the window forward
	now = now.Add(30 * time.Second)
	if _, ok := wl.allow("1.2.3.4", ledgerWrite, metrics); ok {
		t.Error("write 50s into the window should still be rejected")
	}
	now = now.Add(10 * time.Second)
	if _, ok := wl.allow("1.2.3.4", ledgerWrite, metrics); !ok {
		t.Error("a new window opens a minute after the first write")
	}
}

func TestWriteLimiterExportQuotaIsSeparate(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	wl := newWriteLimiter(100, 2)
	defer wl.stop()
	wl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if _, ok := wl.allow("1.2.3.4", exportWrite, nil); !ok {
			t.Fatalf("export %d should be allowed", i+1)
		}
	}
	now = now.Add(10 * time.Minute)
	retry, ok := wl.allow("1.2.3.4", exportWrite, nil)
	if ok {
		t.Fatal("3rd export within the hour should be rejected")
	}
	if retry != 50*time.Minute {
		t.Errorf("retry after = %v, want 50m", retry)
	}
	if _, ok := wl.allow("1.2.3.4", ledgerWrite, nil); !ok {
		t.Error("ledger writes keep their own quota")
	}

	now = now.Add(50 * time.Minute)
	if _, ok := wl.allow("1.2.3.4", exportWrite, nil); !ok {
		t.Error("export quota should reopen after an hour")
	}
}

func TestWriteLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	wl := newWriteLimiter(5, 5)
	defer wl.stop()
	wl.now = func() time.Time { return now }

	wl.allow("1.2.3.4", ledgerWrite, nil)
	wl.allow("1.2.3.4", exportWrite, nil)
	wl.allow("5.6.7.8", ledgerWrite, nil)

	now = now.Add(2 * time.Minute)
	if removed := wl.cleanupExpiredWindows(); removed != 2 {
		t.Errorf("cleanupExpiredWindows() = %d, want 2 ledger windows", removed)
	}
	now = now.Add(time.Hour)
	if removed := wl.cleanupExpiredWindows(); removed != 1 {
		t.Errorf("cleanupExpiredWindows() = %d, want the export window", removed)
	}
}

func TestWriteLimiterDefaults(t *testing.T) {
	wl := newWriteLimiter(0, -1)
	defer wl.stop()
	if got := wl.quotas[ledgerWrite].limit; got != defaultWritesPerMinute {
		t.Errorf("ledger limit = %d, want %d", got, defaultWritesPerMinute)
	}
	if got := wl.quotas[exportWrite].limit; got != defaultExportsPerHour {
		t.Errorf("export limit = %d, want %d", got, defaultExportsPerHour)
	}
	wl.stop() // idempotent
}

func TestClassifyWrite(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		wantClass writeClass
		wantLimit bool
	}{
		{"read - not limited", http.MethodGet, "/api/reports/summary", 0, false},
		{"export read - not limited", http.MethodGet, "/api/exports", 0, false},
		{"transaction - ledger", http.MethodPost, "/api/transactions", ledgerWrite, true},
		{"income - ledger", http.MethodPost, "/api/income", ledgerWrite, true},
		{"export - export", http.MethodPost, "/api/exports", exportWrite, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, limited := classifyWrite(httptest.NewRequest(tt.method, tt.path, nil))
			if limited != tt.wantLimit || class != tt.wantClass {
				t.Errorf("classifyWrite() = %v, %v; want %v, %v", class, limited, tt.wantClass, tt.wantLimit)
			}
		})
	}
}

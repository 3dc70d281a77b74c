package http

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Default write quotas per client IP.
const (
	defaultWritesPerMinute = 60
	defaultExportsPerHour  = 12
)

// writeClass separates ledger ingestion from export requests. Each class has
// its own quota and its own window per client.
type writeClass int

const (
	ledgerWrite writeClass = iota
	exportWrite
)

func (c writeClass) String() string {
	if c == exportWrite {
		return "export"
	}
	return "ledger"
}

// classifyWrite reports whether r spends write quota and from which class.
// Reads are never limited.
func classifyWrite(r *http.Request) (writeClass, bool) {
	if r.Method != http.MethodPost {
		return 0, false
	}
	if r.URL.Path == "/api/exports" {
		return exportWrite, true
	}
	return ledgerWrite, true
}

type quota struct {
	limit  int
	window time.Duration
}

type windowKey struct {
	clientIP string
	class    writeClass
}

// quotaWindow is a fixed window opened by the client's first write in it.
type quotaWindow struct {
	start time.Time
	used  int
}

// writeLimiter counts writes per client IP and class in fixed windows.
type writeLimiter struct {
	mu           sync.Mutex
	quotas       map[writeClass]quota
	windows      map[windowKey]*quotaWindow
	now          func() time.Time
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

func newWriteLimiter(writesPerMinute, exportsPerHour int) *writeLimiter {
	if writesPerMinute <= 0 {
		writesPerMinute = defaultWritesPerMinute
	}
	if exportsPerHour <= 0 {
		exportsPerHour = defaultExportsPerHour
	}
	wl := &writeLimiter{
		quotas: map[writeClass]quota{
			ledgerWrite: {limit: writesPerMinute, window: time.Minute},
			exportWrite: {limit: exportsPerHour, window: time.Hour},
		},
		windows:     make(map[windowKey]*quotaWindow),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go wl.startCleanup()
	return wl
}

func (wl *writeLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			wl.cleanupExpiredWindows()
		case <-wl.stopCleanup:
			return
		}
	}
}

// cleanupExpiredWindows drops windows that have closed and returns how many
// were removed.
func (wl *writeLimiter) cleanupExpiredWindows() int {
	wl.mu.Lock()
	defer wl.mu.Unlock()

	removed := 0
	now := wl.now()
	for key, w := range wl.windows {
		if !now.Before(w.start.Add(wl.quotas[key.class].window)) {
			delete(wl.windows, key)
			removed++
		}
	}
	return removed
}

func (wl *writeLimiter) stop() {
	wl.shutdownOnce.Do(func() {
		close(wl.stopCleanup)
	})
}

// allow spends one unit of the client's quota for class. When the quota is
// exhausted it returns false and the time until the window reopens.
func (wl *writeLimiter) allow(clientIP string, class writeClass, metrics *securityMetrics) (time.Duration, bool) {
	wl.mu.Lock()
	defer wl.mu.Unlock()

	q := wl.quotas[class]
	now := wl.now()
	key := windowKey{clientIP: clientIP, class: class}
	w, ok := wl.windows[key]
	if !ok || !now.Before(w.start.Add(q.window)) {
		wl.windows[key] = &quotaWindow{start: now, used: 1}
		return 0, true
	}

	if w.used >= q.limit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return w.start.Add(q.window).Sub(now), false
	}
	w.used++
	return 0, true
}

package verify

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// throttle is a per-user token bucket.
type throttle struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	r        rate.Limit
	burst    int
}

// newThrottle allows perMinute starts per user with the given burst.
// A non-positive perMinute disables throttling.
func newThrottle(perMinute, burst int) *throttle {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &throttle{
		limiters: make(map[string]*userLimiter),
		r:        rate.Limit(float64(perMinute) / 60),
		burst:    burst,
	}
}

func (t *throttle) allow(userID string) bool {
	if t == nil {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.limiters[userID]
	if !ok {
		v = &userLimiter{limiter: rate.NewLimiter(t.r, t.burst)}
		t.limiters[userID] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// sweep drops limiters idle for longer than idle.
func (t *throttle) sweep(idle time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, v := range t.limiters {
		if time.Since(v.lastSeen) > idle {
			delete(t.limiters, id)
		}
	}
}

package middleware

// Test hooks for the external middleware_test package.

var NewRateLimiterWithClock = newRateLimiter

func (rl *RateLimiter) VisitorCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

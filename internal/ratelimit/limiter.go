package ratelimit

import (
	"sync"
	"time"
)

// Fallbacks for non-positive configuration values.
const (
	DefaultRate     = 1
	DefaultInterval = time.Second
)

// minTick is the shortest refill period. Faster rates issue several tokens per tick.
const minTick = time.Millisecond

// Limiter is a token bucket safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	rate     int
	interval time.Duration
	tokens   int

	tick          time.Duration
	tokensPerTick int

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a full bucket holding rate tokens that refills over interval
// and starts its refill goroutine. Call Stop to release it.
func New(rate int, interval time.Duration) *Limiter {
	l := newLimiter(rate, interval)
	go l.run()
	return l
}

// newLimiter builds the bucket without starting the refill goroutine.
func newLimiter(rate int, interval time.Duration) *Limiter {
	if rate <= 0 {
		rate = DefaultRate
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	tick, perTick := refillSchedule(rate, interval)
	return &Limiter{
		rate:          rate,
		interval:      interval,
		tokens:        rate,
		tick:          tick,
		tokensPerTick: perTick,
		done:          make(chan struct{}),
	}
}

// refillSchedule returns the tick period and the tokens issued per tick.
// Normally one token is issued every interval/rate. Below minTick the period
// is clamped and ceil(rate*minTick/interval) tokens are issued per tick.
func refillSchedule(rate int, interval time.Duration) (time.Duration, int) {
	tick := interval / time.Duration(rate)
	if tick >= minTick {
		return tick, 1
	}

	perTick := (int64(rate)*int64(minTick) + int64(interval) - 1) / int64(interval)
	return minTick, int(perTick)
}

// Allow consumes a token if one is available. It never blocks.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tokens <= 0 {
		return false
	}
	l.tokens--
	return true
}

// Tokens returns the number of tokens currently in the bucket.
func (l *Limiter) Tokens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tokens
}

// Rate returns the bucket capacity.
func (l *Limiter) Rate() int {
	return l.rate
}

// Interval returns the time needed to refill an empty bucket.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Stop halts the refill goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

func (l *Limiter) run() {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.refill()
		case <-l.done:
			return
		}
	}
}

// refill issues one tick's worth of tokens, capped at the bucket capacity.
func (l *Limiter) refill() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens += l.tokensPerTick
	if l.tokens > l.rate {
		l.tokens = l.rate
	}
}

// Package ratelimit implements a single process-wide token bucket and the
// HTTP middleware that rejects requests once the bucket is empty.
//
// The bucket holds at most rate tokens and starts full. A background
// goroutine issues one token every interval/rate, so an empty bucket is
// completely refilled after one interval.
package ratelimit

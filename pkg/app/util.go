package app

import "time"

// nextDelay is the time until the next interval boundary plus offset, ex
// 2s past the next minute for a 1m interval.
func nextDelay(now time.Time, interval, offset time.Duration) time.Duration {
	next := now.Truncate(interval).Add(offset)
	for !next.After(now) {
		next = next.Add(interval)
	}
	return next.Sub(now)
}

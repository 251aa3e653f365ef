package homecache

import "time"

// Valid reports whether e is still fresh at now under ttl. An absent
// entry (nil) is never valid; an entry exactly ttl old is already stale.
// No grace period, no sliding expiration: staleness is evaluated only
// when asked, never in the background.
func Valid(e *Entry, now time.Time, ttl time.Duration) bool {
	if e == nil {
		return false
	}
	return now.Sub(e.CapturedAt) < ttl
}

// Package month contains calendar-month arithmetic for subscription terms.
package month

import (
	"time"
)

// Add returns t shifted forward by n calendar months.
func Add(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// Extend returns the new term end when n months are bought at now for a
// term currently ending at expiresAt. The extension is anchored at
// whichever is later, so unused time on an active term is preserved and an
// expired term restarts from now.
func Extend(now, expiresAt time.Time, n int) time.Time {
	base := expiresAt
	if now.After(base) {
		base = now
	}
	return Add(base, n)
}

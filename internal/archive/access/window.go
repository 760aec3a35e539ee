// Package access implements the lock decision for archive items: a
// fixed-priority rule chain over completion state, entitlement, the rolling
// free window and ad-unlock grants. Everything here is pure; callers supply
// the current date.
package access

import "puzzlearchive/internal/datex"

// InFreeWindow reports whether itemDate falls inside the rolling free window
// ending at today: [today-(windowDays-1), today], both bounds inclusive. With
// a 7-day window, today and the 6 preceding calendar days are free.
//
// Dates after today count as inside the window: an upcoming item is never
// locked merely for being in the future. Release gating is a separate
// availability predicate, not a lock rule.
//
// windowDays below 1 disables the window entirely.
func InFreeWindow(itemDate, today datex.Date, windowDays int) bool {
	if windowDays < 1 {
		return false
	}
	start := today.AddDays(-(windowDays - 1))
	return !itemDate.Before(start)
}

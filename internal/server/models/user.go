// Package models defines server-side data models persisted in the database.
package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	// PremiumUntil is the subscription expiry; NULL means никогда не было
	// подписки. Entitlement is PremiumUntil > now, nothing is ever derived
	// from it or cached.
	PremiumUntil sql.NullTime
	CreatedAt    time.Time
}

// Entitled reports whether the user's subscription is active at the given
// instant.
func (u *User) Entitled(now time.Time) bool {
	return u.PremiumUntil.Valid && u.PremiumUntil.Time.After(now)
}

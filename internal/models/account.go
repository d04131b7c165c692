// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Account is a registered (and possibly not yet verified) member.
type Account struct { //nolint:govet // fieldalignment: readability over optimization
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	IsVerified     int64     `db:"is_verified" json:"is_verified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Verified reports whether the account has confirmed its email address.
func (a *Account) Verified() bool {
	return a.IsVerified != 0
}

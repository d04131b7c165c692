// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package credentials provides one-way password hashing and verification.
package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost factor used in production.
const DefaultCost = 10

// ErrMismatch is returned when a password does not match its stored digest.
// Callers must treat a mismatch as an error branch, never as a boolean.
var ErrMismatch = errors.New("credentials do not match")

// Hasher wraps bcrypt with a fixed cost factor. The zero value is not
// usable; construct with New.
type Hasher struct {
	cost int
}

// New creates a Hasher. Costs outside bcrypt's valid range fall back to
// DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted digest from a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Compare checks a plaintext password against a stored digest. It returns
// ErrMismatch when they do not match. A malformed digest also fails the
// comparison rather than leaking a distinct error to callers.
func (h *Hasher) Compare(password, digest string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}

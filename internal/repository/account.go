// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/iteratehackerspace/silicondzor/internal/models"
)

// GetAccountByEmail retrieves an account by its email address.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.GetContext(ctx, &account, `SELECT * FROM account WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &account, nil
}

// GetVerifiedAccount retrieves an account that has completed email
// verification. Unverified accounts are reported as not found.
func (r *Repository) GetVerifiedAccount(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.GetContext(ctx, &account,
		`SELECT * FROM account WHERE email = ? AND is_verified = 1`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &account, nil
}

// CreateAccount inserts a new, unverified account. The unique constraint on
// email is the only guard against concurrent registrations for the same
// address; a violation surfaces as the driver's constraint error.
func (r *Repository) CreateAccount(ctx context.Context, email, hashedPassword string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account (email, hashed_password) VALUES (?, ?)`,
		email, hashedPassword)
	return err
}

// MarkAccountVerified flips the verified flag for an account.
func (r *Repository) MarkAccountVerified(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE account SET is_verified = 1 WHERE email = ?`, email)
	return err
}

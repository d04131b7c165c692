// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package account implements the registration, email-verification and
// sign-in workflow.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iteratehackerspace/silicondzor/internal/registry"
	"github.com/iteratehackerspace/silicondzor/internal/repository"
	"github.com/iteratehackerspace/silicondzor/internal/services/credentials"
)

// Failure kinds surfaced by the workflow. Handlers map these to the uniform
// fail reply; everything else is a bug.
var (
	// ErrDuplicateAccount is returned when the email address is already taken.
	ErrDuplicateAccount = errors.New("email already registered")
	// ErrInvalidEmail is returned at sign-in when no verified account exists
	// for the address. Deliberately the same for unknown and unverified
	// accounts, so responses do not leak which addresses are registered.
	ErrInvalidEmail = errors.New("no verified account for email")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPersistence wraps store failures (constraint violations included).
	ErrPersistence = errors.New("persistence failure")
	// ErrMail wraps verification-mail dispatch failures.
	ErrMail = errors.New("mail failure")
)

// Mailer dispatches a verification email containing a link that embeds the
// token.
type Mailer interface {
	SendVerification(ctx context.Context, toEmail, token string) error
}

// Service orchestrates the account workflow. All collaborators are injected;
// the service holds no state of its own.
type Service struct {
	repo     *repository.Repository
	registry *registry.Registry
	hasher   *credentials.Hasher
	mailer   Mailer
}

// NewService creates the workflow service.
func NewService(repo *repository.Repository, reg *registry.Registry, hasher *credentials.Hasher, mailer Mailer) *Service {
	return &Service{
		repo:     repo,
		registry: reg,
		hasher:   hasher,
		mailer:   mailer,
	}
}

// Register creates an unverified account and sends the verification mail.
//
// The existence check and the insert are not atomic; two concurrent
// registrations for the same address may both pass the check, and the
// loser's insert fails on the unique constraint and is reported as
// ErrPersistence. Its registry entry stays behind until the next sweep,
// which is harmless: verifying it would fail at the account update.
func (s *Service) Register(ctx context.Context, username, password string) error {
	_, err := s.repo.GetAccountByEmail(ctx, username)
	if err == nil {
		return ErrDuplicateAccount
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	token := uuid.NewString()
	s.registry.Put(token, username)

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	if err := s.repo.CreateAccount(ctx, username, digest); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// A mail failure is not rolled back: the account row stays unverified
	// and the registry entry stays valid for a later resend.
	if err := s.mailer.SendVerification(ctx, username, token); err != nil {
		return fmt.Errorf("%w: %v", ErrMail, err)
	}

	slog.Info("register_success", "email", username)
	return nil
}

// Verify resolves a token and marks the account verified. It returns the
// username so the caller can log the browser in. An unknown or expired
// token yields registry.ErrTokenNotFound; the handler treats every failure
// as fail-open.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	username, err := s.registry.Resolve(token)
	if err != nil {
		return "", err
	}

	if err := s.repo.MarkAccountVerified(ctx, username); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Only delete after the verified flag is durable; a token must never
	// resolve again once consumed.
	s.registry.Delete(token)

	slog.Info("verify_success", "email", username)
	return username, nil
}

// SignIn checks the password of a verified account.
func (s *Service) SignIn(ctx context.Context, username, password string) error {
	acct, err := s.repo.GetVerifiedAccount(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("sign_in_failed", "email", username, "reason", "no_verified_account")
			return ErrInvalidEmail
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.hasher.Compare(password, acct.HashedPassword); err != nil {
		slog.Warn("sign_in_failed", "email", username, "reason", "invalid_password")
		return ErrInvalidCredentials
	}

	slog.Info("sign_in_success", "email", username)
	return nil
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iteratehackerspace/silicondzor/internal/services/account"
	"github.com/iteratehackerspace/silicondzor/internal/services/session"
)

// AuthHandlers contains handlers for registration, verification and sign-in.
type AuthHandlers struct {
	accounts *account.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(accounts *account.Service, sessions *session.Manager) *AuthHandlers {
	return &AuthHandlers{
		accounts: accounts,
		sessions: sessions,
	}
}

// CredentialsRequest is the request body for registration and sign-in. The
// frontend sends the email address in the username field.
type CredentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Register creates a new unverified account and sends the verification mail.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusOK, Fail(ReasonBadRequest))
	}

	err := h.accounts.Register(c.Request().Context(), req.Username, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, Ok())
	case errors.Is(err, account.ErrDuplicateAccount):
		return c.JSON(http.StatusOK, Fail(ReasonUsernameAlreadyPicked))
	default:
		slog.Error("registration failed", "email", req.Username, "error", err)
		return c.JSON(http.StatusOK, Fail(ReasonRegistrationFailed))
	}
}

// SignIn authenticates against a verified account. The session is cleared
// before any check, so a failed attempt never leaves a previously
// authenticated browser logged in.
func (h *AuthHandlers) SignIn(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())

	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, Fail(ReasonBadRequest))
	}

	err := h.accounts.SignIn(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		return c.JSON(http.StatusOK, Fail(ReasonInvalidCredentials))
	case errors.Is(err, account.ErrInvalidEmail):
		return c.JSON(http.StatusOK, Fail(ReasonInvalidEmail))
	case err != nil:
		// Store trouble gets the same reply as an unknown address.
		slog.Error("sign-in failed", "email", req.Username, "error", err)
		return c.JSON(http.StatusOK, Fail(ReasonInvalidEmail))
	}

	cookie, err := h.sessions.Create(req.Username)
	if err != nil {
		slog.Error("failed to create session", "email", req.Username, "error", err)
		return c.JSON(http.StatusOK, Fail(ReasonInvalidEmail))
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, Ok())
}

// Verify consumes a verification token from the emailed link. It is
// fail-open: whatever happens, the browser is redirected home and failures
// are only logged. A valid token additionally logs the browser in.
func (h *AuthHandlers) Verify(c echo.Context) error {
	token := c.Param("identifier")

	username, err := h.accounts.Verify(c.Request().Context(), token)
	if err != nil {
		slog.Warn("account verification failed", "error", err)
		return c.Redirect(http.StatusSeeOther, "/")
	}

	cookie, err := h.sessions.Create(username)
	if err != nil {
		slog.Error("failed to create session", "email", username, "error", err)
		return c.Redirect(http.StatusSeeOther, "/")
	}
	c.SetCookie(cookie)

	return c.Redirect(http.StatusSeeOther, "/")
}

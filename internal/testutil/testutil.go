// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/iteratehackerspace/silicondzor/internal/database"
	"github.com/iteratehackerspace/silicondzor/internal/models"
	"github.com/iteratehackerspace/silicondzor/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestAccount creates an account row, optionally verified.
func NewTestAccount(t *testing.T, repo *repository.Repository, email, hashedPassword string, verified bool) *models.Account {
	t.Helper()
	ctx := context.Background()
	err := repo.CreateAccount(ctx, email, hashedPassword)
	require.NoError(t, err)
	if verified {
		require.NoError(t, repo.MarkAccountVerified(ctx, email))
	}
	account, err := repo.GetAccountByEmail(ctx, email)
	require.NoError(t, err)
	return account
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequestWithCookies creates a request carrying the given cookies.
func NewRequestWithCookies(method, path string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// MailRecorder is a Mailer that records sent verification tokens.
type MailRecorder struct {
	mu   sync.Mutex
	Sent []SentMail
	Fail error
}

// SentMail is one recorded dispatch.
type SentMail struct {
	To    string
	Token string
}

// SendVerification records the dispatch, or fails with the configured error.
func (m *MailRecorder) SendVerification(_ context.Context, toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.Sent = append(m.Sent, SentMail{To: toEmail, Token: token})
	return nil
}

// LastToken returns the token of the most recent dispatch.
func (m *MailRecorder) LastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Sent)
	return m.Sent[len(m.Sent)-1].Token
}

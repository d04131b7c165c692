// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/iteratehackerspace/silicondzor/internal/config"
	"github.com/iteratehackerspace/silicondzor/internal/handlers"
	"github.com/iteratehackerspace/silicondzor/internal/registry"
	"github.com/iteratehackerspace/silicondzor/internal/repository"
	"github.com/iteratehackerspace/silicondzor/internal/services/account"
	"github.com/iteratehackerspace/silicondzor/internal/services/credentials"
	"github.com/iteratehackerspace/silicondzor/internal/services/session"
	"github.com/iteratehackerspace/silicondzor/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testHashKey for the session manager in tests
const testHashKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type authFixture struct {
	handlers *handlers.AuthHandlers
	repo     *repository.Repository
	sessions *session.Manager
	mail     *testutil.MailRecorder
	echo     *echo.Echo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	_, repo := testutil.NewTestDB(t)

	reg := registry.New(time.Hour)
	t.Cleanup(reg.Close)

	sessions, err := session.NewManager(&config.SessionConfig{
		CookieName: "_test_session",
		MaxAge:     3600,
		HashKey:    testHashKey,
	}, false)
	require.NoError(t, err)

	mail := &testutil.MailRecorder{}
	accounts := account.NewService(repo, reg, credentials.New(bcrypt.MinCost), mail)

	return &authFixture{
		handlers: handlers.NewAuth(accounts, sessions),
		repo:     repo,
		sessions: sessions,
		mail:     mail,
		echo:     echo.New(),
	}
}

// register runs a registration request and requires it to succeed.
func (f *authFixture) register(t *testing.T, username, password string) {
	t.Helper()
	body := strings.NewReader(`{"username":"` + username + `","password":"` + password + `"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/new-account", body)
	require.NoError(t, f.handlers.Register(c))
	require.Contains(t, rec.Body.String(), `"ok"`)
}

// verify visits the verification link for the last sent token.
func (f *authFixture) verify(t *testing.T) {
	t.Helper()
	c, _ := testutil.NewEchoContext(f.echo, http.MethodGet, "/", nil)
	c.SetParamNames("identifier")
	c.SetParamValues(f.mail.LastToken(t))
	require.NoError(t, f.handlers.Verify(c))
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)

	body := strings.NewReader(`{"username":"alice@example.com","password":"pw123"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/new-account", body)

	err := f.handlers.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Len(t, f.mail.Sent, 1)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "pw123")

	body := strings.NewReader(`{"username":"alice@example.com","password":"pw123"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/new-account", body)

	err := f.handlers.Register(c)

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"fail","reason":"invalid_username_already_picked"}`, rec.Body.String())
}

func TestRegister_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	body := strings.NewReader(`{"username":"alice@example.com"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/new-account", body)

	err := f.handlers.Register(c)

	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"fail"`)
	assert.Empty(t, f.mail.Sent)
}

func TestVerify(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "pw123")

	c, rec := testutil.NewEchoContext(f.echo, http.MethodGet, "/", nil)
	c.SetParamNames("identifier")
	c.SetParamValues(f.mail.LastToken(t))

	err := f.handlers.Verify(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	// The browser is logged in right away.
	res := rec.Result()
	require.NotEmpty(t, res.Cookies())
	req := testutil.NewRequestWithCookies(http.MethodGet, "/", res.Cookies())
	sess := f.sessions.Get(req)
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, "alice@example.com", sess.Username)

	// And the account is durably verified.
	acct, err := f.repo.GetAccountByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, acct.Verified())
}

func TestVerify_UnknownToken_FailsOpen(t *testing.T) {
	f := newAuthFixture(t)

	c, rec := testutil.NewEchoContext(f.echo, http.MethodGet, "/", nil)
	c.SetParamNames("identifier")
	c.SetParamValues("never-issued")

	err := f.handlers.Verify(c)

	// Still a plain redirect, no error surfaced to the browser.
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignIn(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "pw123")
	f.verify(t)

	body := strings.NewReader(`{"username":"alice@example.com","password":"pw123"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/sign-in", body)

	err := f.handlers.SignIn(c)

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req := testutil.NewRequestWithCookies(http.MethodGet, "/", rec.Result().Cookies())
	sess := f.sessions.Get(req)
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, "alice@example.com", sess.Username)
}

func TestSignIn_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "pw123")
	f.verify(t)

	body := strings.NewReader(`{"username":"alice@example.com","password":"wrong"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/sign-in", body)

	err := f.handlers.SignIn(c)

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"fail","reason":"invalid_credentials"}`, rec.Body.String())
}

func TestSignIn_BeforeVerification(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "pw123")

	body := strings.NewReader(`{"username":"alice@example.com","password":"pw123"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/sign-in", body)

	err := f.handlers.SignIn(c)

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"fail","reason":"invalid_email"}`, rec.Body.String())
}

func TestSignIn_UnknownAccountSameReason(t *testing.T) {
	f := newAuthFixture(t)

	body := strings.NewReader(`{"username":"nobody@example.com","password":"pw123"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/sign-in", body)

	err := f.handlers.SignIn(c)

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"fail","reason":"invalid_email"}`, rec.Body.String())
}

func TestSignIn_FailedAttemptClearsSession(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "pw123")
	f.verify(t)

	// Browser already holds a logged-in session.
	cookie, err := f.sessions.Create("alice@example.com")
	require.NoError(t, err)

	body := strings.NewReader(`{"username":"alice@example.com","password":"wrong"}`)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodPost, "/sign-in", body)
	c.Request().AddCookie(cookie)

	err = f.handlers.SignIn(c)

	require.NoError(t, err)

	// The only cookie set is the clearing one; following it leaves the
	// browser logged out.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

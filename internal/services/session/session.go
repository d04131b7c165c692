// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session manages the signed browser session cookie.
package session

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"

	"github.com/iteratehackerspace/silicondzor/internal/config"
)

// Session is the per-browser state carried in the signed cookie.
type Session struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username"`
}

// Manager signs and verifies session cookies.
type Manager struct {
	codec      *securecookie.SecureCookie
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager creates a session manager. The hash key must be a hex-encoded
// 32-byte value; the block key is optional and enables cookie encryption.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := decodeKey(cfg.HashKey, "session hash key")
	if err != nil {
		return nil, err
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey, err = decodeKey(cfg.BlockKey, "session block key")
		if err != nil {
			return nil, err
		}
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)

	return &Manager{
		codec:      codec,
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     secure,
	}, nil
}

func decodeKey(value, name string) ([]byte, error) {
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid %s: must be 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

// Get decodes the session from the request cookie. A missing, expired or
// tampered cookie yields the zero session, never an error.
func (m *Manager) Get(r *http.Request) Session {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return Session{}
	}

	var sess Session
	if err := m.codec.Decode(m.cookieName, cookie.Value, &sess); err != nil {
		return Session{}
	}
	return sess
}

// Create issues a logged-in session cookie for the given username.
func (m *Manager) Create(username string) (*http.Cookie, error) {
	value, err := m.codec.Encode(m.cookieName, Session{LoggedIn: true, Username: username})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear returns an expired cookie that logs the browser out. Sign-in always
// sets this before evaluating credentials so a failed attempt never leaves a
// stale authenticated session behind.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

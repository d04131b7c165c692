// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package registry holds pending registrations that await email confirmation.
//
// Entries live in process memory only. Instead of tracking a deadline per
// entry, the whole map is replaced with an empty one on a fixed interval, so
// a verification link is good for at most one sweep interval.
package registry

import (
	"errors"
	"sync"
	"time"
)

// DefaultSweepInterval is how long verification links stay valid at most.
const DefaultSweepInterval = time.Hour

// ErrTokenNotFound is returned when a token is unknown or already swept.
var ErrTokenNotFound = errors.New("verification token not found")

// Registry maps one-time verification tokens to the email address that
// requested them. Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	pending map[string]string
	done    chan struct{}
	once    sync.Once
}

// New creates a Registry and starts its sweep goroutine. Close must be
// called to stop it.
func New(sweepInterval time.Duration) *Registry {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	r := &Registry{
		pending: make(map[string]string),
		done:    make(chan struct{}),
	}
	go r.sweep(sweepInterval)
	return r
}

// Put records a pending registration. Tokens carry enough entropy that a
// collision is not defended against; an existing entry is overwritten.
func (r *Registry) Put(token, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[token] = username
}

// Resolve looks up the username behind a token. The entry is left in place;
// callers delete it explicitly once verification has been persisted.
func (r *Registry) Resolve(token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	username, ok := r.pending[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	return username, nil
}

// Delete removes a pending registration by its token.
func (r *Registry) Delete(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, token)
}

// Len returns the number of pending registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Close stops the sweep goroutine. Pending entries are left untouched.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })
}

// sweep drops every pending registration each interval. The map is replaced
// wholesale rather than iterated, so in-flight Put/Resolve/Delete calls only
// ever race on the map pointer swap, which happens under the lock.
func (r *Registry) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			r.pending = make(map[string]string)
			r.mu.Unlock()
		case <-r.done:
			return
		}
	}
}

// Package auth implements the dashboard's e-mail allow-list login and the
// per-visitor session context passed to every view.
//
// There is no password and no verification step: knowing an allowed
// address is enough to log in.
package auth

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrUnknownEmail    = errors.New("invalid user email")
	ErrEmailExists     = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Directory is the in-memory allow-list of e-mail addresses. Sign-ups last
// for the life of the process.
type Directory struct {
	mu     sync.RWMutex
	emails map[string]struct{}
}

// NewDirectory seeds the allow-list.
func NewDirectory(emails []string) *Directory {
	d := &Directory{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if e = normalize(e); e != "" {
			d.emails[e] = struct{}{}
		}
	}
	return d
}

// Contains reports whether email is allowed.
func (d *Directory) Contains(email string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.emails[normalize(email)]
	return ok
}

// SignUp adds email to the allow-list.
func (d *Directory) SignUp(email string) error {
	email = normalize(email)
	if email == "" {
		return ErrEmptyEmail
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.emails[email]; ok {
		return ErrEmailExists
	}
	d.emails[email] = struct{}{}
	return nil
}

// Len returns the number of allowed addresses.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.emails)
}

func normalize(email string) string {
	return strings.TrimSpace(email)
}

// Package auth models admin access as an explicit capability instead of the
// ambient logged-in flag the original form kept in session storage. Admin
// operations require a Session; how operators obtain credentials stays outside
// this service.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"
)

// ErrUnauthorized is returned when a presented token grants no session.
var ErrUnauthorized = errors.New("unauthorized")

// Session is the capability passed into admin operations. Holding a valid
// Session is the only way to change a submission's status.
type Session struct {
	Operator string
	IssuedAt time.Time
}

// TokenVerifier exchanges a bearer token for a Session. The production
// deployment fronts this with a real identity provider; the server ships a
// static verifier for the single-operator setup.
type TokenVerifier interface {
	Verify(token string) (*Session, error)
}

// StaticTokenVerifier accepts one pre-shared operator token.
type StaticTokenVerifier struct {
	token    string
	operator string
}

// NewStaticTokenVerifier creates a verifier for a single pre-shared token.
func NewStaticTokenVerifier(token, operator string) *StaticTokenVerifier {
	return &StaticTokenVerifier{token: token, operator: operator}
}

// Verify returns a Session when the token matches.
func (v *StaticTokenVerifier) Verify(token string) (*Session, error) {
	if v.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return nil, ErrUnauthorized
	}
	return &Session{
		Operator: v.operator,
		IssuedAt: time.Now(),
	}, nil
}

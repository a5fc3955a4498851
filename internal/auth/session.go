// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTokenMissing is returned when the request has no token.
	ErrTokenMissing = errors.New("auth: token missing")

	// ErrTokenInvalid is returned when no user holds the token.
	ErrTokenInvalid = errors.New("auth: token invalid")

	// ErrTokenExpired is returned when the token's validade has passed.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrInvalidCredentials is returned by Login for an unknown user or a
	// wrong password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

type contextKey string

const sessionContextKey contextKey = "session"

// Session is the authenticated curator of a request.
type Session struct {
	UserURI     string    `json:"user_uri"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Permissions []string  `json:"permissions"`
}

// IsExpired reports whether the token has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// HasPermission reports whether the session holds permission, ignoring case.
func (s *Session) HasPermission(permission string) bool {
	for _, p := range s.Permissions {
		if strings.EqualFold(p, permission) {
			return true
		}
	}
	return false
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFromContext returns the session stored by RequireToken.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	return s, ok && s != nil
}

// naiveLayouts are accepted for validade values written without a zone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseValidity parses a validade value. RFC 3339 values (including a "Z"
// suffix) carry their own zone; naive ISO timestamps are read in loc.
func ParseValidity(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("auth: unrecognized validade %q", s)
}

// splitPermissions splits a GROUP_CONCAT result and drops blanks and
// duplicates.
func splitPermissions(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

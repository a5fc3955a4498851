// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"short", "abc", "***"},
		{"uuid", "3f2a9c1e-1111-2222-3333-444455556666", "3f2a...6666"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeToken(tt.in); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"normal", "maria.silva@ueg.br", "ma***@ueg.br"},
		{"short local", "ab@ueg.br", "***@ueg.br"},
		{"no at", "maria", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeEmail(tt.in); got != tt.want {
				t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSecurityLogger_LoginFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sl := NewSecurityLoggerWithLogger(NewTestLogger(&buf))
	sl.LogLoginFailure("maria.silva@ueg.br", "acervo", "10.0.0.1", "bad\ncredentials")

	out := buf.String()
	for _, want := range []string{
		`"event":"login_failure"`,
		`"status":"failed"`,
		`"level":"warn"`,
		`"email":"ma***@ueg.br"`,
		`"component":"auth"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
	if strings.Contains(out, "maria.silva") {
		t.Errorf("email leaked into log: %s", out)
	}
}

func TestSecurityLogger_TokenRejected(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sl := NewSecurityLoggerWithLogger(NewTestLogger(&buf))
	sl.LogTokenRejected("3f2a9c1e-1111-2222-3333-444455556666", "10.0.0.2", "expired")

	out := buf.String()
	if !strings.Contains(out, `"token":"3f2a...6666"`) {
		t.Errorf("expected masked token, got: %s", out)
	}
	if !strings.Contains(out, `"reason":"expired"`) {
		t.Errorf("expected reason, got: %s", out)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
	if got := truncateString("abc", 3); got != "abc" {
		t.Errorf("got %q", got)
	}
}

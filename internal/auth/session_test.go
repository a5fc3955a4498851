// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseValidity(t *testing.T) {
	t.Parallel()

	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2026-10-19T12:00:00Z", time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), false},
		{"2026-10-19T12:00:00-03:00", time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC), false},
		{"2026-10-19T12:00:00.123456", time.Date(2026, 10, 19, 12, 0, 0, 123456000, saoPaulo), false},
		{"2026-10-19 12:00:00", time.Date(2026, 10, 19, 12, 0, 0, 0, saoPaulo), false},
		{" 2026-10-19T12:00:00Z ", time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), false},
		{"amanhã", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := ParseValidity(tt.in, saoPaulo)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseValidity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseValidity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseValidityNilLocation(t *testing.T) {
	t.Parallel()

	got, err := ParseValidity("2026-10-19T12:00:00", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("naive value without location should be UTC, got %v", got)
	}
}

func TestSplitPermissions(t *testing.T) {
	t.Parallel()

	got := splitPermissions("admin, curador,,admin , editor")
	if diff := cmp.Diff([]string{"admin", "curador", "editor"}, got); diff != "" {
		t.Errorf("splitPermissions mismatch (-want +got):\n%s", diff)
	}
	if splitPermissions("") != nil {
		t.Error("empty input should give nil")
	}
}

func TestSessionContext(t *testing.T) {
	t.Parallel()

	if _, ok := SessionFromContext(context.Background()); ok {
		t.Error("empty context should have no session")
	}
	s := &Session{UserURI: "http://x/u", Permissions: []string{"Admin"}, ExpiresAt: testNow}
	got, ok := SessionFromContext(WithSession(context.Background(), s))
	if !ok || got != s {
		t.Fatal("session not found in context")
	}
	if !got.HasPermission("admin") || got.HasPermission("editor") {
		t.Error("HasPermission mismatch")
	}
	if got.IsExpired(testNow) || !got.IsExpired(testNow.Add(time.Second)) {
		t.Error("IsExpired boundary mismatch")
	}
}

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package media

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alisoncf/guara/internal/logging"
)

func journalIntent(t *testing.T, j *BadgerJournal, file string) string {
	t.Helper()
	id := uuid.NewString()
	err := j.Write(context.Background(), id, Intent{
		ObjectID:       "obj",
		File:           file,
		ObjectIRI:      "http://guara.ueg.br/acervo#obj",
		UpdateEndpoint: testEndpoint,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestRecoverFinishesPendingRemoval(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	j := newTestJournal(t)
	writeObjectFile(t, s, "obj", "a.jpg")
	journalIntent(t, j, "a.jpg")
	u := &fakeUnlinker{}

	res, err := NewRecoveryService(j, s, u, time.Hour, 3).Recover(context.Background())
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if res.Pending != 1 || res.Confirmed != 1 {
		t.Errorf("result = %+v", res)
	}
	if u.count() != 1 {
		t.Errorf("unlink calls = %d, want 1", u.count())
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "obj", ExcludedDir, "a.jpg")); err != nil {
		t.Errorf("file not moved: %v", err)
	}
	if pending, _ := j.Pending(context.Background()); len(pending) != 0 {
		t.Errorf("pending after recovery = %d", len(pending))
	}
}

func TestRecoverLogsUnderRemovalCorrelation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	j := newTestJournal(t)
	writeObjectFile(t, s, "obj", "a.jpg")
	err := j.Write(context.Background(), uuid.NewString(), Intent{
		ObjectID:       "obj",
		File:           "a.jpg",
		ObjectIRI:      "http://guara.ueg.br/acervo#obj",
		UpdateEndpoint: testEndpoint,
		CorrelationID:  "corr0042",
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	ctx := logging.ContextWithLogger(context.Background(), logging.NewTestLogger(&buf))
	if _, err := NewRecoveryService(j, s, &fakeUnlinker{}, time.Hour, 3).Recover(ctx); err != nil {
		t.Fatalf("Recover: %v", err)
	}

	var recovered string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "Media removal recovered") {
			recovered = line
		}
	}
	for _, want := range []string{`"component":"media-recovery"`, `"correlation_id":"corr0042"`, `"arquivo":"a.jpg"`} {
		if !strings.Contains(recovered, want) {
			t.Errorf("expected %s in recovery line, got: %s", want, buf.String())
		}
	}
}

func TestRecoverFailureCountsAttempts(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	j := newTestJournal(t)
	journalIntent(t, j, "a.jpg")
	svc := NewRecoveryService(j, s, &fakeUnlinker{err: errors.New("fuseki down")}, time.Hour, 2)

	for i := 0; i < 2; i++ {
		res, err := svc.Recover(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if res.Failed != 1 {
			t.Fatalf("pass %d: result = %+v", i, res)
		}
	}
	res, err := svc.Recover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Abandoned != 1 {
		t.Errorf("third pass = %+v, want abandoned", res)
	}
	if pending, _ := j.Pending(context.Background()); len(pending) != 0 {
		t.Errorf("abandoned entry still pending")
	}
}

func TestRecoverSkipsClaimedEntries(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	j := newTestJournal(t)
	id := journalIntent(t, j, "a.jpg")
	j.TryClaim(id)
	defer j.Release(id)
	u := &fakeUnlinker{}

	res, err := NewRecoveryService(j, s, u, time.Hour, 0).Recover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 || u.count() != 0 {
		t.Errorf("result = %+v, unlink calls = %d", res, u.count())
	}
}

func TestRecoveryServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	j := newTestJournal(t)
	writeObjectFile(t, s, "obj", "a.jpg")
	journalIntent(t, j, "a.jpg")
	svc := NewRecoveryService(j, s, &fakeUnlinker{}, 10*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		pending, _ := j.Pending(context.Background())
		if len(pending) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("pending entry never recovered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}
	if svc.String() != "media-journal-recovery" {
		t.Errorf("String = %s", svc.String())
	}
}

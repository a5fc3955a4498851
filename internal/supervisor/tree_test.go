// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/media"
	"github.com/alisoncf/guara/internal/sparql"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{})
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
	}

	tree = NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	if tree.config.FailureBackoff != time.Second || tree.config.FailureThreshold != 5 {
		t.Errorf("config = %+v", tree.config)
	}
}

func TestSupervisorTree_StartsBothLayers(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	data := newStubService("recovery", 0)
	api := newStubService("http", 0)
	tree.AddDataService(data)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	deadline := time.Now().Add(time.Second)
	for (data.starts.Load() == 0 || api.starts.Load() == 0) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}
	if data.starts.Load() == 0 || api.starts.Load() == 0 {
		t.Errorf("starts: data=%d api=%d", data.starts.Load(), api.starts.Load())
	}
}

func TestSupervisorTree_RestartsFailingServiceOnly(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	failing := newStubService("recovery", 2)
	stable := newStubService("http", 0)
	tree.AddDataService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	done := tree.ServeBackground(ctx)

	deadline := time.Now().Add(250 * time.Millisecond)
	for failing.starts.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if failing.starts.Load() < 3 {
		t.Errorf("failing starts = %d, want >= 3", failing.starts.Load())
	}
	if stable.starts.Load() != 1 {
		t.Errorf("stable starts = %d, want 1", stable.starts.Load())
	}
	<-done
}

type nopUnlinker struct{}

func (nopUnlinker) RemoveMedia(context.Context, string, sparql.IRI, string, string) error { return nil }

func TestSupervisorTree_RunsMediaRecovery(t *testing.T) {
	t.Parallel()

	store, err := media.NewStore(config.MediaConfig{UploadFolder: t.TempDir(), AllowedExtensions: []string{"jpg"}})
	if err != nil {
		t.Fatal(err)
	}
	journal, err := media.OpenJournal(config.JournalConfig{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = journal.Close() }()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	tree.AddDataService(media.NewRecoveryService(journal, store, nopUnlinker{}, 20*time.Millisecond, 3))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v", err)
	}
	if report, err := tree.UnstoppedServiceReport(); err != nil || len(report) != 0 {
		t.Errorf("unstopped services: %v, %v", report, err)
	}
}

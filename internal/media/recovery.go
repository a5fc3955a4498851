// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
	"github.com/alisoncf/guara/internal/sparql"
)

// RecoveryResult summarizes one recovery pass.
type RecoveryResult struct {
	Pending   int
	Confirmed int
	Failed    int
	Abandoned int
	Skipped   int
	Duration  time.Duration
}

// RecoveryService replays pending removals. It implements suture.Service.
type RecoveryService struct {
	journal     Journal
	store       *Store
	unlinker    Unlinker
	interval    time.Duration
	maxAttempts int
}

// NewRecoveryService returns a service that runs a pass at start and then
// every interval. Entries that failed maxAttempts times are dropped; zero
// retries forever.
func NewRecoveryService(journal Journal, store *Store, unlinker Unlinker, interval time.Duration, maxAttempts int) *RecoveryService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &RecoveryService{journal: journal, store: store, unlinker: unlinker, interval: interval, maxAttempts: maxAttempts}
}

// Serve implements suture.Service.
func (s *RecoveryService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Recover(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrJournalClosed) {
				return err
			}
			logging.Error().Err(err).Msg("Media journal recovery failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *RecoveryService) String() string { return "media-journal-recovery" }

// Recover makes one pass over the pending entries.
func (s *RecoveryService) Recover(ctx context.Context) (*RecoveryResult, error) {
	start := time.Now()
	ctx = logging.ContextWithLogger(ctx, logging.LoggerFromContext(ctx).With().Str("component", "media-recovery").Logger())
	entries, err := s.journal.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("get pending entries: %w", err)
	}
	result := &RecoveryResult{Pending: len(entries)}
	if len(entries) > 0 {
		logging.Ctx(ctx).Info().Int("pending_entries", len(entries)).Msg("Media journal recovery found pending entries")
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		if !s.journal.TryClaim(entry.ID) {
			result.Skipped++
			continue
		}
		s.replay(ctx, entry, result)
		s.journal.Release(entry.ID)
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (s *RecoveryService) replay(ctx context.Context, entry *Entry, result *RecoveryResult) {
	log := logging.Ctx(logging.ContextWithCorrelationID(ctx, entry.Intent.CorrelationID)).With().
		Str("entry_id", entry.ID).
		Str("objeto_id", entry.Intent.ObjectID).
		Str("arquivo", entry.Intent.File).
		Int("attempts", entry.Attempts).
		Logger()

	if s.maxAttempts > 0 && entry.Attempts >= s.maxAttempts {
		if err := s.journal.Drop(ctx, entry.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to drop abandoned journal entry")
		}
		metrics.JournalRecovered.WithLabelValues("abandoned").Inc()
		result.Abandoned++
		log.Error().Str("last_error", entry.LastError).Msg("Media removal abandoned after max attempts")
		return
	}

	if err := s.finish(ctx, entry.Intent); err != nil {
		if aerr := s.journal.RecordAttempt(ctx, entry.ID, err.Error()); aerr != nil {
			log.Warn().Err(aerr).Msg("Failed to record journal attempt")
		}
		metrics.JournalRecovered.WithLabelValues("failed").Inc()
		result.Failed++
		log.Warn().Err(err).Msg("Media removal replay failed")
		return
	}
	if err := s.journal.Confirm(ctx, entry.ID); err != nil && !errors.Is(err, ErrEntryNotFound) {
		log.Warn().Err(err).Msg("Failed to confirm journal entry")
	}
	metrics.JournalRecovered.WithLabelValues("confirmed").Inc()
	result.Confirmed++
	log.Info().Msg("Media removal recovered")
}

// finish repeats both steps. The unlink may have happened before a crash
// and deleting an absent triple is a no-op.
func (s *RecoveryService) finish(ctx context.Context, in Intent) error {
	object, err := sparql.NewIRI(in.ObjectIRI)
	if err != nil {
		return err
	}
	if err := s.unlinker.RemoveMedia(ctx, in.UpdateEndpoint, object, in.MediaIRI, in.File); err != nil {
		return err
	}
	_, err = s.store.MoveToExcluded(in.ObjectID, in.File)
	return err
}

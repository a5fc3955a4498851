// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
	"github.com/alisoncf/guara/internal/sparql"
)

// ErrMovePending is returned when the triple is gone but the file could not
// be moved yet. The journal keeps the intent and the move is retried.
var ErrMovePending = errors.New("media: file move pending")

// Unlinker deletes the schema:associatedMedia triple(s) of a file.
type Unlinker interface {
	RemoveMedia(ctx context.Context, updateEndpoint string, object sparql.IRI, mediaIRI, fileName string) error
}

// RemoveRequest names the file to remove and where its link lives.
type RemoveRequest struct {
	ObjectID       string
	File           string
	ObjectIRI      sparql.IRI
	MediaIRI       string
	UpdateEndpoint string
}

// RemoveResult is returned for a completed removal.
type RemoveResult struct {
	File    string `json:"arquivo"`
	MovedTo string `json:"moved_to"`
	Already bool   `json:"already"`
}

// Remover runs the journaled unlink-then-move sequence.
type Remover struct {
	store    *Store
	journal  Journal
	unlinker Unlinker
}

// NewRemover returns a Remover.
func NewRemover(store *Store, journal Journal, unlinker Unlinker) *Remover {
	return &Remover{store: store, journal: journal, unlinker: unlinker}
}

// Remove unlinks req.File from its object and then moves it to excluidos.
// The file is never moved unless the unlink succeeded.
func (r *Remover) Remove(ctx context.Context, req RemoveRequest) (*RemoveResult, error) {
	if _, err := r.store.Dir(req.ObjectID); err != nil {
		return nil, err
	}
	if !safeSegment(req.File) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFileName, req.File)
	}
	log := logging.Ctx(ctx).With().Str("objeto_id", req.ObjectID).Str("arquivo", req.File).Logger()

	intent := Intent{
		ObjectID:       req.ObjectID,
		File:           req.File,
		ObjectIRI:      req.ObjectIRI.Value(),
		MediaIRI:       req.MediaIRI,
		UpdateEndpoint: req.UpdateEndpoint,
		CorrelationID:  logging.CorrelationIDFromContext(ctx),
	}
	// Claimed before the write so a recovery pass cannot replay it mid-request.
	id := uuid.NewString()
	if !r.journal.TryClaim(id) {
		return nil, fmt.Errorf("journal removal: entry %s already claimed", id)
	}
	defer r.journal.Release(id)
	if err := r.journal.Write(ctx, id, intent); err != nil {
		return nil, fmt.Errorf("journal removal: %w", err)
	}

	if err := r.unlinker.RemoveMedia(ctx, req.UpdateEndpoint, req.ObjectIRI, req.MediaIRI, req.File); err != nil {
		metrics.RecordMediaRemoval("sparql_failed")
		if derr := r.journal.Drop(context.WithoutCancel(ctx), id); derr != nil {
			log.Warn().Err(derr).Str("entry_id", id).Msg("Failed to drop journal entry")
		}
		return nil, err
	}

	moved, err := r.store.MoveToExcluded(req.ObjectID, req.File)
	if err != nil {
		metrics.RecordMediaRemoval("move_pending")
		if aerr := r.journal.RecordAttempt(context.WithoutCancel(ctx), id, err.Error()); aerr != nil {
			log.Warn().Err(aerr).Str("entry_id", id).Msg("Failed to record journal attempt")
		}
		log.Error().Err(err).Str("entry_id", id).Msg("Media unlinked but file move failed; will retry")
		return nil, fmt.Errorf("%w: %w", ErrMovePending, err)
	}

	if err := r.journal.Confirm(context.WithoutCancel(ctx), id); err != nil {
		// Replays are harmless; recovery will confirm it.
		log.Warn().Err(err).Str("entry_id", id).Msg("Failed to confirm journal entry")
	}
	if moved.Already {
		metrics.RecordMediaRemoval("already")
	} else {
		metrics.RecordMediaRemoval("moved")
	}
	log.Info().Str("moved_to", moved.Path).Bool("already", moved.Already).Msg("Media removed")
	return &RemoveResult{File: req.File, MovedTo: moved.Path, Already: moved.Already}, nil
}

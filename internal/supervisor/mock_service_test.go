// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// stubService counts its runs and can fail a given number of times before
// running until canceled.
type stubService struct {
	name   string
	fails  int32
	starts atomic.Int32
}

func newStubService(name string, fails int32) *stubService {
	return &stubService{name: name, fails: fails}
}

func (s *stubService) Serve(ctx context.Context) error {
	if n := s.starts.Add(1); n <= s.fails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

// Package services adapts long-running gateway components to suture v4's
// Serve(ctx) error contract. HTTPServerService turns http.Server's
// ListenAndServe and Shutdown pair into one supervised service.
package services

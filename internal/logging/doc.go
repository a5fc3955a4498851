// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

// Package logging is the zerolog layer every Guara package logs through.
//
// JSON output is the production format; console output is meant for a
// terminal. The global logger is configured once at startup:
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("endpoint", endpoint).Msg("SPARQL update")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Associated media query failed")
//
// # Request context
//
// The request ID middleware stores its ID with ContextWithRequestID, and
// Ctx(ctx) returns a logger carrying it, so every line written while
// serving a request can be joined with the request_id of its error body.
//
// # Supervisor logs
//
// NewSlogLogger returns a log/slog logger backed by zerolog. It is handed
// to sutureslog so supervisor events land in the same stream.
//
// # Sensitive values
//
// SecurityLogger records login and token events. Tokens and e-mail
// addresses are masked with SanitizeToken and SanitizeEmail, and request
// values are passed through SanitizeLogValue to escape control characters.
package logging

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package supervisor runs the gateway's long-lived services under suture v4.

	guara
	├── data-layer
	│   └── media-journal-recovery
	└── api-layer
	    └── http-server

Each layer restarts its own services with exponential backoff, so a failing
journal pass never takes the listener down. Supervisor events are logged
through sutureslog onto the zerolog-backed slog logger from
internal/logging.

Usage:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(recovery)
	tree.AddAPIService(services.NewHTTPServerService(server, addr, timeout))
	err := tree.Serve(ctx)
*/
package supervisor

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package authz adds optional role-based authorization on top of the token
check, using Casbin.

The roles of a request are the permissions stored for the curator
(usr:temPermissao) and carried by its auth.Session. The object is the
request path and the action is derived from the method:

	GET, HEAD, OPTIONS -> read
	POST, PUT, PATCH   -> write
	DELETE             -> delete

The embedded model is RBAC with keyMatch2 path patterns. The embedded
policy grants admin every action and curador read, write and delete.
Editor inherits curador:

	p, admin, /*, *
	p, curador, /*, read
	p, curador, /*, write
	p, curador, /*, delete
	g, editor, curador

Deployments may replace either file with authz.model_path and
authz.policy_path. Decisions are cached per role, path and action.

Usage:

	enf, err := authz.NewEnforcer(cfg.Authz)
	if err != nil {
	    return err
	}
	r.With(tokens.RequireToken, authz.NewMiddleware(enf).Authorize).Post("/dim/create", h.CreateObject)
*/
package authz

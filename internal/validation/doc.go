// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

// Package validation validates request structs with go-playground/validator.
//
// A single validator instance is shared by all handlers. Besides the
// built-in tags it registers:
//
//	endpoint   absolute http(s) URL (request-supplied SPARQL endpoints)
//	iri        absolute IRI safe to place inside <...>
//	localname  IRI local name used to mint class and user IRIs
//	segment    single directory name under the upload folder
//	coords     "lat,lon"
//
// Error field names come from json tags so messages match what clients send:
//
//	type createRequest struct {
//	    Titulo   string `json:"titulo" validate:"required"`
//	    Endpoint string `json:"repository_update_url" validate:"required,endpoint"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // verr.FirstMessage() == "titulo is required"
//	}
package validation

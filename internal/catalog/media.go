// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package catalog

import (
	"context"
	"strings"

	"github.com/alisoncf/guara/internal/sparql"
)

// AssociatedMedia returns ?objeto_associado_uri ?media_uri rows for the
// schema:associatedMedia values of object.
func (s *Service) AssociatedMedia(ctx context.Context, endpoint string, object sparql.IRI) (*sparql.Results, error) {
	owner, media := sparql.V("objeto_associado_uri"), sparql.V("media_uri")
	q := sparql.Select{
		Prefixes:   s.prefixes,
		Projection: []sparql.Projection{owner, media},
		Where: sparql.Where(
			sparql.T(object, sparql.SchemaAssocMedia, media),
			sparql.Bind{Expr: sparql.E(object), As: owner},
		),
	}
	return s.client.Select(ctx, endpoint, q.String())
}

// AddMedia links each media IRI to object.
func (s *Service) AddMedia(ctx context.Context, updateEndpoint string, object sparql.IRI, media ...string) error {
	if len(media) == 0 {
		return nil
	}
	triples := make([]sparql.Triple, 0, len(media))
	for _, m := range media {
		iri, err := iriField(strings.TrimSpace(m), "links")
		if err != nil {
			return err
		}
		triples = append(triples, sparql.T(object, sparql.SchemaAssocMedia, iri))
	}
	update := sparql.InsertData{Prefixes: s.prefixes, Triples: triples}
	return s.client.Update(ctx, updateEndpoint, update.String())
}

// RemoveMedia deletes the association between object and a media file.
// With a media IRI exactly that triple goes; otherwise every associated
// media whose IRI ends in "/"+fileName is removed.
func (s *Service) RemoveMedia(ctx context.Context, updateEndpoint string, object sparql.IRI, mediaIRI, fileName string) error {
	if mediaIRI != "" {
		iri, err := iriField(mediaIRI, "media_uri")
		if err != nil {
			return err
		}
		return s.RemoveTriple(ctx, updateEndpoint, sparql.T(object, sparql.SchemaAssocMedia, iri))
	}
	m := sparql.V("media")
	update := sparql.Modify{
		Prefixes: s.prefixes,
		Delete:   []sparql.Triple{sparql.T(object, sparql.SchemaAssocMedia, m)},
		Where: sparql.Where(
			sparql.T(object, sparql.SchemaAssocMedia, m),
			sparql.Filter{Expr: sparql.StrEnds(sparql.Str(m), sparql.E(sparql.NewLiteral("/"+fileName)))},
		),
	}
	return s.client.Update(ctx, updateEndpoint, update.String())
}

// MediaFileName returns the last path segment of a media IRI.
func MediaFileName(iri string) string {
	iri = strings.TrimRight(iri, "/")
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

// Package catalog holds the collection queries and updates: classes,
// physical and dimensional objects, relations, repositories and media
// associations. Every statement is built with internal/sparql; callers pass
// plain strings and get either the upstream answer or a typed error back.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/sparql"
)

var (
	// ErrClassInUse is returned when deleting a class that still has
	// subclasses.
	ErrClassInUse = errors.New("catalog: class has subclasses")

	// ErrInvalidInput wraps term construction failures caused by request
	// data, such as an IRI with spaces.
	ErrInvalidInput = errors.New("catalog: invalid input")

	// ErrNotFound is returned when a lookup has no result.
	ErrNotFound = errors.New("catalog: not found")
)

// Client is the subset of *sparql.Client the catalog needs.
type Client interface {
	Query(ctx context.Context, endpoint, query string) (*sparql.Response, error)
	Select(ctx context.Context, endpoint, query string) (*sparql.Results, error)
	Ask(ctx context.Context, endpoint, query string) (bool, error)
	Update(ctx context.Context, endpoint, update string) error
}

// Service runs catalog statements against Fuseki.
type Service struct {
	client   Client
	sparql   config.SPARQLConfig
	prefixes sparql.Prefixes
	repoBase string

	// summary is written for an object's resumo; reads accept both
	// dc:abstract and dc:subject.
	summary sparql.PrefixedName
}

// New returns a Service using the configured endpoints and namespaces.
func New(client Client, sparqlCfg config.SPARQLConfig, ontology config.OntologyConfig) (*Service, error) {
	prefixes, err := sparql.NewPrefixes(ontology.BaseObjectNamespace)
	if err != nil {
		return nil, fmt.Errorf("catalog: object namespace: %w", err)
	}
	summary := sparql.DCAbstract
	if ontology.SummaryPredicate != "" {
		pn, err := sparql.NewPrefixedName(ontology.SummaryPredicate)
		if err != nil {
			return nil, fmt.Errorf("catalog: summary predicate: %w", err)
		}
		summary = pn
	}
	return &Service{
		client:   client,
		sparql:   sparqlCfg,
		prefixes: prefixes,
		repoBase: ontology.PrefixBaseRepo,
		summary:  summary,
	}, nil
}

// Prefixes returns the standard prefix table with the configured object
// namespace.
func (s *Service) Prefixes() sparql.Prefixes { return s.prefixes }

// datasetPrefixes binds the empty prefix to "<dataset>#", the namespace the
// collection editor uses for local names such as :Vaso.
func (s *Service) datasetPrefixes(dataset string) (sparql.Prefixes, error) {
	ns, err := sparql.NewIRI(strings.TrimRight(dataset, "/#") + "#")
	if err != nil {
		return nil, invalid("repository", err)
	}
	return s.prefixes.With("", ns), nil
}

// ObjectIRI joins a repository base URI and a local id. A base not ending in
// '#' or '/' gets a '#'.
func ObjectIRI(base, id string) (sparql.IRI, error) {
	if !strings.HasSuffix(base, "#") && !strings.HasSuffix(base, "/") {
		base += "#"
	}
	iri, err := sparql.NewIRI(base + id)
	if err != nil {
		return sparql.IRI{}, invalid("id", err)
	}
	return iri, nil
}

// resolveIRI accepts a full IRI or, when value has no "://", a local id
// under base.
func resolveIRI(value, base, field string) (sparql.IRI, error) {
	if strings.Contains(value, "://") {
		iri, err := sparql.NewIRI(value)
		if err != nil {
			return sparql.IRI{}, invalid(field, err)
		}
		return iri, nil
	}
	if base == "" {
		return sparql.IRI{}, fmt.Errorf("%w: %s is a local id and repository_base_uri is missing", ErrInvalidInput, field)
	}
	return ObjectIRI(base, value)
}

func iriField(value, field string) (sparql.IRI, error) {
	iri, err := sparql.NewIRI(value)
	if err != nil {
		return sparql.IRI{}, invalid(field, err)
	}
	return iri, nil
}

// FieldError names the request field that produced an invalid term.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() []error { return []error{ErrInvalidInput, e.Err} }

func invalid(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// summaryPatterns binds ?resumo to COALESCE(dc:abstract, dc:subject).
func summaryPatterns(subject sparql.Term, resumo sparql.Var) []sparql.Pattern {
	abstract, legacy := sparql.V("abstract_"), sparql.V("subject_")
	return []sparql.Pattern{
		sparql.Opt(sparql.T(subject, sparql.DCAbstract, abstract)),
		sparql.Opt(sparql.T(subject, sparql.DCSubject, legacy)),
		sparql.Bind{Expr: sparql.Coalesce(sparql.E(abstract), sparql.E(legacy)), As: resumo},
	}
}

// regexpLiteral quotes keyword so REGEX matches it literally.
func regexpLiteral(keyword string) string {
	return regexp.QuoteMeta(keyword)
}

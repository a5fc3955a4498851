// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Results is the application/sparql-results+json document.
type Results struct {
	Head    Head      `json:"head"`
	Boolean *bool     `json:"boolean,omitempty"`
	Results *Bindings `json:"results,omitempty"`
}

// Head lists the projected variables.
type Head struct {
	Vars []string `json:"vars,omitempty"`
	Link []string `json:"link,omitempty"`
}

// Bindings holds the solution sequence.
type Bindings struct {
	Bindings []Binding `json:"bindings"`
}

// Binding is one solution, keyed by variable name.
type Binding map[string]Value

// Value is one bound RDF term.
type Value struct {
	Type     string `json:"type"` // uri, literal, bnode or typed-literal
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Get returns the value bound to name, or "".
func (b Binding) Get(name string) string {
	return b[name].Value
}

// Has reports whether name is bound.
func (b Binding) Has(name string) bool {
	_, ok := b[name]
	return ok
}

// IsURI reports whether name is bound to an IRI.
func (b Binding) IsURI(name string) bool {
	return b[name].Type == "uri"
}

// Rows returns the solutions, or nil for ASK results.
func (r *Results) Rows() []Binding {
	if r == nil || r.Results == nil {
		return nil
	}
	return r.Results.Bindings
}

// ParseResults decodes a SPARQL JSON results document.
func ParseResults(body []byte) (*Results, error) {
	var r Results
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("sparql: decode results: %w", err)
	}
	return &r, nil
}

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseResults(t *testing.T) {
	t.Parallel()

	body := []byte(`{
	  "head": {"vars": ["obj", "titulo"]},
	  "results": {"bindings": [
	    {"obj": {"type": "uri", "value": "http://x/1"},
	     "titulo": {"type": "literal", "xml:lang": "pt", "value": "Vaso"}},
	    {"obj": {"type": "uri", "value": "http://x/2"}}
	  ]}
	}`)

	res, err := ParseResults(body)
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}
	want := []Binding{
		{"obj": {Type: "uri", Value: "http://x/1"}, "titulo": {Type: "literal", Value: "Vaso", Lang: "pt"}},
		{"obj": {Type: "uri", Value: "http://x/2"}},
	}
	if diff := cmp.Diff(want, res.Rows()); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}
	if res.Rows()[1].Has("titulo") || res.Rows()[1].Get("titulo") != "" {
		t.Error("unbound variable reported as bound")
	}
	if res.Boolean != nil {
		t.Error("SELECT result has boolean")
	}
}

func TestParseResultsAsk(t *testing.T) {
	t.Parallel()

	res, err := ParseResults([]byte(`{"head":{},"boolean":false}`))
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}
	if res.Boolean == nil || *res.Boolean {
		t.Errorf("Boolean = %v", res.Boolean)
	}
	if res.Rows() != nil {
		t.Error("ASK result has rows")
	}

	if _, err := ParseResults([]byte(`<html>`)); err == nil {
		t.Error("invalid JSON accepted")
	}
}

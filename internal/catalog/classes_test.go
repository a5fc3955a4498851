// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestListClassesKeywordAndOrder(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	if _, err := svc.ListClasses(context.Background(), ClassQuery{Repository: repo, Keyword: "vaso (grego)", OrderBy: "label"}); err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	got := fc.last(t)
	if got.op != "query" || got.endpoint != repo {
		t.Errorf("sent %s to %s", got.op, got.endpoint)
	}
	mustContain(t, got.text,
		"?class a owl:Class .",
		`!(BOUND(?description)) || REGEX(STR(?description), "vaso \\(grego\\)", "i")`,
		"ORDER BY ASC(?label)",
	)
}

func TestListClassesDefaultsToClassOrder(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	if _, err := svc.ListClasses(context.Background(), ClassQuery{Repository: repo, OrderBy: "bogus"}); err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	got := fc.last(t).text
	mustContain(t, got, "ORDER BY ASC(?class)")
	if strings.Contains(got, "FILTER") {
		t.Errorf("blank keyword should not filter:\n%s", got)
	}
}

func TestAddClass(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	iri, err := svc.AddClass(context.Background(), ClassInput{
		Repository: repo,
		Label:      "Vaso Grego",
		Comment:    `Peça "antiga"`,
		SubclassOf: "Ceramica",
	})
	if err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	if iri.Value() != repo+"#Vaso_Grego" {
		t.Errorf("class IRI = %s", iri.Value())
	}
	mustContain(t, fc.last(t).text,
		"INSERT DATA {",
		"<"+repo+"#Vaso_Grego> rdf:type owl:Class .",
		`rdfs:comment "Peça \"antiga\"" .`,
		"rdfs:subClassOf <"+repo+"#Ceramica> .",
	)
}

func TestDeleteClassInUse(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{ask: true}
	svc := newService(t, fc)
	err := svc.DeleteClass(context.Background(), repo, repo+"#Ceramica")
	if !errors.Is(err, ErrClassInUse) {
		t.Fatalf("DeleteClass error = %v, want ErrClassInUse", err)
	}
	if got := fc.last(t); got.op != "ask" {
		t.Errorf("class in use must not be deleted, last op = %s", got.op)
	}
}

func TestDeleteClass(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	if err := svc.DeleteClass(context.Background(), repo, repo+"#Vaso"); err != nil {
		t.Fatalf("DeleteClass: %v", err)
	}
	mustContain(t, fc.last(t).text, "DELETE WHERE {", "<"+repo+"#Vaso> ?p ?o .")
}

func TestDeleteClassRejectsBadIRI(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeClient{})
	err := svc.DeleteClass(context.Background(), repo, "http://x/a> } ; DROP ALL")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

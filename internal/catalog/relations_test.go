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

func TestListRelations(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	if _, err := svc.ListRelations(context.Background(), repo, repo+"#abc", "goiás"); err != nil {
		t.Fatalf("ListRelations: %v", err)
	}
	got := fc.last(t)
	if got.endpoint != repo {
		t.Errorf("endpoint = %s", got.endpoint)
	}
	mustContain(t, got.text,
		`(IF(isIRI(?valor), "URI", "Literal") AS ?tipo_recurso)`,
		`BIND("direta" AS ?direcao)`,
		`BIND("inversa" AS ?direcao)`,
		"?valor dc:title ?titulo .",
		`REGEX(STR(?titulo), "goiás", "i")`,
	)

	if _, err := svc.ListRelations(context.Background(), repo, "abc def", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad id: error = %v", err)
	}
}

func TestAddRelationValueKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind string
		want string
	}{
		{"uri", "URI", "<" + repo + "#abc> <http://purl.org/dc/elements/1.1/relation> <http://x/outro#1> ."},
		{"literal", "literal", "<" + repo + "#abc> <http://purl.org/dc/elements/1.1/relation> \"http://x/outro#1\" ."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fc := &fakeClient{}
			err := newService(t, fc).AddRelation(context.Background(), RelationInput{
				Repository:   repo,
				ID:           "abc",
				Property:     "http://purl.org/dc/elements/1.1/relation",
				Value:        "http://x/outro",
				Complement:   "#1",
				ResourceKind: tt.kind,
			})
			if err != nil {
				t.Fatalf("AddRelation: %v", err)
			}
			got := fc.last(t)
			if got.endpoint != repo {
				t.Errorf("endpoint = %s, want the dataset itself", got.endpoint)
			}
			mustContain(t, got.text, tt.want)
		})
	}
}

func TestDeleteResourceUsesUpdatePath(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	if err := newService(t, fc).DeleteResource(context.Background(), repo, "abc"); err != nil {
		t.Fatalf("DeleteResource: %v", err)
	}
	got := fc.last(t)
	if got.endpoint != repoUpdate {
		t.Errorf("endpoint = %s, want %s", got.endpoint, repoUpdate)
	}
	mustContain(t, got.text, "DELETE WHERE {", "<"+repo+"#abc> ?p ?o .")
}

func TestRemoveRelationExpandsDatasetNames(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	tr, err := newService(t, fc).RemoveRelation(context.Background(), repo, ":abc", "dc:title", `"Vaso"`)
	if err != nil {
		t.Fatalf("RemoveRelation: %v", err)
	}
	want := "<" + repo + `#abc> dc:title "Vaso" .`
	if tr.String() != want {
		t.Errorf("triple = %s, want %s", tr.String(), want)
	}
	got := fc.last(t)
	if got.endpoint != repoUpdate {
		t.Errorf("endpoint = %s", got.endpoint)
	}
	mustContain(t, got.text, "DELETE DATA {", want)
	if strings.Contains(got.text, " :abc ") {
		t.Errorf("empty-prefix name leaked into update:\n%s", got.text)
	}
}

func TestUpdateResource(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	err := newService(t, fc).UpdateResource(context.Background(), ResourceUpdate{
		Repository:  repo,
		ID:          "abc",
		Title:       "Título",
		Description: "Descrição",
		Summary:     "Resumo",
	})
	if err != nil {
		t.Fatalf("UpdateResource: %v", err)
	}
	got := fc.last(t)
	if got.endpoint != repoUpdate {
		t.Errorf("endpoint = %s", got.endpoint)
	}
	mustContain(t, got.text, `dc:title "Título" .`, `dc:description "Descrição" .`, `dc:abstract "Resumo" .`)
}

func TestAddMediaRelation(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	tr, err := newService(t, fc).AddMediaRelation(context.Background(), repo, ":abc", "schema:associatedMedia", "http://host/imagens/abc/f.jpg")
	if err != nil {
		t.Fatalf("AddMediaRelation: %v", err)
	}
	want := "<" + repo + "#abc> schema:associatedMedia <http://host/imagens/abc/f.jpg> ."
	if tr.String() != want {
		t.Errorf("triple = %s", tr.String())
	}
	mustContain(t, fc.last(t).text, "INSERT DATA {", want)
}

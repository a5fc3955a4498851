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

func TestCreateObjectEscapesInput(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	created, err := svc.CreateObject(context.Background(), NewObject{
		UpdateEndpoint:  repoUpdate,
		BaseURI:         repo,
		Type:            "http://guara.ueg.br/ontologias/v1/objetos#Pessoa",
		Title:           "Maria \"Bonita\"\n} DROP ALL {",
		Summary:         `c:\dados`,
		Coordinates:     "-16.68, -49.25",
		Relations:       []string{repo + "#outro"},
		AssociatedMedia: []string{"http://host/imagens/1/a.jpg"},
	})
	if err != nil {
		t.Fatalf("CreateObject: %v", err)
	}
	if !strings.HasPrefix(created.IRI.Value(), repo+"#") || created.ID == "" {
		t.Errorf("created = %+v", created)
	}

	got := fc.last(t)
	if got.endpoint != repoUpdate {
		t.Errorf("endpoint = %s", got.endpoint)
	}
	mustContain(t, got.text,
		"rdf:type <http://guara.ueg.br/ontologias/v1/objetos#Pessoa> .",
		"rdf:type obj:ObjetoDimensional .",
		`dc:title "Maria \"Bonita\"\n} DROP ALL {" .`,
		`dc:abstract "c:\\dados" .`,
		`geo:lat "-16.68" .`,
		`geo:long "-49.25" .`,
		"obj:temRelacao <"+repo+"#outro> .",
		"schema:associatedMedia <http://host/imagens/1/a.jpg> .",
	)
	if strings.Contains(got.text, "dc:description") {
		t.Error("empty description should not be written")
	}
}

func TestCreateObjectRejectsInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    NewObject
		field string
	}{
		{"bad coordinates", NewObject{BaseURI: repo, Type: "http://x/T", Coordinates: "north"}, "coordenadas"},
		{"bad type", NewObject{BaseURI: repo, Type: "not an iri"}, "tipo_uri"},
		{"bad relation", NewObject{BaseURI: repo, Type: "http://x/T", Relations: []string{"http://x/a b"}}, "temRelacao"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fc := &fakeClient{}
			_, err := newService(t, fc).CreateObject(context.Background(), tt.in)
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Fatalf("error = %v, want field %s", err, tt.field)
			}
			if len(fc.calls) != 0 {
				t.Error("nothing should be sent on invalid input")
			}
		})
	}
}

func TestDeleteObject(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	iri, err := svc.DeleteObject(context.Background(), repoUpdate, "abc", repo)
	if err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	if iri.Value() != repo+"#abc" {
		t.Errorf("iri = %s", iri.Value())
	}
	mustContain(t, fc.last(t).text,
		"<"+repo+"#abc> ?p ?o .",
		"?s ?p_inv <"+repo+"#abc> .",
		"UNION",
	)

	if _, err := svc.DeleteObject(context.Background(), repoUpdate, "abc", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("local id without base: error = %v", err)
	}
}

func TestUpdateObjectOptionalFields(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	obj := repo + "#abc"

	_, err := svc.UpdateObject(context.Background(), ObjectUpdate{
		UpdateEndpoint: repoUpdate,
		ObjectIRI:      obj,
		Title:          "Novo",
		Summary:        "Resumo",
	})
	if err != nil {
		t.Fatalf("UpdateObject: %v", err)
	}
	text := fc.last(t).text
	mustContain(t, text, "?anyProp ?anyVal .", "dc:subject ?oldSubject .", `dc:abstract "Resumo" .`)
	if strings.Contains(text, "dc:description") || strings.Contains(text, "geo:lat") {
		t.Errorf("unset fields must be left alone:\n%s", text)
	}

	_, err = svc.UpdateObject(context.Background(), ObjectUpdate{
		UpdateEndpoint: repoUpdate,
		ObjectIRI:      obj,
		Title:          "Novo",
		Summary:        "Resumo",
		DescriptionSet: true,
		CoordinatesSet: true,
	})
	if err != nil {
		t.Fatalf("UpdateObject: %v", err)
	}
	text = fc.last(t).text
	mustContain(t, text, "dc:description ?oldDescription .", "geo:lat ?oldLat .")
	if strings.Contains(text, `dc:description ""`) {
		t.Errorf("empty description should only be removed:\n%s", text)
	}
}

func TestListAllQueryType(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeClient{})
	if q := svc.listAllQuery("QUEM", "").String(); !strings.Contains(q, "?obj a obj:Pessoa .") {
		t.Errorf("quem should filter on obj:Pessoa:\n%s", q)
	}
	if q := svc.listAllQuery("outro", "").String(); strings.Contains(q, "?obj a ") {
		t.Errorf("unknown type should not filter:\n%s", q)
	}
}

func TestListPhysicalObjectsUsesObjectEndpoint(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	if _, err := svc.ListPhysicalObjects(context.Background(), "jarro"); err != nil {
		t.Fatalf("ListPhysicalObjects: %v", err)
	}
	got := fc.last(t)
	if got.endpoint != "http://fuseki:3030/objetos/query" {
		t.Errorf("endpoint = %s", got.endpoint)
	}
	mustContain(t, got.text, "?obj a obj:ObjetoFisico .", `REGEX(STR(?titulo), "jarro", "i")`)
}

func TestParseTriple(t *testing.T) {
	t.Parallel()

	prefixes, err := newService(t, &fakeClient{}).datasetPrefixes(repo)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := ParseTriple(prefixes, ":abc", "<http://purl.org/dc/elements/1.1/title>", `"Vaso"@pt`)
	if err != nil {
		t.Fatalf("ParseTriple: %v", err)
	}
	if got := tr.String(); got != `:abc <http://purl.org/dc/elements/1.1/title> "Vaso"@pt .` {
		t.Errorf("triple = %s", got)
	}

	if _, err := ParseTriple(prefixes, `"literal"`, "dc:title", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("literal subject: error = %v", err)
	}
	if _, err := ParseTriple(prefixes, "<http://x/a b>", "dc:title", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad IRI: error = %v", err)
	}
}

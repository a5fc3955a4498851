// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package catalog

import (
	"context"
	"testing"

	"github.com/alisoncf/guara/internal/sparql"
)

func TestAssociatedMediaQuery(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	obj := sparql.MustIRI(repo + "#abc")
	if _, err := newService(t, fc).AssociatedMedia(context.Background(), repo+"/query", obj); err != nil {
		t.Fatalf("AssociatedMedia: %v", err)
	}
	mustContain(t, fc.last(t).text,
		"SELECT ?objeto_associado_uri ?media_uri WHERE {",
		"<"+repo+"#abc> schema:associatedMedia ?media_uri .",
		"BIND(<"+repo+"#abc> AS ?objeto_associado_uri)",
	)
}

func TestAddMedia(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	obj := sparql.MustIRI(repo + "#abc")
	if err := svc.AddMedia(context.Background(), repoUpdate, obj); err != nil || len(fc.calls) != 0 {
		t.Fatalf("no media should send nothing: err=%v calls=%d", err, len(fc.calls))
	}
	if err := svc.AddMedia(context.Background(), repoUpdate, obj, "http://host/a.jpg", " http://host/b.jpg"); err != nil {
		t.Fatalf("AddMedia: %v", err)
	}
	mustContain(t, fc.last(t).text, "<http://host/a.jpg> .", "<http://host/b.jpg> .")
}

func TestRemoveMedia(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	svc := newService(t, fc)
	obj := sparql.MustIRI(repo + "#abc")

	if err := svc.RemoveMedia(context.Background(), repoUpdate, obj, "http://host/abc/f.jpg", "f.jpg"); err != nil {
		t.Fatalf("RemoveMedia: %v", err)
	}
	mustContain(t, fc.last(t).text, "DELETE DATA {", "schema:associatedMedia <http://host/abc/f.jpg> .")

	if err := svc.RemoveMedia(context.Background(), repoUpdate, obj, "", `f".jpg`); err != nil {
		t.Fatalf("RemoveMedia by name: %v", err)
	}
	mustContain(t, fc.last(t).text, `FILTER(STRENDS(STR(?media), "/f\".jpg"))`)
}

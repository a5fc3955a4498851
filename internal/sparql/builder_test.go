// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectString(t *testing.T) {
	t.Parallel()

	class, label := V("class"), V("label")
	q := Select{
		Distinct:   true,
		Projection: []Projection{class, label},
		Where: Where(
			T(class, A, OWLClass),
			Opt(T(class, RDFSLabel, label)),
			KeywordFilter("vaso", label),
		),
		OrderBy: []Order{Asc(class)},
		Limit:   10,
	}

	want := `SELECT DISTINCT ?class ?label WHERE {
  ?class a owl:Class .
  OPTIONAL {
    ?class rdfs:label ?label .
  }
  FILTER(REGEX(STR(?label), "vaso", "i"))
}
ORDER BY ASC(?class)
LIMIT 10
`
	if diff := cmp.Diff(want, q.String()); diff != "" {
		t.Errorf("Select mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordFilterQuotesRegex(t *testing.T) {
	t.Parallel()

	f := KeywordFilter(`a.b"c`, V("t"), V("d"))
	got := f.(Filter).Expr.String()
	want := `(REGEX(STR(?t), "a\\.b\"c", "i") || REGEX(STR(?d), "a\\.b\"c", "i"))`
	if got != want {
		t.Errorf("KeywordFilter = %s, want %s", got, want)
	}

	if KeywordFilter("   ", V("t")) != nil {
		t.Error("blank keyword should produce no filter")
	}
}

func TestInsertDataEscapesInput(t *testing.T) {
	t.Parallel()

	subject := MustIRI("http://guara.ueg.br/objetos/1")
	hostile := "x\" . } ; DROP ALL ; INSERT DATA { <a> <b> \"c\nd\\"
	q := InsertData{
		Prefixes: Prefixes{{"dc", MustIRI(NSDC)}},
		Triples:  []Triple{T(subject, DCTitle, NewLiteral(hostile))},
	}

	got := q.String()
	want := "PREFIX dc: <http://purl.org/dc/elements/1.1/>\n" +
		"INSERT DATA {\n" +
		`  <http://guara.ueg.br/objetos/1> dc:title "x\" . } ; DROP ALL ; INSERT DATA { <a> <b> \"c\nd\\" .` + "\n" +
		"}\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("InsertData mismatch (-want +got):\n%s", diff)
	}
	if strings.Count(got, "\n") != 4 {
		t.Errorf("literal newline leaked into query text:\n%s", got)
	}
}

func TestModifyString(t *testing.T) {
	t.Parallel()

	s := MustIRI("http://guara.ueg.br/objetos/1")
	old := V("old")
	q := Modify{
		Delete: []Triple{T(s, DCTitle, old)},
		Insert: []Triple{T(s, DCTitle, NewLiteral("Novo"))},
		Where:  Where(Opt(T(s, DCTitle, old))),
	}
	want := `DELETE {
  <http://guara.ueg.br/objetos/1> dc:title ?old .
}
INSERT {
  <http://guara.ueg.br/objetos/1> dc:title "Novo" .
}
WHERE {
  OPTIONAL {
    <http://guara.ueg.br/objetos/1> dc:title ?old .
  }
}
`
	if diff := cmp.Diff(want, q.String()); diff != "" {
		t.Errorf("Modify mismatch (-want +got):\n%s", diff)
	}
}

func TestUnionBindAndAggregates(t *testing.T) {
	t.Parallel()

	id := MustIRI("http://x/1")
	p, o, dir := V("p"), V("o"), V("direcao")
	q := Select{
		Projection: []Projection{p, o, dir, As(GroupConcat(E(V("perm")), ",", true), V("permissoes"))},
		Where: Where(
			Union{
				Group{T(id, p, o), Bind{Expr: E(NewLiteral("saida")), As: dir}},
				Group{T(o, p, id), Bind{Expr: E(NewLiteral("entrada")), As: dir}},
			},
		),
		GroupBy: []Var{p, o, dir},
	}
	got := q.String()
	for _, fragment := range []string{
		`SELECT ?p ?o ?direcao (GROUP_CONCAT(DISTINCT ?perm; separator=",") AS ?permissoes) WHERE {`,
		"  {\n    <http://x/1> ?p ?o .\n    BIND(\"saida\" AS ?direcao)\n  }\n  UNION\n  {\n",
		"GROUP BY ?p ?o ?direcao\n",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("query missing %q:\n%s", fragment, got)
		}
	}
}

func TestAskAndDeleteWhere(t *testing.T) {
	t.Parallel()

	class := MustIRI("http://x/Vaso")
	ask := Ask{Where: Where(T(V("s"), RDFSSubClassOf, class))}
	if got, want := ask.String(), "ASK {\n  ?s rdfs:subClassOf <http://x/Vaso> .\n}\n"; got != want {
		t.Errorf("Ask = %q, want %q", got, want)
	}

	del := DeleteWhere{Triples: []Triple{T(class, V("p"), V("o"))}}
	if got, want := del.String(), "DELETE WHERE {\n  <http://x/Vaso> ?p ?o .\n}\n"; got != want {
		t.Errorf("DeleteWhere = %q, want %q", got, want)
	}
}

func TestNewTriple(t *testing.T) {
	t.Parallel()

	s := MustIRI("http://x/s")
	if _, err := NewTriple(NewLiteral("x"), DCTitle, s); err == nil {
		t.Error("literal subject accepted")
	}
	if _, err := NewTriple(s, NewLiteral("p"), s); err == nil {
		t.Error("literal predicate accepted")
	}
	if _, err := NewTriple(s, nil, s); err == nil {
		t.Error("nil predicate accepted")
	}
	if _, err := NewTriple(s, A, ObjPessoa); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPrefixes(t *testing.T) {
	t.Parallel()

	p, err := NewPrefixes("http://example.org/obj#")
	if err != nil {
		t.Fatal(err)
	}
	iri, ok := p.Expand(MustPN("obj", "Vaso"))
	if !ok || iri.Value() != "http://example.org/obj#Vaso" {
		t.Errorf("Expand = %v, %v", iri, ok)
	}
	if iri, ok := p.Expand(MustPN("", "Vaso")); !ok || iri.Value() != "http://example.org/obj#Vaso" {
		t.Errorf("empty prefix Expand = %v, %v", iri, ok)
	}
	if _, ok := p.Expand(MustPN("nope", "x")); ok {
		t.Error("undeclared prefix expanded")
	}
	if !strings.Contains(p.String(), "PREFIX obj: <http://example.org/obj#>\n") {
		t.Errorf("PREFIX block:\n%s", p)
	}

	q := p.With("ex", MustIRI("http://ex/"))
	if _, ok := q.Lookup("ex"); !ok {
		t.Error("With did not add prefix")
	}
	if _, ok := p.Lookup("ex"); ok {
		t.Error("With modified the receiver")
	}

	if _, err := NewPrefixes("not a namespace"); err == nil {
		t.Error("invalid namespace accepted")
	}
}

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"errors"
	"strings"
	"testing"
)

func TestNewIRI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http", "http://guara.ueg.br/objetos/123", false},
		{"urn", "urn:uuid:4f7c", false},
		{"fragment", "http://guara.ueg.br/ontologias/v1/objetos#Pessoa", false},
		{"empty", "", true},
		{"greater than", "http://x/a>b", true},
		{"less than", "http://x/<a", true},
		{"space", "http://x/a b", true},
		{"newline", "http://x/a\nb", true},
		{"quote", `http://x/"a`, true},
		{"braces", "http://x/{a}", true},
		{"backslash", `http://x/a\b`, true},
		{"relative", "objetos/123", true},
		{"no scheme", ":foo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			iri, err := NewIRI(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIRI) {
					t.Fatalf("NewIRI(%q) error = %v, want ErrInvalidIRI", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewIRI(%q) unexpected error: %v", tt.input, err)
			}
			if got := iri.String(); got != "<"+tt.input+">" {
				t.Errorf("String() = %q", got)
			}
		})
	}
}

func TestLiteralEscaping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Vaso de barro", `"Vaso de barro"`},
		{"quote", `Diz "olá"`, `"Diz \"olá\""`},
		{"backslash", `C:\acervo`, `"C:\\acervo"`},
		{"newline", "linha1\nlinha2", `"linha1\nlinha2"`},
		{"closing brace", `x" } ; DROP ALL ; { "`, `"x\" } ; DROP ALL ; { \""`},
		{"control", "a\x01b", `"a\u0001b"`},
		{"single quote", "d'água", `"d\'água"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewLiteral(tt.input).String()
			if got != tt.want {
				t.Fatalf("String() = %s, want %s", got, tt.want)
			}
			// The rendered literal must parse back to the same value.
			back, err := unescapeString(got[1 : len(got)-1])
			if err != nil {
				t.Fatalf("unescape: %v", err)
			}
			if back != tt.input {
				t.Errorf("round trip = %q, want %q", back, tt.input)
			}
		})
	}
}

func TestLiteralTags(t *testing.T) {
	t.Parallel()

	if got := LangLiteral("casa", "pt-BR").String(); got != `"casa"@pt-BR` {
		t.Errorf("LangLiteral = %s", got)
	}
	if got := LangLiteral("casa", "pt BR").String(); got != `"casa"` {
		t.Errorf("invalid tag should be dropped, got %s", got)
	}
	if got := TypedLiteral("-16.68", XSDDecimal).String(); got != `"-16.68"^^xsd:decimal` {
		t.Errorf("TypedLiteral = %s", got)
	}
	if got := TypedLiteral("x", NewLiteral("y")).String(); got != `"x"` {
		t.Errorf("literal datatype should be ignored, got %s", got)
	}
}

func TestPrefixedName(t *testing.T) {
	t.Parallel()

	valid := []string{"obj:Pessoa", "dc:title", ":local", "rdf:type", "obj:objeto-1", "usr:maria_silva"}
	for _, s := range valid {
		if _, err := NewPrefixedName(s); err != nil {
			t.Errorf("NewPrefixedName(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"nocolon", "obj:a b", "obj:a>b", "1x:y", "obj:.x", "obj:x."}
	for _, s := range invalid {
		if _, err := NewPrefixedName(s); !errors.Is(err, ErrInvalidPrefixedName) {
			t.Errorf("NewPrefixedName(%q) error = %v, want ErrInvalidPrefixedName", s, err)
		}
	}
}

func TestVarPanicsOnInvalidName(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("V() did not panic")
		} else if !strings.Contains(r.(string), "invalid variable") {
			t.Errorf("panic = %v", r)
		}
	}()
	V("bad name")
}

func TestUnescapeStringErrors(t *testing.T) {
	t.Parallel()

	for _, s := range []string{`abc\`, `\q`, `\u12`, `\uZZZZ`} {
		if _, err := unescapeString(s); err == nil {
			t.Errorf("unescapeString(%q) expected error", s)
		}
	}
	got, err := unescapeString(`\u00e9t\u00e9`)
	if err != nil || got != "été" {
		t.Errorf("unescapeString = %q, %v", got, err)
	}
}

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"errors"
	"testing"
)

func TestParseTerm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		wantType string
		want     string
	}{
		{"<http://guara.ueg.br/objetos/1>", "iri", "<http://guara.ueg.br/objetos/1>"},
		{"http://guara.ueg.br/objetos/1", "iri", "<http://guara.ueg.br/objetos/1>"},
		{"obj:Pessoa", "pn", "obj:Pessoa"},
		{"dc:title", "pn", "dc:title"},
		{`"Vaso"`, "literal", `"Vaso"`},
		{`"Vaso"@pt`, "literal", `"Vaso"@pt`},
		{`"1.5"^^xsd:decimal`, "literal", `"1.5"^^xsd:decimal`},
		{`"1.5"^^<http://www.w3.org/2001/XMLSchema#decimal>`, "literal", `"1.5"^^<http://www.w3.org/2001/XMLSchema#decimal>`},
		{`"diz \"oi\""`, "literal", `"diz \"oi\""`},
		{"Nota: 5", "literal", `"Nota: 5"`},
		{"foo:bar", "literal", `"foo:bar"`},
		{"texto livre", "literal", `"texto livre"`},
		{`"aberto`, "literal", `"\"aberto"`},
		{"http://x/a b", "literal", `"http://x/a b"`},
		{"  obj:Lugar  ", "pn", "obj:Lugar"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			term, err := ParseTerm(tt.input)
			if err != nil {
				t.Fatalf("ParseTerm(%q) unexpected error: %v", tt.input, err)
			}
			var gotType string
			switch term.(type) {
			case IRI:
				gotType = "iri"
			case PrefixedName:
				gotType = "pn"
			case Literal:
				gotType = "literal"
			}
			if gotType != tt.wantType {
				t.Errorf("type = %s, want %s", gotType, tt.wantType)
			}
			if term.String() != tt.want {
				t.Errorf("String() = %s, want %s", term.String(), tt.want)
			}
		})
	}
}

func TestParseTermRejectsMalformedIRI(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"<http://x/a>b>", "<http://x/a b>", "<relative>", "<http://x"} {
		if _, err := ParseTerm(s); !errors.Is(err, ErrInvalidTerm) {
			t.Errorf("ParseTerm(%q) error = %v, want ErrInvalidTerm", s, err)
		}
	}
}

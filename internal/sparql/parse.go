// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"fmt"
	"strings"
)

// ParseTerm reads a term in the formats clients send for s, p and o fields,
// resolving prefixed names against the standard table.
func ParseTerm(s string) (Term, error) {
	return Standard().ParseTerm(s)
}

// ParseTerm reads a client-supplied term:
//
//	<http://x/y>             IRI
//	"texto"                  literal
//	"texto"@pt               language literal
//	"1.5"^^xsd:decimal       typed literal (datatype as <iri> or prefix:name)
//	obj:Pessoa               prefixed name, when the prefix is declared in p
//	http://x/y               bare absolute IRI
//	anything else            plain literal
//
// Only a malformed <...> is an error; other text falls back to a literal so
// that values such as "Nota: 5" are stored as written.
func (p Prefixes) ParseTerm(s string) (Term, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "<") {
		if !strings.HasSuffix(s, ">") || len(s) < 3 {
			return nil, fmt.Errorf("%w: unterminated IRI %q", ErrInvalidTerm, s)
		}
		iri, err := NewIRI(s[1 : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTerm, err)
		}
		return iri, nil
	}

	if strings.HasPrefix(s, `"`) {
		if lit, ok := p.parseQuoted(s); ok {
			return lit, nil
		}
		return NewLiteral(s), nil
	}

	if strings.Contains(s, "://") && !strings.ContainsAny(s, " \t\r\n") {
		if iri, err := NewIRI(s); err == nil {
			return iri, nil
		}
	}

	if pn, err := NewPrefixedName(s); err == nil {
		if _, declared := p.Lookup(pn.prefix); declared {
			return pn, nil
		}
	}

	return NewLiteral(s), nil
}

// parseQuoted handles "lex", "lex"@lang and "lex"^^dt.
func (p Prefixes) parseQuoted(s string) (Literal, bool) {
	end := closingQuote(s)
	if end < 0 {
		return Literal{}, false
	}
	lex, err := unescapeString(s[1:end])
	if err != nil {
		return Literal{}, false
	}
	rest := s[end+1:]
	switch {
	case rest == "":
		return NewLiteral(lex), true
	case strings.HasPrefix(rest, "@"):
		if !langPattern.MatchString(rest[1:]) {
			return Literal{}, false
		}
		return LangLiteral(lex, rest[1:]), true
	case strings.HasPrefix(rest, "^^"):
		dt := rest[2:]
		if strings.HasPrefix(dt, "<") && strings.HasSuffix(dt, ">") {
			iri, err := NewIRI(dt[1 : len(dt)-1])
			if err != nil {
				return Literal{}, false
			}
			return TypedLiteral(lex, iri), true
		}
		pn, err := NewPrefixedName(dt)
		if err != nil {
			return Literal{}, false
		}
		if _, ok := p.Lookup(pn.prefix); !ok {
			return Literal{}, false
		}
		return TypedLiteral(lex, pn), true
	default:
		return Literal{}, false
	}
}

// closingQuote returns the index of the unescaped quote ending the literal
// that starts at s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

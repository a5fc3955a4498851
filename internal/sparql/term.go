// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Term is an RDF term or variable that can appear in a triple pattern.
// The set of implementations is closed: IRI, PrefixedName, Literal, Var and
// the builder's own keyword constants. Every String method returns text
// that is safe to place in a query as-is.
type Term interface {
	String() string
	term()
}

var (
	// ErrInvalidIRI is returned for IRIs containing characters SPARQL forbids
	// inside <...>, or for text that is not an absolute IRI.
	ErrInvalidIRI = errors.New("sparql: invalid IRI")

	// ErrInvalidPrefixedName is returned for malformed prefix:local names.
	ErrInvalidPrefixedName = errors.New("sparql: invalid prefixed name")

	// ErrInvalidTerm is returned when ParseTerm meets a malformed <...> term.
	ErrInvalidTerm = errors.New("sparql: invalid term")

	// ErrInvalidVar is returned for variable names outside [A-Za-z0-9_].
	ErrInvalidVar = errors.New("sparql: invalid variable name")
)

// IRI is an absolute IRI, rendered as <...>.
type IRI struct {
	value string
}

// NewIRI validates s against the IRIREF production and requires a scheme.
func NewIRI(s string) (IRI, error) {
	if err := checkIRI(s); err != nil {
		return IRI{}, err
	}
	return IRI{value: s}, nil
}

// MustIRI is NewIRI for compile-time constants. It panics on invalid input.
func MustIRI(s string) IRI {
	iri, err := NewIRI(s)
	if err != nil {
		panic(err)
	}
	return iri
}

func checkIRI(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIRI)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidIRI)
	}
	for _, r := range s {
		if r <= 0x20 || r == 0x7F || strings.ContainsRune("<>\"{}|^`\\", r) {
			return fmt.Errorf("%w: forbidden character %q in %q", ErrInvalidIRI, r, s)
		}
	}
	colon := strings.IndexByte(s, ':')
	if colon <= 0 || !schemePattern.MatchString(s[:colon]) {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidIRI, s)
	}
	return nil
}

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)

// Value returns the IRI text without angle brackets.
func (i IRI) Value() string { return i.value }

// String renders <iri>.
func (i IRI) String() string { return "<" + i.value + ">" }

// IsZero reports whether i was never set.
func (i IRI) IsZero() bool { return i.value == "" }

// Join appends local to i, as used when minting object IRIs from a base
// namespace. The result is validated.
func (i IRI) Join(local string) (IRI, error) {
	return NewIRI(i.value + local)
}

func (IRI) term() {}

// PrefixedName is prefix:local. The prefix must be declared in the query's
// Prefixes for the query to be valid.
type PrefixedName struct {
	prefix string
	local  string
}

var (
	pnPrefixPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_\-]*(\.[A-Za-z0-9_\-]+)*)?$`)
	pnLocalPattern  = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_\-.]*[A-Za-z0-9_\-])?$`)
)

// NewPrefixedName parses "prefix:local". The local part is restricted to
// letters, digits, '_', '-' and inner '.'.
func NewPrefixedName(s string) (PrefixedName, error) {
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return PrefixedName{}, fmt.Errorf("%w: %q has no ':'", ErrInvalidPrefixedName, s)
	}
	return PN(s[:colon], s[colon+1:])
}

// PN builds a prefixed name from its parts.
func PN(prefix, local string) (PrefixedName, error) {
	if !pnPrefixPattern.MatchString(prefix) {
		return PrefixedName{}, fmt.Errorf("%w: bad prefix %q", ErrInvalidPrefixedName, prefix)
	}
	if local != "" && !pnLocalPattern.MatchString(local) {
		return PrefixedName{}, fmt.Errorf("%w: bad local name %q", ErrInvalidPrefixedName, local)
	}
	return PrefixedName{prefix: prefix, local: local}, nil
}

// MustPN is PN for constants.
func MustPN(prefix, local string) PrefixedName {
	pn, err := PN(prefix, local)
	if err != nil {
		panic(err)
	}
	return pn
}

// Prefix returns the prefix label.
func (p PrefixedName) Prefix() string { return p.prefix }

// Local returns the local part.
func (p PrefixedName) Local() string { return p.local }

func (p PrefixedName) String() string { return p.prefix + ":" + p.local }

func (PrefixedName) term() {}

// Literal is an RDF literal with an optional language tag or datatype.
type Literal struct {
	lexical  string
	lang     string
	datatype Term // IRI or PrefixedName
}

var langPattern = regexp.MustCompile(`^[A-Za-z]+(-[A-Za-z0-9]+)*$`)

// NewLiteral returns a plain string literal.
func NewLiteral(s string) Literal {
	return Literal{lexical: s}
}

// LangLiteral returns "s"@lang. An invalid tag is dropped.
func LangLiteral(s, lang string) Literal {
	if !langPattern.MatchString(lang) {
		return Literal{lexical: s}
	}
	return Literal{lexical: s, lang: lang}
}

// TypedLiteral returns "s"^^datatype. datatype must be an IRI or PrefixedName.
func TypedLiteral(s string, datatype Term) Literal {
	switch datatype.(type) {
	case IRI, PrefixedName:
		return Literal{lexical: s, datatype: datatype}
	default:
		return Literal{lexical: s}
	}
}

// Lexical returns the unescaped lexical form.
func (l Literal) Lexical() string { return l.lexical }

// Lang returns the language tag or "".
func (l Literal) Lang() string { return l.lang }

// Datatype returns the datatype term or nil.
func (l Literal) Datatype() Term { return l.datatype }

func (l Literal) String() string {
	s := `"` + EscapeString(l.lexical) + `"`
	switch {
	case l.lang != "":
		return s + "@" + l.lang
	case l.datatype != nil:
		return s + "^^" + l.datatype.String()
	default:
		return s
	}
}

func (Literal) term() {}

// EscapeString escapes s for use between double quotes in a SPARQL string
// literal. ECHAR covers the common characters; other control characters are
// written as \uXXXX.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7F {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescapeString reverses EscapeString for text between quotes. A lone
// backslash or unknown escape is an error.
func unescapeString(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errors.New("trailing backslash")
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+5 > len(s) {
				return "", errors.New("short \\u escape")
			}
			code, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad \\u escape: %w", err)
			}
			b.WriteRune(rune(code))
			i += 4
		default:
			return "", fmt.Errorf("unknown escape \\%c", s[i])
		}
	}
	return b.String(), nil
}

// Var is a query variable, rendered as ?name.
type Var struct {
	name string
}

var varPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// V returns the variable ?name. It panics on an invalid name; variable names
// are always chosen by the code, never by the client.
func V(name string) Var {
	if !varPattern.MatchString(name) {
		panic(fmt.Sprintf("%v: %q", ErrInvalidVar, name))
	}
	return Var{name: name}
}

// Name returns the variable name without '?'.
func (v Var) Name() string { return v.name }

func (v Var) String() string { return "?" + v.name }

func (Var) term() {}

func (v Var) projection() string { return v.String() }

// keyword is a builder-internal constant such as the "a" shorthand.
type keyword string

func (k keyword) String() string { return string(k) }

func (keyword) term() {}

// A is the rdf:type shorthand.
const A = keyword("a")

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Triple is one subject-predicate-object pattern.
type Triple struct {
	S, P, O Term
}

// T builds a triple without position checks. Use it when every term comes
// from code or has already been validated.
func T(s, p, o Term) Triple {
	return Triple{S: s, P: p, O: o}
}

// NewTriple builds a triple and checks each term is allowed in its position:
// no literal subjects, and predicates must be IRIs, prefixed names,
// variables or "a".
func NewTriple(s, p, o Term) (Triple, error) {
	if s == nil || p == nil || o == nil {
		return Triple{}, fmt.Errorf("%w: incomplete triple", ErrInvalidTerm)
	}
	if _, ok := s.(Literal); ok {
		return Triple{}, fmt.Errorf("%w: literal %s cannot be a subject", ErrInvalidTerm, s)
	}
	switch p.(type) {
	case IRI, PrefixedName, Var, keyword:
	default:
		return Triple{}, fmt.Errorf("%w: %s cannot be a predicate", ErrInvalidTerm, p)
	}
	return Triple{S: s, P: p, O: o}, nil
}

func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}

func (t Triple) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString(t.String())
	b.WriteByte('\n')
}

func (Triple) pattern() {}

// Pattern is an element of a WHERE clause.
type Pattern interface {
	render(b *strings.Builder, indent string)
	pattern()
}

// Optional renders OPTIONAL { ... }.
type Optional []Pattern

// Opt groups patterns in an OPTIONAL block.
func Opt(patterns ...Pattern) Optional { return Optional(patterns) }

func (o Optional) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString("OPTIONAL {\n")
	renderPatterns(b, o, indent+"  ")
	b.WriteString(indent)
	b.WriteString("}\n")
}

func (Optional) pattern() {}

// Group renders a bare { ... } block.
type Group []Pattern

func (g Group) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString("{\n")
	renderPatterns(b, g, indent+"  ")
	b.WriteString(indent)
	b.WriteString("}\n")
}

func (Group) pattern() {}

// Union renders { a } UNION { b } ...
type Union []Group

func (u Union) render(b *strings.Builder, indent string) {
	for i, g := range u {
		if i > 0 {
			b.WriteString(indent)
			b.WriteString("UNION\n")
		}
		g.render(b, indent)
	}
}

func (Union) pattern() {}

// Filter renders FILTER(expr).
type Filter struct {
	Expr Expr
}

func (f Filter) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString("FILTER(")
	b.WriteString(f.Expr.String())
	b.WriteString(")\n")
}

func (Filter) pattern() {}

// Bind renders BIND(expr AS ?var).
type Bind struct {
	Expr Expr
	As   Var
}

func (bd Bind) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString("BIND(")
	b.WriteString(bd.Expr.String())
	b.WriteString(" AS ")
	b.WriteString(bd.As.String())
	b.WriteString(")\n")
}

func (Bind) pattern() {}

func renderPatterns(b *strings.Builder, patterns []Pattern, indent string) {
	for _, p := range patterns {
		p.render(b, indent)
	}
}

func renderTriples(b *strings.Builder, triples []Triple, indent string) {
	for _, t := range triples {
		t.render(b, indent)
	}
}

// Expr is a rendered SPARQL expression. Values are only produced by the
// helpers below, which escape every term they embed.
type Expr struct {
	text string
}

func (e Expr) String() string { return e.text }

// E wraps a term as an expression.
func E(t Term) Expr { return Expr{text: t.String()} }

func call(name string, args ...Expr) Expr {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.text
	}
	return Expr{text: name + "(" + strings.Join(parts, ", ") + ")"}
}

// Str renders STR(t).
func Str(t Term) Expr { return call("STR", E(t)) }

// LCase renders LCASE(e).
func LCase(e Expr) Expr { return call("LCASE", e) }

// Contains renders CONTAINS(haystack, needle).
func Contains(haystack, needle Expr) Expr { return call("CONTAINS", haystack, needle) }

// StrEnds renders STRENDS(haystack, suffix).
func StrEnds(haystack, suffix Expr) Expr { return call("STRENDS", haystack, suffix) }

// Regex renders REGEX(e, "pattern", "flags"). pattern is escaped as a
// string literal but not regex-quoted.
func Regex(e Expr, pattern, flags string) Expr {
	args := []Expr{e, E(NewLiteral(pattern))}
	if flags != "" {
		args = append(args, E(NewLiteral(flags)))
	}
	return call("REGEX", args...)
}

// Coalesce renders COALESCE(...).
func Coalesce(args ...Expr) Expr { return call("COALESCE", args...) }

// Bound renders BOUND(?v).
func Bound(v Var) Expr { return call("BOUND", E(v)) }

// IsIRI renders isIRI(t).
func IsIRI(t Term) Expr { return call("isIRI", E(t)) }

// If renders IF(cond, then, else).
func If(cond, then, els Expr) Expr { return call("IF", cond, then, els) }

// Eq renders a = b.
func Eq(a, b Expr) Expr { return Expr{text: a.text + " = " + b.text} }

// Not renders !(e).
func Not(e Expr) Expr { return Expr{text: "!(" + e.text + ")"} }

// Or joins expressions with ||.
func Or(args ...Expr) Expr { return join(" || ", args) }

// And joins expressions with &&.
func And(args ...Expr) Expr { return join(" && ", args) }

func join(op string, args []Expr) Expr {
	switch len(args) {
	case 0:
		return Expr{text: "true"}
	case 1:
		return args[0]
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.text
	}
	return Expr{text: "(" + strings.Join(parts, op) + ")"}
}

// GroupConcat renders GROUP_CONCAT(DISTINCT? e; separator="sep").
func GroupConcat(e Expr, separator string, distinct bool) Expr {
	d := ""
	if distinct {
		d = "DISTINCT "
	}
	return Expr{text: "GROUP_CONCAT(" + d + e.text + "; separator=" + NewLiteral(separator).String() + ")"}
}

// Sample renders SAMPLE(e).
func Sample(e Expr) Expr { return call("SAMPLE", e) }

// KeywordFilter returns a case-insensitive match of keyword against any of
// vars. The keyword is regex-quoted, so it always matches literally.
// An empty keyword yields nil.
func KeywordFilter(keyword string, vars ...Var) Pattern {
	if strings.TrimSpace(keyword) == "" || len(vars) == 0 {
		return nil
	}
	quoted := regexp.QuoteMeta(keyword)
	matches := make([]Expr, len(vars))
	for i, v := range vars {
		matches[i] = Regex(Str(v), quoted, "i")
	}
	return Filter{Expr: Or(matches...)}
}

// Projection is an item of a SELECT clause.
type Projection interface {
	projection() string
}

type alias struct {
	expr Expr
	as   Var
}

func (a alias) projection() string {
	return "(" + a.expr.text + " AS " + a.as.String() + ")"
}

// As projects expr under the name v.
func As(expr Expr, v Var) Projection { return alias{expr: expr, as: v} }

// Order is an ORDER BY key.
type Order struct {
	Var  Var
	Desc bool
}

// Asc orders by v ascending.
func Asc(v Var) Order { return Order{Var: v} }

// Desc orders by v descending.
func Desc(v Var) Order { return Order{Var: v, Desc: true} }

func (o Order) String() string {
	if o.Desc {
		return "DESC(" + o.Var.String() + ")"
	}
	return "ASC(" + o.Var.String() + ")"
}

// Where collects patterns, skipping nils, so optional filters can be
// passed inline.
func Where(patterns ...Pattern) []Pattern {
	out := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// InsertData renders INSERT DATA { ... }.
type InsertData struct {
	Prefixes Prefixes
	Triples  []Triple
}

func (q InsertData) String() string {
	return dataBlock("INSERT DATA", q.Prefixes, q.Triples)
}

// DeleteData renders DELETE DATA { ... }.
type DeleteData struct {
	Prefixes Prefixes
	Triples  []Triple
}

func (q DeleteData) String() string {
	return dataBlock("DELETE DATA", q.Prefixes, q.Triples)
}

func dataBlock(verb string, prefixes Prefixes, triples []Triple) string {
	var b strings.Builder
	b.WriteString(prefixes.String())
	b.WriteString(verb)
	b.WriteString(" {\n")
	renderTriples(&b, triples, "  ")
	b.WriteString("}\n")
	return b.String()
}

// Modify renders DELETE { ... } INSERT { ... } WHERE { ... }. Either
// template may be empty, but not both.
type Modify struct {
	Prefixes Prefixes
	Delete   []Triple
	Insert   []Triple
	Where    []Pattern
}

func (q Modify) String() string {
	var b strings.Builder
	b.WriteString(q.Prefixes.String())
	if len(q.Delete) > 0 {
		b.WriteString("DELETE {\n")
		renderTriples(&b, q.Delete, "  ")
		b.WriteString("}\n")
	}
	if len(q.Insert) > 0 {
		b.WriteString("INSERT {\n")
		renderTriples(&b, q.Insert, "  ")
		b.WriteString("}\n")
	}
	b.WriteString("WHERE {\n")
	renderPatterns(&b, q.Where, "  ")
	b.WriteString("}\n")
	return b.String()
}

// DeleteWhere renders DELETE WHERE { ... }.
type DeleteWhere struct {
	Prefixes Prefixes
	Triples  []Triple
}

func (q DeleteWhere) String() string {
	return dataBlock("DELETE WHERE", q.Prefixes, q.Triples)
}

// Select renders a SELECT query.
type Select struct {
	Prefixes   Prefixes
	Distinct   bool
	Projection []Projection // empty means *
	Where      []Pattern
	GroupBy    []Var
	OrderBy    []Order
	Limit      int
	Offset     int
}

func (q Select) String() string {
	var b strings.Builder
	b.WriteString(q.Prefixes.String())
	b.WriteString("SELECT ")
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	if len(q.Projection) == 0 {
		b.WriteString("*")
	}
	for i, p := range q.Projection {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.projection())
	}
	b.WriteString(" WHERE {\n")
	renderPatterns(&b, q.Where, "  ")
	b.WriteString("}\n")
	if len(q.GroupBy) > 0 {
		b.WriteString("GROUP BY")
		for _, v := range q.GroupBy {
			b.WriteString(" " + v.String())
		}
		b.WriteByte('\n')
	}
	if len(q.OrderBy) > 0 {
		b.WriteString("ORDER BY")
		for _, o := range q.OrderBy {
			b.WriteString(" " + o.String())
		}
		b.WriteByte('\n')
	}
	if q.Limit > 0 {
		b.WriteString("LIMIT " + strconv.Itoa(q.Limit) + "\n")
	}
	if q.Offset > 0 {
		b.WriteString("OFFSET " + strconv.Itoa(q.Offset) + "\n")
	}
	return b.String()
}

// Ask renders ASK { ... }.
type Ask struct {
	Prefixes Prefixes
	Where    []Pattern
}

func (q Ask) String() string {
	var b strings.Builder
	b.WriteString(q.Prefixes.String())
	b.WriteString("ASK {\n")
	renderPatterns(&b, q.Where, "  ")
	b.WriteString("}\n")
	return b.String()
}

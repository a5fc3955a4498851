// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"strings"
)

// Namespaces used across the collection graphs.
const (
	NSRDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS   = "http://www.w3.org/2000/01/rdf-schema#"
	NSOWL    = "http://www.w3.org/2002/07/owl#"
	NSXSD    = "http://www.w3.org/2001/XMLSchema#"
	NSDC     = "http://purl.org/dc/elements/1.1/"
	NSSchema = "http://schema.org/"
	NSFOAF   = "http://xmlns.com/foaf/0.1/"
	NSGeo    = "http://www.w3.org/2003/01/geo/wgs84_pos#"
	NSUsr    = "http://guara.ueg.br/ontologias/usuarios#"
	NSRpa    = "http://guara.ueg.br/ontologias/v1/repositorios#"

	// DefaultObjectNamespace is the obj: namespace unless configured otherwise.
	DefaultObjectNamespace = "http://guara.ueg.br/ontologias/v1/objetos#"
)

// Prefix is one PREFIX declaration.
type Prefix struct {
	Name string
	IRI  IRI
}

// Prefixes is an ordered list of PREFIX declarations.
type Prefixes []Prefix

// NewPrefixes returns the standard table with obj: and the empty prefix bound
// to objectNamespace.
func NewPrefixes(objectNamespace string) (Prefixes, error) {
	obj, err := NewIRI(objectNamespace)
	if err != nil {
		return nil, err
	}
	return Prefixes{
		{"rdf", MustIRI(NSRDF)},
		{"rdfs", MustIRI(NSRDFS)},
		{"owl", MustIRI(NSOWL)},
		{"xsd", MustIRI(NSXSD)},
		{"dc", MustIRI(NSDC)},
		{"schema", MustIRI(NSSchema)},
		{"foaf", MustIRI(NSFOAF)},
		{"geo", MustIRI(NSGeo)},
		{"obj", obj},
		{"usr", MustIRI(NSUsr)},
		{"rpa", MustIRI(NSRpa)},
		{"", obj},
	}, nil
}

// Standard returns the standard table with the default object namespace.
func Standard() Prefixes {
	p, _ := NewPrefixes(DefaultObjectNamespace)
	return p
}

// With returns a copy of p where name is bound to iri, replacing any
// existing binding.
func (p Prefixes) With(name string, iri IRI) Prefixes {
	out := make(Prefixes, 0, len(p)+1)
	replaced := false
	for _, pr := range p {
		if pr.Name == name {
			out = append(out, Prefix{Name: name, IRI: iri})
			replaced = true
			continue
		}
		out = append(out, pr)
	}
	if !replaced {
		out = append(out, Prefix{Name: name, IRI: iri})
	}
	return out
}

// Lookup returns the namespace bound to name.
func (p Prefixes) Lookup(name string) (IRI, bool) {
	for _, pr := range p {
		if pr.Name == name {
			return pr.IRI, true
		}
	}
	return IRI{}, false
}

// Expand turns a prefixed name into a full IRI.
func (p Prefixes) Expand(pn PrefixedName) (IRI, bool) {
	ns, ok := p.Lookup(pn.prefix)
	if !ok {
		return IRI{}, false
	}
	iri, err := ns.Join(pn.local)
	if err != nil {
		return IRI{}, false
	}
	return iri, true
}

// MustPN returns a prefixed name whose prefix is declared in p. Intended for
// constants.
func (p Prefixes) MustPN(s string) PrefixedName {
	pn, err := NewPrefixedName(s)
	if err != nil {
		panic(err)
	}
	if _, ok := p.Lookup(pn.prefix); !ok {
		panic("sparql: undeclared prefix " + pn.prefix)
	}
	return pn
}

// String renders the PREFIX block, one declaration per line.
func (p Prefixes) String() string {
	var b strings.Builder
	for _, pr := range p {
		b.WriteString("PREFIX ")
		b.WriteString(pr.Name)
		b.WriteString(": ")
		b.WriteString(pr.IRI.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Well-known predicates and classes.
var (
	RDFType          = MustPN("rdf", "type")
	RDFSLabel        = MustPN("rdfs", "label")
	RDFSComment      = MustPN("rdfs", "comment")
	RDFSSubClassOf   = MustPN("rdfs", "subClassOf")
	OWLClass         = MustPN("owl", "Class")
	DCTitle          = MustPN("dc", "title")
	DCAbstract       = MustPN("dc", "abstract")
	DCSubject        = MustPN("dc", "subject")
	DCDescription    = MustPN("dc", "description")
	SchemaAssocMedia = MustPN("schema", "associatedMedia")
	FOAFMbox         = MustPN("foaf", "mbox")
	FOAFPassword     = MustPN("foaf", "password")
	GeoLat           = MustPN("geo", "lat")
	GeoLong          = MustPN("geo", "long")
	XSDDateTime      = MustPN("xsd", "dateTime")
	XSDDecimal       = MustPN("xsd", "decimal")
	ObjDimensional   = MustPN("obj", "ObjetoDimensional")
	ObjFisico        = MustPN("obj", "ObjetoFisico")
	ObjPessoa        = MustPN("obj", "Pessoa")
	ObjTempo         = MustPN("obj", "Tempo")
	ObjLugar         = MustPN("obj", "Lugar")
	ObjEvento        = MustPN("obj", "Evento")
	ObjTemRelacao    = MustPN("obj", "temRelacao")
	UsrToken         = MustPN("usr", "token")
	UsrValidade      = MustPN("usr", "validade")
	UsrTemPermissao  = MustPN("usr", "temPermissao")
	UsrRepo          = MustPN("usr", "repo")
	UsrUsername      = MustPN("usr", "username")
	UsrPassword      = MustPN("usr", "password")
	UsrCurador       = MustPN("usr", "Curador")
	RpaRepositorio   = MustPN("rpa", "Repositorio")
	RpaURI           = MustPN("rpa", "uri")
	RpaNome          = MustPN("rpa", "nome")
	RpaContato       = MustPN("rpa", "contato")
	RpaDescricao     = MustPN("rpa", "descricao")
	RpaResponsavel   = MustPN("rpa", "responsavel")
)

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/sparql"
)

// ClassOrderings are the accepted values for ClassQuery.OrderBy.
var ClassOrderings = []string{"class", "label", "description", "subclassof"}

// ClassQuery filters the class list.
type ClassQuery struct {
	Repository string
	Keyword    string
	OrderBy    string
}

// ClassInput creates or replaces a class.
type ClassInput struct {
	Repository string
	Label      string
	Comment    string
	SubclassOf string
}

// ListClasses returns owl:Class resources with their optional label,
// comment and superclass. A class matches the keyword when its label or
// description matches, or when either is missing.
func (s *Service) ListClasses(ctx context.Context, q ClassQuery) (*sparql.Response, error) {
	class, label, desc, sub := sparql.V("class"), sparql.V("label"), sparql.V("description"), sparql.V("subclassof")

	orderBy := class
	switch q.OrderBy {
	case "label":
		orderBy = label
	case "description":
		orderBy = desc
	case "subclassof":
		orderBy = sub
	}

	where := sparql.Where(
		sparql.T(class, sparql.A, sparql.OWLClass),
		sparql.Opt(sparql.T(class, sparql.RDFSLabel, label)),
		sparql.Opt(sparql.T(class, sparql.RDFSComment, desc)),
		sparql.Opt(sparql.T(class, sparql.RDFSSubClassOf, sub)),
	)
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		pattern := regexpLiteral(kw)
		where = append(where, sparql.Filter{Expr: sparql.Or(
			sparql.Not(sparql.Bound(desc)), sparql.Regex(sparql.Str(desc), pattern, "i"),
			sparql.Not(sparql.Bound(label)), sparql.Regex(sparql.Str(label), pattern, "i"),
		)})
	}

	query := sparql.Select{
		Prefixes:   s.prefixes,
		Distinct:   true,
		Projection: []sparql.Projection{class, label, desc, sub},
		Where:      where,
		OrderBy:    []sparql.Order{sparql.Asc(orderBy)},
	}
	return s.client.Query(ctx, q.Repository, query.String())
}

// classIRI maps a label to <dataset#Label_With_Underscores>.
func classIRI(prefixes sparql.Prefixes, label string) (sparql.IRI, error) {
	ns, _ := prefixes.Lookup("")
	iri, err := ns.Join(strings.ReplaceAll(strings.TrimSpace(label), " ", "_"))
	if err != nil {
		return sparql.IRI{}, invalid("label", err)
	}
	return iri, nil
}

// superclass accepts a full IRI or a local name in the dataset namespace.
func superclass(prefixes sparql.Prefixes, value string) (sparql.Term, error) {
	if strings.Contains(value, "://") {
		return iriField(value, "subclassof")
	}
	ns, _ := prefixes.Lookup("")
	iri, err := ns.Join(strings.ReplaceAll(value, " ", "_"))
	if err != nil {
		return nil, invalid("subclassof", err)
	}
	return iri, nil
}

func (s *Service) classTriples(in ClassInput) (sparql.IRI, []sparql.Triple, error) {
	prefixes, err := s.datasetPrefixes(in.Repository)
	if err != nil {
		return sparql.IRI{}, nil, err
	}
	class, err := classIRI(prefixes, in.Label)
	if err != nil {
		return sparql.IRI{}, nil, err
	}
	triples := []sparql.Triple{
		sparql.T(class, sparql.RDFType, sparql.OWLClass),
		sparql.T(class, sparql.RDFSLabel, sparql.NewLiteral(in.Label)),
		sparql.T(class, sparql.RDFSComment, sparql.NewLiteral(in.Comment)),
	}
	if in.SubclassOf != "" {
		parent, err := superclass(prefixes, in.SubclassOf)
		if err != nil {
			return sparql.IRI{}, nil, err
		}
		triples = append(triples, sparql.T(class, sparql.RDFSSubClassOf, parent))
	}
	return class, triples, nil
}

// AddClass inserts a new class and returns its IRI.
func (s *Service) AddClass(ctx context.Context, in ClassInput) (sparql.IRI, error) {
	class, triples, err := s.classTriples(in)
	if err != nil {
		return sparql.IRI{}, err
	}
	update := sparql.InsertData{Prefixes: s.prefixes, Triples: triples}
	if err := s.client.Update(ctx, in.Repository, update.String()); err != nil {
		return sparql.IRI{}, err
	}
	logging.Ctx(ctx).Info().Str("class", class.Value()).Msg("Class added")
	return class, nil
}

// UpdateClass replaces the label, comment and superclass of a class.
func (s *Service) UpdateClass(ctx context.Context, in ClassInput) (sparql.IRI, error) {
	class, triples, err := s.classTriples(in)
	if err != nil {
		return sparql.IRI{}, err
	}
	oldLabel, oldComment, oldSub := sparql.V("oldLabel"), sparql.V("oldComment"), sparql.V("oldSubclass")
	update := sparql.Modify{
		Prefixes: s.prefixes,
		Delete: []sparql.Triple{
			sparql.T(class, sparql.RDFSLabel, oldLabel),
			sparql.T(class, sparql.RDFSComment, oldComment),
			sparql.T(class, sparql.RDFSSubClassOf, oldSub),
		},
		Insert: triples,
		Where: sparql.Where(
			sparql.Opt(sparql.T(class, sparql.RDFSLabel, oldLabel)),
			sparql.Opt(sparql.T(class, sparql.RDFSComment, oldComment)),
			sparql.Opt(sparql.T(class, sparql.RDFSSubClassOf, oldSub)),
		),
	}
	if err := s.client.Update(ctx, in.Repository, update.String()); err != nil {
		return sparql.IRI{}, err
	}
	logging.Ctx(ctx).Info().Str("class", class.Value()).Msg("Class updated")
	return class, nil
}

// DeleteClass removes every triple about class. It refuses classes that
// are the superclass of another class.
func (s *Service) DeleteClass(ctx context.Context, repository, class string) error {
	iri, err := iriField(class, "label")
	if err != nil {
		return err
	}
	ask := sparql.Ask{
		Prefixes: s.prefixes,
		Where:    sparql.Where(sparql.T(sparql.V("s"), sparql.RDFSSubClassOf, iri)),
	}
	inUse, err := s.client.Ask(ctx, repository, ask.String())
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: %s", ErrClassInUse, iri.Value())
	}

	update := sparql.DeleteWhere{
		Prefixes: s.prefixes,
		Triples:  []sparql.Triple{sparql.T(iri, sparql.V("p"), sparql.V("o"))},
	}
	if err := s.client.Update(ctx, repository, update.String()); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("class", iri.Value()).Msg("Class deleted")
	return nil
}

// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package catalog

import (
	"context"
	"strings"

	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/sparql"
)

// Direction labels bound to ?direcao in relation listings.
const (
	DirectionOutgoing = "direta"
	DirectionIncoming = "inversa"
)

// ListRelations returns the properties of object in both directions. Each
// row carries ?tipo_recurso ("URI" or "Literal"), ?direcao and, for linked
// resources, their ?titulo.
func (s *Service) ListRelations(ctx context.Context, repository, object, keyword string) (*sparql.Response, error) {
	id, err := iriField(object, "id")
	if err != nil {
		return nil, err
	}
	vID, prop, val, kind, title, dir := sparql.V("id"), sparql.V("propriedade"), sparql.V("valor"),
		sparql.V("tipo_recurso"), sparql.V("titulo"), sparql.V("direcao")

	where := sparql.Where(
		sparql.Bind{Expr: sparql.E(id), As: vID},
		sparql.Union{
			sparql.Group{
				sparql.T(id, prop, val),
				sparql.Bind{Expr: sparql.E(sparql.NewLiteral(DirectionOutgoing)), As: dir},
			},
			sparql.Group{
				sparql.T(val, prop, id),
				sparql.Bind{Expr: sparql.E(sparql.NewLiteral(DirectionIncoming)), As: dir},
			},
		},
		sparql.Opt(
			sparql.T(val, sparql.DCTitle, title),
			sparql.Filter{Expr: sparql.IsIRI(val)},
		),
		sparql.KeywordFilter(keyword, val, title),
	)
	q := sparql.Select{
		Prefixes: s.prefixes,
		Projection: []sparql.Projection{
			vID, prop, val,
			sparql.As(sparql.If(sparql.IsIRI(val), sparql.E(sparql.NewLiteral("URI")), sparql.E(sparql.NewLiteral("Literal"))), kind),
			title, dir,
		},
		Where: where,
	}
	return s.client.Query(ctx, repository, q.String())
}

// RelationInput adds a property value to :<id> in a dataset.
type RelationInput struct {
	Repository   string
	ID           string
	Property     string
	Value        string
	ResourceKind string // "uri" or "literal"
	Complement   string
}

// AddRelation inserts :<id> <property> value, where value is an IRI when
// ResourceKind is "uri" and a literal otherwise.
func (s *Service) AddRelation(ctx context.Context, in RelationInput) error {
	prefixes, err := s.datasetPrefixes(in.Repository)
	if err != nil {
		return err
	}
	subject, err := localOrIRI(prefixes, in.ID, "id")
	if err != nil {
		return err
	}
	prop, err := iriField(in.Property, "propriedade")
	if err != nil {
		return err
	}
	raw := in.Value + in.Complement
	var value sparql.Term
	if strings.EqualFold(in.ResourceKind, "uri") {
		if value, err = iriField(raw, "valor"); err != nil {
			return err
		}
	} else {
		value = sparql.NewLiteral(raw)
	}
	if err := s.AddTriple(ctx, in.Repository, sparql.T(subject, prop, value)); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("subject", subject.Value()).Str("property", prop.Value()).Msg("Relation added")
	return nil
}

// DeleteResource removes every triple with :<id> as subject. Updates go to
// the dataset's update endpoint.
func (s *Service) DeleteResource(ctx context.Context, repository, id string) error {
	prefixes, err := s.datasetPrefixes(repository)
	if err != nil {
		return err
	}
	subject, err := localOrIRI(prefixes, id, "id")
	if err != nil {
		return err
	}
	update := sparql.DeleteWhere{
		Prefixes: s.prefixes,
		Triples:  []sparql.Triple{sparql.T(subject, sparql.V("p"), sparql.V("o"))},
	}
	endpoint := sparql.UpdateEndpoint(repository, s.sparql.UpdatePath)
	if err := s.client.Update(ctx, endpoint, update.String()); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("subject", subject.Value()).Msg("Resource deleted")
	return nil
}

// RemoveRelation deletes s p o from the dataset's update endpoint. Terms use
// the client formats, with :local resolved against the dataset namespace.
func (s *Service) RemoveRelation(ctx context.Context, repository, subj, pred, obj string) (sparql.Triple, error) {
	prefixes, err := s.datasetPrefixes(repository)
	if err != nil {
		return sparql.Triple{}, err
	}
	t, err := ParseTriple(prefixes, subj, pred, obj)
	if err != nil {
		return sparql.Triple{}, err
	}
	t, err = expandTriple(prefixes, t)
	if err != nil {
		return sparql.Triple{}, err
	}
	endpoint := sparql.UpdateEndpoint(repository, s.sparql.UpdatePath)
	if err := s.RemoveTriple(ctx, endpoint, t); err != nil {
		return sparql.Triple{}, err
	}
	return t, nil
}

// ResourceUpdate replaces title, description and summary of :<id>.
type ResourceUpdate struct {
	Repository  string
	ID          string
	Title       string
	Description string
	Summary     string
}

// UpdateResource rewrites the descriptive values of :<id>.
func (s *Service) UpdateResource(ctx context.Context, in ResourceUpdate) error {
	prefixes, err := s.datasetPrefixes(in.Repository)
	if err != nil {
		return err
	}
	subject, err := localOrIRI(prefixes, in.ID, "id")
	if err != nil {
		return err
	}
	_, err = s.UpdateObject(ctx, ObjectUpdate{
		UpdateEndpoint: sparql.UpdateEndpoint(in.Repository, s.sparql.UpdatePath),
		ObjectIRI:      subject.Value(),
		Title:          in.Title,
		Summary:        in.Summary,
		Description:    in.Description,
		DescriptionSet: true,
	})
	return err
}

// AddMediaRelation inserts subject property media into the dataset's
// update endpoint. All three are client terms.
func (s *Service) AddMediaRelation(ctx context.Context, repository, subject, property, media string) (sparql.Triple, error) {
	prefixes, err := s.datasetPrefixes(repository)
	if err != nil {
		return sparql.Triple{}, err
	}
	t, err := ParseTriple(prefixes, subject, property, media)
	if err != nil {
		return sparql.Triple{}, err
	}
	t, err = expandTriple(prefixes, t)
	if err != nil {
		return sparql.Triple{}, err
	}
	endpoint := sparql.UpdateEndpoint(repository, s.sparql.UpdatePath)
	if err := s.AddTriple(ctx, endpoint, t); err != nil {
		return sparql.Triple{}, err
	}
	return t, nil
}

// localOrIRI accepts a full IRI or a local name in the dataset namespace.
func localOrIRI(prefixes sparql.Prefixes, value, field string) (sparql.IRI, error) {
	if strings.Contains(value, "://") {
		return iriField(value, field)
	}
	ns, _ := prefixes.Lookup("")
	iri, err := ns.Join(strings.TrimPrefix(value, ":"))
	if err != nil {
		return sparql.IRI{}, invalid(field, err)
	}
	return iri, nil
}

// expandTriple rewrites names in the empty prefix to full IRIs, because the
// service's own PREFIX block binds ":" to the object namespace.
func expandTriple(prefixes sparql.Prefixes, t sparql.Triple) (sparql.Triple, error) {
	expand := func(term sparql.Term) (sparql.Term, error) {
		pn, ok := term.(sparql.PrefixedName)
		if !ok || pn.Prefix() != "" {
			return term, nil
		}
		iri, ok := prefixes.Expand(pn)
		if !ok {
			return nil, invalid("triple", sparql.ErrInvalidPrefixedName)
		}
		return iri, nil
	}
	var err error
	if t.S, err = expand(t.S); err != nil {
		return t, err
	}
	if t.P, err = expand(t.P); err != nil {
		return t, err
	}
	if t.O, err = expand(t.O); err != nil {
		return t, err
	}
	return t, nil
}

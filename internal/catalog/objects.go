// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/sparql"
	"github.com/alisoncf/guara/internal/validation"
)

// DimensionTypes maps the editor's type parameter to a class.
var DimensionTypes = map[string]sparql.PrefixedName{
	"quem":   sparql.ObjPessoa,
	"quando": sparql.ObjTempo,
	"onde":   sparql.ObjLugar,
	"oque":   sparql.ObjEvento,
	"fisico": sparql.ObjFisico,
}

var (
	vObj       = sparql.V("obj")
	vTitulo    = sparql.V("titulo")
	vResumo    = sparql.V("resumo")
	vDescricao = sparql.V("descricao")
	vTipo      = sparql.V("tipo")
	vLat       = sparql.V("lat")
	vLong      = sparql.V("long")
)

func objectProjection() []sparql.Projection {
	return []sparql.Projection{vObj, vTitulo, vResumo, vDescricao, vTipo, vLat, vLong}
}

func objectDetails() []sparql.Pattern {
	p := []sparql.Pattern{
		sparql.Opt(sparql.T(vObj, sparql.DCTitle, vTitulo)),
		sparql.Opt(sparql.T(vObj, sparql.DCDescription, vDescricao)),
		sparql.Opt(sparql.T(vObj, sparql.GeoLat, vLat)),
		sparql.Opt(sparql.T(vObj, sparql.GeoLong, vLong)),
	}
	return append(p, summaryPatterns(vObj, vResumo)...)
}

// ListPhysicalObjects lists obj:ObjetoFisico resources from the configured
// object endpoint whose IRI, title or summary matches keyword.
func (s *Service) ListPhysicalObjects(ctx context.Context, keyword string) (*sparql.Response, error) {
	where := sparql.Where(sparql.T(vObj, sparql.A, sparql.ObjFisico))
	where = append(where, objectDetails()...)
	where = append(where,
		sparql.Opt(sparql.T(vObj, sparql.RDFType, vTipo)),
		sparql.KeywordFilter(keyword, vObj, vTitulo, vResumo),
	)
	q := sparql.Select{
		Prefixes:   s.prefixes,
		Distinct:   true,
		Projection: objectProjection(),
		Where:      sparql.Where(where...),
		OrderBy:    []sparql.Order{sparql.Asc(vTitulo)},
	}
	return s.client.Query(ctx, s.sparql.ObjectQueryURL, q.String())
}

// ListDimensionalObjects lists people, times, places and events matching
// keyword.
func (s *Service) ListDimensionalObjects(ctx context.Context, repository, keyword string) (*sparql.Response, error) {
	where := sparql.Where(
		sparql.T(vObj, sparql.A, vTipo),
		sparql.Filter{Expr: sparql.Or(
			sparql.Eq(sparql.E(vTipo), sparql.E(sparql.ObjPessoa)),
			sparql.Eq(sparql.E(vTipo), sparql.E(sparql.ObjTempo)),
			sparql.Eq(sparql.E(vTipo), sparql.E(sparql.ObjLugar)),
			sparql.Eq(sparql.E(vTipo), sparql.E(sparql.ObjEvento)),
		)},
	)
	where = append(where, objectDetails()...)
	where = append(where, sparql.KeywordFilter(keyword, vObj, vTitulo, vResumo, vDescricao))
	q := sparql.Select{
		Prefixes:   s.prefixes,
		Distinct:   true,
		Projection: objectProjection(),
		Where:      sparql.Where(where...),
		OrderBy:    []sparql.Order{sparql.Asc(vTitulo)},
	}
	return s.client.Query(ctx, repository, q.String())
}

// ListAllObjects lists titled resources, restricted to the class mapped
// from kind (quem, quando, onde, oque, fisico) when it is known.
func (s *Service) ListAllObjects(ctx context.Context, repository, kind, keyword string) (*sparql.Response, error) {
	q := s.listAllQuery(kind, keyword)
	return s.client.Query(ctx, repository, q.String())
}

func (s *Service) listAllQuery(kind, keyword string) sparql.Select {
	where := sparql.Where(sparql.T(vObj, sparql.DCTitle, vTitulo))
	if class, ok := DimensionTypes[strings.ToLower(kind)]; ok {
		where = append(where, sparql.T(vObj, sparql.A, class))
	}
	where = append(where,
		sparql.Opt(sparql.T(vObj, sparql.RDFType, vTipo)),
		sparql.Opt(sparql.T(vObj, sparql.DCDescription, vDescricao)),
		sparql.Opt(sparql.T(vObj, sparql.GeoLat, vLat)),
		sparql.Opt(sparql.T(vObj, sparql.GeoLong, vLong)),
	)
	where = append(where, summaryPatterns(vObj, vResumo)...)
	where = append(where, sparql.KeywordFilter(keyword, vObj, vTitulo, vResumo, vDescricao))
	return sparql.Select{
		Prefixes:   s.prefixes,
		Distinct:   true,
		Projection: objectProjection(),
		Where:      sparql.Where(where...),
		OrderBy:    []sparql.Order{sparql.Asc(vTitulo)},
	}
}

// NewObject creates a dimensional object.
type NewObject struct {
	UpdateEndpoint  string
	BaseURI         string
	Type            string
	Title           string
	Summary         string
	Description     string
	Coordinates     string
	Relations       []string
	AssociatedMedia []string
}

// CreatedObject identifies a created object.
type CreatedObject struct {
	ID  string
	IRI sparql.IRI
}

// CreateObject mints <base><uuid> and inserts its description.
func (s *Service) CreateObject(ctx context.Context, in NewObject) (*CreatedObject, error) {
	id := uuid.NewString()
	obj, err := ObjectIRI(in.BaseURI, id)
	if err != nil {
		return nil, invalid("repository_base_uri", err)
	}
	kind, err := iriField(in.Type, "tipo_uri")
	if err != nil {
		return nil, err
	}

	triples := []sparql.Triple{
		sparql.T(obj, sparql.RDFType, kind),
		sparql.T(obj, sparql.RDFType, sparql.ObjDimensional),
		sparql.T(obj, sparql.DCTitle, sparql.NewLiteral(in.Title)),
		sparql.T(obj, s.summary, sparql.NewLiteral(in.Summary)),
	}
	if in.Description != "" {
		triples = append(triples, sparql.T(obj, sparql.DCDescription, sparql.NewLiteral(in.Description)))
	}
	if in.Coordinates != "" {
		geo, err := coordinateTriples(obj, in.Coordinates)
		if err != nil {
			return nil, err
		}
		triples = append(triples, geo...)
	}
	for _, rel := range in.Relations {
		target, err := iriField(rel, "temRelacao")
		if err != nil {
			return nil, err
		}
		triples = append(triples, sparql.T(obj, sparql.ObjTemRelacao, target))
	}
	for _, media := range in.AssociatedMedia {
		target, err := iriField(media, "associatedMedia")
		if err != nil {
			return nil, err
		}
		triples = append(triples, sparql.T(obj, sparql.SchemaAssocMedia, target))
	}

	update := sparql.InsertData{Prefixes: s.prefixes, Triples: triples}
	if err := s.client.Update(ctx, in.UpdateEndpoint, update.String()); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("object", obj.Value()).Msg("Dimensional object created")
	return &CreatedObject{ID: id, IRI: obj}, nil
}

func coordinateTriples(obj sparql.IRI, coords string) ([]sparql.Triple, error) {
	lat, lon, err := validation.ParseCoords(coords)
	if err != nil {
		return nil, invalid("coordenadas", err)
	}
	return []sparql.Triple{
		sparql.T(obj, sparql.GeoLat, sparql.NewLiteral(strconv.FormatFloat(lat, 'f', -1, 64))),
		sparql.T(obj, sparql.GeoLong, sparql.NewLiteral(strconv.FormatFloat(lon, 'f', -1, 64))),
	}, nil
}

// DeleteObject removes every triple where the object is the subject or the
// object. identifier is a full IRI or a local id under baseURI.
func (s *Service) DeleteObject(ctx context.Context, updateEndpoint, identifier, baseURI string) (sparql.IRI, error) {
	obj, err := resolveIRI(identifier, baseURI, "object_uri_to_delete")
	if err != nil {
		return sparql.IRI{}, err
	}
	p, o, ps, sub := sparql.V("p"), sparql.V("o"), sparql.V("p_inv"), sparql.V("s")
	update := sparql.Modify{
		Prefixes: s.prefixes,
		Delete: []sparql.Triple{
			sparql.T(obj, p, o),
			sparql.T(sub, ps, obj),
		},
		Where: sparql.Where(sparql.Union{
			sparql.Group{sparql.T(obj, p, o)},
			sparql.Group{sparql.T(sub, ps, obj)},
		}),
	}
	if err := s.client.Update(ctx, updateEndpoint, update.String()); err != nil {
		return sparql.IRI{}, err
	}
	logging.Ctx(ctx).Info().Str("object", obj.Value()).Msg("Object deleted")
	return obj, nil
}

// ObjectUpdate replaces an object's values. Description and Coordinates are
// only touched when their Set flag is true; set but empty removes them.
type ObjectUpdate struct {
	UpdateEndpoint string
	ObjectIRI      string
	Title          string
	Summary        string

	Description    string
	DescriptionSet bool
	Coordinates    string
	CoordinatesSet bool
}

// UpdateObject rewrites title and summary, and optionally description and
// coordinates, of an existing object. Nothing happens if the object has no
// triples.
func (s *Service) UpdateObject(ctx context.Context, in ObjectUpdate) (sparql.IRI, error) {
	obj, err := iriField(in.ObjectIRI, "object_uri_to_update")
	if err != nil {
		return sparql.IRI{}, err
	}
	oldTitle, oldAbstract, oldSubject := sparql.V("oldTitle"), sparql.V("oldAbstract"), sparql.V("oldSubject")

	del := []sparql.Triple{
		sparql.T(obj, sparql.DCTitle, oldTitle),
		sparql.T(obj, sparql.DCAbstract, oldAbstract),
		sparql.T(obj, sparql.DCSubject, oldSubject),
	}
	ins := []sparql.Triple{
		sparql.T(obj, sparql.DCTitle, sparql.NewLiteral(in.Title)),
		sparql.T(obj, s.summary, sparql.NewLiteral(in.Summary)),
	}
	where := sparql.Where(
		sparql.T(obj, sparql.V("anyProp"), sparql.V("anyVal")),
		sparql.Opt(sparql.T(obj, sparql.DCTitle, oldTitle)),
		sparql.Opt(sparql.T(obj, sparql.DCAbstract, oldAbstract)),
		sparql.Opt(sparql.T(obj, sparql.DCSubject, oldSubject)),
	)

	if in.DescriptionSet {
		oldDesc := sparql.V("oldDescription")
		del = append(del, sparql.T(obj, sparql.DCDescription, oldDesc))
		where = append(where, sparql.Opt(sparql.T(obj, sparql.DCDescription, oldDesc)))
		if strings.TrimSpace(in.Description) != "" {
			ins = append(ins, sparql.T(obj, sparql.DCDescription, sparql.NewLiteral(in.Description)))
		}
	}
	if in.CoordinatesSet {
		oldLat, oldLong := sparql.V("oldLat"), sparql.V("oldLong")
		del = append(del, sparql.T(obj, sparql.GeoLat, oldLat), sparql.T(obj, sparql.GeoLong, oldLong))
		where = append(where,
			sparql.Opt(sparql.T(obj, sparql.GeoLat, oldLat)),
			sparql.Opt(sparql.T(obj, sparql.GeoLong, oldLong)),
		)
		if strings.TrimSpace(in.Coordinates) != "" {
			geo, err := coordinateTriples(obj, in.Coordinates)
			if err != nil {
				return sparql.IRI{}, err
			}
			ins = append(ins, geo...)
		}
	}

	update := sparql.Modify{Prefixes: s.prefixes, Delete: del, Insert: ins, Where: where}
	if err := s.client.Update(ctx, in.UpdateEndpoint, update.String()); err != nil {
		return sparql.IRI{}, err
	}
	logging.Ctx(ctx).Info().Str("object", obj.Value()).Msg("Object updated")
	return obj, nil
}

// LegacyObjectUpdate is the older update form addressed by local id.
type LegacyObjectUpdate struct {
	UpdateEndpoint string
	BaseURI        string
	ID             string
	Title          string
	Summary        string
	Description    string
}

// UpdateObjectLegacy replaces title, summary and description of
// <base><id>.
func (s *Service) UpdateObjectLegacy(ctx context.Context, in LegacyObjectUpdate) (sparql.IRI, error) {
	obj, err := ObjectIRI(in.BaseURI, in.ID)
	if err != nil {
		return sparql.IRI{}, err
	}
	return s.UpdateObject(ctx, ObjectUpdate{
		UpdateEndpoint: in.UpdateEndpoint,
		ObjectIRI:      obj.Value(),
		Title:          in.Title,
		Summary:        in.Summary,
		Description:    in.Description,
		DescriptionSet: true,
	})
}

// ParseTriple reads s, p and o in the client term formats. prefixes
// resolves prefixed names such as :local.
func ParseTriple(prefixes sparql.Prefixes, s, p, o string) (sparql.Triple, error) {
	st, err := prefixes.ParseTerm(s)
	if err != nil {
		return sparql.Triple{}, invalid("s", err)
	}
	pt, err := prefixes.ParseTerm(p)
	if err != nil {
		return sparql.Triple{}, invalid("p", err)
	}
	ot, err := prefixes.ParseTerm(o)
	if err != nil {
		return sparql.Triple{}, invalid("o", err)
	}
	t, err := sparql.NewTriple(st, pt, ot)
	if err != nil {
		return sparql.Triple{}, invalid("triple", err)
	}
	return t, nil
}

// AddTriple inserts one triple.
func (s *Service) AddTriple(ctx context.Context, endpoint string, t sparql.Triple) error {
	update := sparql.InsertData{Prefixes: s.prefixes, Triples: []sparql.Triple{t}}
	return s.client.Update(ctx, endpoint, update.String())
}

// RemoveTriple deletes one triple.
func (s *Service) RemoveTriple(ctx context.Context, endpoint string, t sparql.Triple) error {
	update := sparql.DeleteData{Prefixes: s.prefixes, Triples: []sparql.Triple{t}}
	return s.client.Update(ctx, endpoint, update.String())
}

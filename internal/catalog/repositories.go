// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/sparql"
)

var (
	// ErrNoRepositories is returned by MainData when the repository graph
	// is empty.
	ErrNoRepositories = fmt.Errorf("%w: no repository records", ErrNotFound)

	// ErrNoRepositoryAnswered is returned by MainData when every
	// repository endpoint failed.
	ErrNoRepositoryAnswered = fmt.Errorf("%w: no repository endpoint answered", ErrNotFound)
)

var (
	vRepositorio = sparql.V("repositorio")
	vNome        = sparql.V("nome")
	vURI         = sparql.V("uri")
	vContato     = sparql.V("contato")
	vResponsavel = sparql.V("responsavel")
	vImagem      = sparql.V("imagem")
)

// Repository is one record of the repository graph.
type Repository struct {
	IRI         string `json:"-"`
	Nome        string `json:"nome"`
	URI         string `json:"uri"`
	Contato     string `json:"contato"`
	Descricao   string `json:"descricao"`
	Responsavel string `json:"responsavel"`
}

// RepositoryInput creates or replaces a repository record. Image is an
// optional media IRI.
type RepositoryInput struct {
	URI         string
	Nome        string
	Contato     string
	Descricao   string
	Responsavel string
	Image       string
}

func (s *Service) repositoryQuery(filter sparql.Pattern) sparql.Select {
	return sparql.Select{
		Prefixes:   s.prefixes,
		Distinct:   true,
		Projection: []sparql.Projection{vRepositorio, vNome, vURI, vContato, vDescricao, vResponsavel, vImagem},
		Where: sparql.Where(
			sparql.T(vRepositorio, sparql.RpaNome, vNome),
			sparql.Opt(sparql.T(vRepositorio, sparql.RpaURI, vURI)),
			sparql.Opt(sparql.T(vRepositorio, sparql.RpaContato, vContato)),
			sparql.Opt(sparql.T(vRepositorio, sparql.RpaDescricao, vDescricao)),
			sparql.Opt(sparql.T(vRepositorio, sparql.RpaResponsavel, vResponsavel)),
			sparql.Opt(sparql.T(vRepositorio, sparql.SchemaAssocMedia, vImagem)),
			filter,
		),
		OrderBy: []sparql.Order{sparql.Asc(vNome)},
	}
}

// ListRepositories returns the repository records, restricted to those
// named exactly name when it is not empty.
func (s *Service) ListRepositories(ctx context.Context, name string) (*sparql.Response, error) {
	var filter sparql.Pattern
	if name = strings.TrimSpace(name); name != "" {
		filter = sparql.Filter{Expr: sparql.Eq(sparql.Str(vNome), sparql.E(sparql.NewLiteral(name)))}
	}
	q := s.repositoryQuery(filter)
	return s.client.Query(ctx, s.sparql.RepoQueryURL, q.String())
}

// Repositories returns every record as parsed bindings.
func (s *Service) Repositories(ctx context.Context) (*sparql.Results, error) {
	q := s.repositoryQuery(nil)
	return s.client.Select(ctx, s.sparql.RepoQueryURL, q.String())
}

// RepositoryByName finds the record whose nome equals name, ignoring case.
func (s *Service) RepositoryByName(ctx context.Context, name string) (*Repository, error) {
	filter := sparql.Filter{Expr: sparql.Eq(
		sparql.LCase(sparql.Str(vNome)),
		sparql.LCase(sparql.E(sparql.NewLiteral(strings.TrimSpace(name)))),
	)}
	q := s.repositoryQuery(filter)
	q.Limit = 1
	res, err := s.client.Select(ctx, s.sparql.RepoQueryURL, q.String())
	if err != nil {
		return nil, err
	}
	rows := res.Rows()
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: repository %q", ErrNotFound, name)
	}
	row := rows[0]
	return &Repository{
		IRI:         row.Get("repositorio"),
		Nome:        row.Get("nome"),
		URI:         row.Get("uri"),
		Contato:     row.Get("contato"),
		Descricao:   row.Get("descricao"),
		Responsavel: row.Get("responsavel"),
	}, nil
}

func (s *Service) repositoryIRI(uri string) (sparql.IRI, error) {
	iri, err := sparql.NewIRI(s.repoBase + uri)
	if err != nil {
		return sparql.IRI{}, invalid("uri", err)
	}
	return iri, nil
}

func repositoryTriples(repo sparql.IRI, in RepositoryInput) []sparql.Triple {
	return []sparql.Triple{
		sparql.T(repo, sparql.RpaURI, sparql.NewLiteral(in.URI)),
		sparql.T(repo, sparql.RpaNome, sparql.NewLiteral(in.Nome)),
		sparql.T(repo, sparql.RpaContato, sparql.NewLiteral(in.Contato)),
		sparql.T(repo, sparql.RpaDescricao, sparql.NewLiteral(in.Descricao)),
		sparql.T(repo, sparql.RpaResponsavel, sparql.NewLiteral(in.Responsavel)),
	}
}

// CreateRepository inserts <prefix_base_repo><uri> a rpa:Repositorio with
// its descriptive values.
func (s *Service) CreateRepository(ctx context.Context, in RepositoryInput) (sparql.IRI, error) {
	repo, err := s.repositoryIRI(in.URI)
	if err != nil {
		return sparql.IRI{}, err
	}
	triples := append([]sparql.Triple{sparql.T(repo, sparql.RDFType, sparql.RpaRepositorio)}, repositoryTriples(repo, in)...)
	if in.Image != "" {
		img, err := iriField(in.Image, "imagem")
		if err != nil {
			return sparql.IRI{}, err
		}
		triples = append(triples, sparql.T(repo, sparql.SchemaAssocMedia, img))
	}
	update := sparql.InsertData{Prefixes: s.prefixes, Triples: triples}
	if err := s.client.Update(ctx, s.sparql.RepoUpdateURL, update.String()); err != nil {
		return sparql.IRI{}, err
	}
	logging.Ctx(ctx).Info().Str("repository", repo.Value()).Msg("Repository created")
	return repo, nil
}

// UpdateRepository replaces the descriptive values of a record. The image
// is replaced only when in.Image is set.
func (s *Service) UpdateRepository(ctx context.Context, in RepositoryInput) (sparql.IRI, error) {
	repo, err := s.repositoryIRI(in.URI)
	if err != nil {
		return sparql.IRI{}, err
	}
	olds := []sparql.Var{sparql.V("oldUri"), sparql.V("oldNome"), sparql.V("oldContato"), sparql.V("oldDescricao"), sparql.V("oldResponsavel")}
	preds := []sparql.PrefixedName{sparql.RpaURI, sparql.RpaNome, sparql.RpaContato, sparql.RpaDescricao, sparql.RpaResponsavel}

	var del []sparql.Triple
	var where []sparql.Pattern
	for i, p := range preds {
		del = append(del, sparql.T(repo, p, olds[i]))
		where = append(where, sparql.Opt(sparql.T(repo, p, olds[i])))
	}
	ins := repositoryTriples(repo, in)
	if in.Image != "" {
		img, err := iriField(in.Image, "imagem")
		if err != nil {
			return sparql.IRI{}, err
		}
		oldImg := sparql.V("oldImagem")
		del = append(del, sparql.T(repo, sparql.SchemaAssocMedia, oldImg))
		where = append(where, sparql.Opt(sparql.T(repo, sparql.SchemaAssocMedia, oldImg)))
		ins = append(ins, sparql.T(repo, sparql.SchemaAssocMedia, img))
	}

	update := sparql.Modify{Prefixes: s.prefixes, Delete: del, Insert: ins, Where: where}
	if err := s.client.Update(ctx, s.sparql.RepoUpdateURL, update.String()); err != nil {
		return sparql.IRI{}, err
	}
	logging.Ctx(ctx).Info().Str("repository", repo.Value()).Msg("Repository updated")
	return repo, nil
}

// MainData is the payload of the collection overview graph.
type MainData struct {
	Collections []sparql.Binding `json:"collections"`
	Objects     []sparql.Binding `json:"objects"`
	LoadedFrom  string           `json:"loaded_from"`
}

// MainData lists the repositories and returns the objects of the first one
// whose endpoint answers. Failing repositories are skipped.
func (s *Service) MainData(ctx context.Context) (*MainData, error) {
	repos, err := s.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	collections := repos.Rows()
	if len(collections) == 0 {
		return nil, ErrNoRepositories
	}

	objects := s.listAllQuery("", "")
	log := logging.Ctx(ctx)
	for _, row := range collections {
		uri := row.Get("uri")
		if uri == "" {
			log.Warn().Str("repository", row.Get("repositorio")).Msg("Repository has no uri, skipping")
			continue
		}
		endpoint := sparql.QueryEndpoint(uri)
		res, err := s.client.Select(ctx, endpoint, objects.String())
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("Repository did not answer, trying next")
			continue
		}
		log.Info().Str("endpoint", endpoint).Msg("Main data loaded")
		rows := res.Rows()
		if rows == nil {
			rows = []sparql.Binding{}
		}
		return &MainData{Collections: collections, Objects: rows, LoadedFrom: endpoint}, nil
	}
	return nil, ErrNoRepositoryAnswered
}

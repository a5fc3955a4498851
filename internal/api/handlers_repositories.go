// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"errors"
	"net/http"

	"github.com/alisoncf/guara/internal/catalog"
)

const (
	msgRepositoryCreated = "Repositório adicionado com sucesso"
	msgRepositoryUpdated = "Repositório alterado com sucesso"
	msgDatasetCreated    = "Dataset criado com sucesso"
	msgNoRepositories    = "Nenhum repositório de dados foi encontrado no dataset de metadados."
	msgNoRepoAnswered    = "Não foi possível carregar os dados de nenhum dos repositórios configurados."
)

// RepositoryList lists repository records, optionally by exact name.
func (h *Handler) RepositoryList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req RepositoryListRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	resp, err := h.catalog.ListRepositories(r.Context(), req.Name)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Upstream(resp)
}

// RepositoryCreate inserts a repository record.
func (h *Handler) RepositoryCreate(w http.ResponseWriter, r *http.Request) {
	h.writeRepository(w, r, false)
}

// RepositoryUpdate replaces the values of a repository record.
func (h *Handler) RepositoryUpdate(w http.ResponseWriter, r *http.Request) {
	h.writeRepository(w, r, true)
}

func (h *Handler) writeRepository(w http.ResponseWriter, r *http.Request, replace bool) {
	rw := NewResponseWriter(w, r)
	var req RepositoryRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	in := catalog.RepositoryInput{
		URI:         req.URI,
		Nome:        req.Nome,
		Contato:     req.Contato,
		Descricao:   req.Descricao,
		Responsavel: req.Responsavel,
		Image:       req.Imagem,
	}
	write, message := h.catalog.CreateRepository, msgRepositoryCreated
	if replace {
		write, message = h.catalog.UpdateRepository, msgRepositoryUpdated
	}
	iri, err := write(r.Context(), in)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": message, "id": iri.Value()})
}

// DatasetCreate asks the Fuseki admin endpoint for a new dataset and passes
// its status through.
func (h *Handler) DatasetCreate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req DatasetRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	resp, err := h.admin.CreateDataset(r.Context(), req.Nome, req.Tipo)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.JSON(resp.StatusCode, map[string]string{"message": msgDatasetCreated, "nome": req.Nome})
}

// MainData returns the repository list and the objects of the first
// repository that answers.
func (h *Handler) MainData(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	data, err := h.catalog.MainData(r.Context())
	switch {
	case errors.Is(err, catalog.ErrNoRepositories):
		rw.Error(http.StatusNotFound, ErrKindNotFound, msgNoRepositories)
	case errors.Is(err, catalog.ErrNoRepositoryAnswered):
		rw.Error(http.StatusNotFound, ErrKindNotFound, msgNoRepoAnswered)
	case err != nil:
		rw.FromError(err)
	default:
		rw.OK(data)
	}
}

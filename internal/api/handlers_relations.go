// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"net/http"

	"github.com/alisoncf/guara/internal/catalog"
)

const (
	msgResourceAdded   = "Objeto digital adicionado com sucesso"
	msgResourceDeleted = "Objeto excluído com sucesso"
)

// RelationList lists an object's outgoing and incoming relations.
func (h *Handler) RelationList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req RelationListRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	resp, err := h.catalog.ListRelations(r.Context(), req.Repository, req.ID, req.Keyword)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Upstream(resp)
}

// RelationAdd inserts a property value of :<id>.
func (h *Handler) RelationAdd(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req RelationAddRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	err := h.catalog.AddRelation(r.Context(), catalog.RelationInput{
		Repository:   req.Repository,
		ID:           req.ID,
		Property:     req.Propriedade,
		Value:        req.Valor,
		ResourceKind: req.TipoRecurso,
		Complement:   req.Complemento,
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgResourceAdded, "id": req.ID})
}

// RelationDelete removes every triple with :<id> as subject.
func (h *Handler) RelationDelete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req ResourceRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	if err := h.catalog.DeleteResource(r.Context(), req.Repository, req.ID); err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgResourceDeleted, "id": req.ID})
}

// RelationRemove deletes one triple of a dataset.
func (h *Handler) RelationRemove(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req RelationTripleRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	t, err := h.catalog.RemoveRelation(r.Context(), req.Repository, req.S, req.P, req.O)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgRelationDeleted, "triple": t.String()})
}

// RelationUpdate replaces title, description and summary of :<id>.
func (h *Handler) RelationUpdate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req ResourceUpdateRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	err := h.catalog.UpdateResource(r.Context(), catalog.ResourceUpdate{
		Repository:  req.Repository,
		ID:          req.ID,
		Title:       req.Titulo,
		Description: req.Descricao,
		Summary:     req.Resumo,
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgObjectUpdated, "id": req.ID})
}

// RelationAddMedia links a media IRI to a resource through a property.
func (h *Handler) RelationAddMedia(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req MediaRelationRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	t, err := h.catalog.AddMediaRelation(r.Context(), req.Repository, req.O, req.Propriedade, "<"+req.MidiaURI+">")
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgResourceAdded, "id": req.O, "triple": t.String()})
}

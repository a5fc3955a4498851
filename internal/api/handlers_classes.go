// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"context"
	"net/http"

	"github.com/alisoncf/guara/internal/catalog"
	"github.com/alisoncf/guara/internal/sparql"
)

const (
	msgClassAdded   = "Classe adicionada com sucesso"
	msgClassUpdated = "Classe alterada com sucesso"
	msgClassDeleted = "Classe excluída com sucesso"
)

// ClassList lists owl:Class resources of a repository.
func (h *Handler) ClassList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req ClassListRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	resp, err := h.catalog.ListClasses(r.Context(), catalog.ClassQuery{
		Repository: req.Repository,
		Keyword:    req.Keyword,
		OrderBy:    req.OrderBy,
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Upstream(resp)
}

// ClassAdd creates a class named after its label.
func (h *Handler) ClassAdd(w http.ResponseWriter, r *http.Request) {
	h.writeClass(w, r, h.catalog.AddClass, msgClassAdded)
}

// ClassUpdate replaces label, comment and superclass of a class.
func (h *Handler) ClassUpdate(w http.ResponseWriter, r *http.Request) {
	h.writeClass(w, r, h.catalog.UpdateClass, msgClassUpdated)
}

type classWriter func(ctx context.Context, in catalog.ClassInput) (sparql.IRI, error)

func (h *Handler) writeClass(w http.ResponseWriter, r *http.Request, write classWriter, message string) {
	rw := NewResponseWriter(w, r)
	var req ClassRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	iri, err := write(r.Context(), catalog.ClassInput{
		Repository: req.Repository,
		Label:      req.Label,
		Comment:    req.Comment,
		SubclassOf: req.SubclassOf,
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": message, "id": req.Label, "uri": iri.Value()})
}

// ClassDelete removes a class that has no subclasses.
func (h *Handler) ClassDelete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req ClassDeleteRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	if err := h.catalog.DeleteClass(r.Context(), req.Repository, req.Label); err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgClassDeleted, "id": req.Label})
}

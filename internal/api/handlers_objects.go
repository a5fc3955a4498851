// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"net/http"
	"strings"

	"github.com/alisoncf/guara/internal/catalog"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/sparql"
)

const (
	msgObjectCreated   = "Objeto dimensional adicionado com sucesso"
	msgObjectUpdated   = "Objeto atualizado com sucesso"
	msgObjectDeleted   = "Objeto excluído com sucesso"
	msgRelationAdded   = "Relação adicionada com sucesso"
	msgRelationDeleted = "Relação excluída com sucesso"
)

// PhysicalList lists physical objects of the configured object dataset.
func (h *Handler) PhysicalList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req PhysicalListRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	resp, err := h.catalog.ListPhysicalObjects(r.Context(), req.Keyword)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Upstream(resp)
}

// DimensionalList lists people, times, places and events of a repository.
func (h *Handler) DimensionalList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req DimensionalListRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	resp, err := h.catalog.ListDimensionalObjects(r.Context(), req.Repository, req.Keyword)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Upstream(resp)
}

// DimensionalListAll lists titled resources, optionally of one kind.
func (h *Handler) DimensionalListAll(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req ListAllRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	resp, err := h.catalog.ListAllObjects(r.Context(), req.Repository, req.Type, req.Keyword)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Upstream(resp)
}

// ObjectFile pairs a file name with its associated media IRI, if any.
type ObjectFile struct {
	Nome string  `json:"nome"`
	URI  *string `json:"uri"`
}

// ObjectFilesResponse is the answer of /dim/listar_arquivos.
type ObjectFilesResponse struct {
	ArquivosLocais     []string        `json:"arquivos_locais"`
	ArquivosSPARQL     *sparql.Results `json:"arquivos_sparql"`
	ArquivosCombinados []ObjectFile    `json:"arquivos_combinados"`
	PathFolder         string          `json:"path_folder"`
}

// ObjectFiles lists an object's upload folder next to its associated media.
// The object lives in the namespace "<dataset>#" derived from the query
// endpoint. A failing query leaves only the local files.
func (h *Handler) ObjectFiles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req ObjectFilesRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	local, err := h.store.List(req.ObjetoID)
	if err != nil {
		rw.FromError(err)
		return
	}
	dir, _ := h.store.Dir(req.ObjetoID)

	results := &sparql.Results{}
	base := req.Repositorio[:strings.LastIndex(req.Repositorio, "/")] + "#"
	if obj, err := catalog.ObjectIRI(base, req.ObjetoID); err == nil {
		res, err := h.catalog.AssociatedMedia(r.Context(), req.Repositorio, obj)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("objeto_id", req.ObjetoID).Msg("Associated media query failed")
		} else {
			results = res
		}
	}

	index := make(map[string]int, len(local))
	combined := make([]ObjectFile, 0, len(local))
	for _, name := range local {
		index[name] = len(combined)
		combined = append(combined, ObjectFile{Nome: name})
	}
	for _, row := range results.Rows() {
		uri := row.Get("media_uri")
		if uri == "" {
			continue
		}
		name := catalog.MediaFileName(uri)
		if i, ok := index[name]; ok {
			combined[i].URI = &uri
			continue
		}
		index[name] = len(combined)
		combined = append(combined, ObjectFile{Nome: name, URI: &uri})
	}

	rw.OK(ObjectFilesResponse{
		ArquivosLocais:     local,
		ArquivosSPARQL:     results,
		ArquivosCombinados: combined,
		PathFolder:         dir,
	})
}

// ObjectCreate mints a dimensional object under the repository base URI.
func (h *Handler) ObjectCreate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req CreateObjectRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	created, err := h.catalog.CreateObject(r.Context(), catalog.NewObject{
		UpdateEndpoint:  req.RepositoryUpdateURL,
		BaseURI:         req.RepositoryBaseURI,
		Type:            req.TipoURI,
		Title:           req.Titulo,
		Summary:         req.Resumo,
		Description:     req.Descricao,
		Coordinates:     strings.TrimSpace(req.Coordenadas),
		Relations:       req.TemRelacao,
		AssociatedMedia: req.AssociatedMedia,
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Created(map[string]string{
		"message":    msgObjectCreated,
		"id":         created.ID,
		"object_uri": created.IRI.Value(),
	})
}

// ObjectDelete removes every triple that mentions the object.
func (h *Handler) ObjectDelete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req DeleteObjectRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	obj, err := h.catalog.DeleteObject(r.Context(), req.RepositoryUpdateURL, req.ObjectURIToDelete, req.RepositoryBaseURI)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgObjectDeleted, "object_uri": obj.Value()})
}

// ObjectUpdate rewrites title and summary, and description or coordinates
// when the request carries them.
func (h *Handler) ObjectUpdate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req UpdateObjectRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	in := catalog.ObjectUpdate{
		UpdateEndpoint: req.RepositoryUpdateURL,
		ObjectIRI:      req.ObjectURIToUpdate,
		Title:          req.Titulo,
		Summary:        req.Resumo,
	}
	if req.Descricao != nil {
		in.Description, in.DescriptionSet = *req.Descricao, true
	}
	if req.Coordenadas != nil {
		in.Coordinates, in.CoordinatesSet = strings.TrimSpace(*req.Coordenadas), true
	}
	obj, err := h.catalog.UpdateObject(r.Context(), in)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgObjectUpdated, "object_uri": obj.Value()})
}

// ObjectUpdateLegacy replaces title, summary and description of a local id.
func (h *Handler) ObjectUpdateLegacy(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req LegacyUpdateRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	_, err := h.catalog.UpdateObjectLegacy(r.Context(), catalog.LegacyObjectUpdate{
		UpdateEndpoint: req.RepositoryUpdateURL,
		BaseURI:        req.RepositoryBaseURI,
		ID:             req.ID,
		Title:          req.Titulo,
		Summary:        req.Resumo,
		Description:    req.Descricao,
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgObjectUpdated, "id": req.ID})
}

// ObjectAddTriple inserts one triple given as s, p, o terms.
func (h *Handler) ObjectAddTriple(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req TripleRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	t, err := catalog.ParseTriple(h.catalog.Prefixes(), req.S, req.P, req.O)
	if err != nil {
		rw.FromError(err)
		return
	}
	if err := h.catalog.AddTriple(r.Context(), req.RepositoryUpdateURL, t); err != nil {
		rw.FromError(err)
		return
	}
	rw.Created(map[string]string{"message": msgRelationAdded, "triple": t.String()})
}

// ObjectRemoveTriple deletes one triple given as s, p, o terms.
func (h *Handler) ObjectRemoveTriple(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req TripleRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	t, err := catalog.ParseTriple(h.catalog.Prefixes(), req.S, req.P, req.O)
	if err != nil {
		rw.FromError(err)
		return
	}
	if err := h.catalog.RemoveTriple(r.Context(), req.RepositoryUpdateURL, t); err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(map[string]string{"message": msgRelationDeleted, "triple": t.String()})
}

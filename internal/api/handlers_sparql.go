// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"io"
	"net/http"
	"strings"
)

const (
	msgMissingQuery  = "Faltando parâmetro 'query'"
	msgMissingUpdate = "Faltando corpo da requisição com a atualização SPARQL"
	msgUpdateApplied = "Atualização SPARQL executada com sucesso"
)

// maxUpdateBody caps the raw update text accepted by /sparqapi/update.
const maxUpdateBody = 4 << 20

// SPARQLQuery proxies a raw query to the configured query endpoint and
// passes the answer through.
func (h *Handler) SPARQLQuery(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		rw.BadRequest(msgMissingQuery)
		return
	}
	resp, err := h.client.QueryGET(r.Context(), h.cfg.SPARQL.QueryURL, query)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Upstream(resp)
}

// SPARQLUpdate sends the raw request body as an update to the configured
// update endpoint.
func (h *Handler) SPARQLUpdate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBody))
	if err != nil {
		rw.FromError(err)
		return
	}
	update := string(body)
	if strings.TrimSpace(update) == "" {
		rw.BadRequest(msgMissingUpdate)
		return
	}
	if err := h.client.Update(r.Context(), h.cfg.SPARQL.UpdateURL, update); err != nil {
		rw.FromError(err)
		return
	}
	rw.Message(http.StatusOK, msgUpdateApplied)
}

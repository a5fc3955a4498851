// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"errors"
	"net"
	"net/http"

	"github.com/alisoncf/guara/internal/auth"
)

const (
	msgLoginFailed = "Usuário ou senha inválidos para esse repositório"
	msgUserAdded   = "Curador added successfully"
)

// Login exchanges a curator's credentials for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req LoginRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	result, err := h.auth.Login(r.Context(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		IP:       remoteIP(r),
	})
	if errors.Is(err, auth.ErrInvalidCredentials) {
		rw.Message(http.StatusUnauthorized, msgLoginFailed)
		return
	}
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(result)
}

// AddUser registers a curator with a bcrypt password.
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req AddUserRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	iri, err := h.auth.AddUser(r.Context(), auth.NewUser{
		Username:   req.Username,
		Password:   req.Password,
		Permission: req.Permissao,
		Email:      req.Email,
		Repository: req.Repo,
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Created(map[string]string{"message": msgUserAdded, "user": iri.Value()})
}

// remoteIP is the client address after middleware.RealIP.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

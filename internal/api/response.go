// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/alisoncf/guara/internal/auth"
	"github.com/alisoncf/guara/internal/catalog"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/media"
	"github.com/alisoncf/guara/internal/sparql"
	"github.com/alisoncf/guara/internal/validation"
)

// Error kinds carried in the "error" member of error responses.
const (
	ErrKindInvalidInput       = "Invalid input"
	ErrKindQuery              = "SPARQL Query Error"
	ErrKindUpdate             = "SPARQL Update Error"
	ErrKindNetwork            = "Network Error"
	ErrKindServiceUnavailable = "Service Unavailable"
	ErrKindNotFound           = "Not Found"
	ErrKindInternal           = "Internal Server Error"
)

// Messages shared by several handlers.
const (
	MsgClassInUseError = "Classe não pode ser excluída"
	MsgClassInUse      = "Existem registros relacionados a essa classe"
	MsgMovePending     = "Relação removida, mas o arquivo não pôde ser movido; a operação será repetida"
	MsgCoordsInvalid   = "Formato de 'coordenadas' inválido. Use 'latitude,longitude'."
	MsgInvalidJSON     = "Corpo JSON inválido"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Message   string      `json:"message,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ResponseWriter writes JSON answers for one request.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter returns a ResponseWriter for w and r.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// JSON writes v with status.
func (rw *ResponseWriter) JSON(status int, v interface{}) {
	rw.writeJSON(status, v)
}

// OK writes v with 200.
func (rw *ResponseWriter) OK(v interface{}) {
	rw.writeJSON(http.StatusOK, v)
}

// Created writes v with 201.
func (rw *ResponseWriter) Created(v interface{}) {
	rw.writeJSON(http.StatusCreated, v)
}

// Message writes {"message": message} with status.
func (rw *ResponseWriter) Message(status int, message string) {
	rw.writeJSON(status, map[string]string{"message": message})
}

// Upstream passes a triplestore answer through unmodified.
func (rw *ResponseWriter) Upstream(resp *sparql.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/sparql-results+json"
	}
	rw.w.Header().Set("Content-Type", contentType)
	rw.w.WriteHeader(resp.StatusCode)
	if _, err := rw.w.Write(resp.Body); err != nil {
		logging.Ctx(rw.r.Context()).Debug().Err(err).Msg("Failed to write upstream body")
	}
}

// Error writes an error body without details.
func (rw *ResponseWriter) Error(status int, kind, message string) {
	rw.ErrorWithDetails(status, kind, message, nil)
}

// ErrorWithDetails writes an error body.
func (rw *ResponseWriter) ErrorWithDetails(status int, kind, message string, details interface{}) {
	rw.writeJSON(status, ErrorResponse{
		Error:     kind,
		Message:   message,
		Details:   details,
		RequestID: logging.RequestIDFromContext(rw.r.Context()),
	})
}

// BadRequest writes a 400 "Invalid input" answer.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrKindInvalidInput, message)
}

// Validation writes a validator failure.
func (rw *ResponseWriter) Validation(verr *validation.RequestValidationError) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrKindInvalidInput, verr.FirstMessage(), verr.Details())
}

// Internal logs err and writes a 500.
func (rw *ResponseWriter) Internal(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Request failed")
	rw.Error(http.StatusInternalServerError, ErrKindInternal, err.Error())
}

// FromError maps a service error to its status and error kind.
func (rw *ResponseWriter) FromError(err error) {
	status, kind, message, details := classify(err)
	log := logging.Ctx(rw.r.Context())
	switch {
	case status >= http.StatusInternalServerError:
		log.Error().Err(err).Int("status", status).Msg("Request failed")
	default:
		log.Warn().Err(err).Int("status", status).Msg("Request rejected")
	}
	rw.ErrorWithDetails(status, kind, message, details)
}

func classify(err error) (status int, kind, message string, details interface{}) {
	var (
		verr     *validation.RequestValidationError
		upstream *sparql.UpstreamError
		network  *sparql.NetworkError
		field    *catalog.FieldError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrKindInvalidInput, verr.FirstMessage(), verr.Details()
	case errors.Is(err, errMalformedJSON):
		return http.StatusBadRequest, ErrKindInvalidInput, MsgInvalidJSON, nil
	case errors.Is(err, catalog.ErrClassInUse):
		return http.StatusBadRequest, MsgClassInUseError, MsgClassInUse, nil
	case errors.As(err, &field) && field.Field == "coordenadas":
		return http.StatusBadRequest, ErrKindInvalidInput, MsgCoordsInvalid, nil
	case errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, sparql.ErrInvalidEndpoint),
		errors.Is(err, sparql.ErrEndpointNotAllowed),
		errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, media.ErrInvalidObjectID),
		errors.Is(err, media.ErrInvalidFileName),
		errors.Is(err, media.ErrExtensionNotAllowed),
		errors.Is(err, media.ErrFileTooLarge):
		return http.StatusBadRequest, ErrKindInvalidInput, err.Error(), nil
	case errors.As(err, &upstream):
		kind = ErrKindQuery
		if upstream.Op == sparql.OpUpdate {
			kind = ErrKindUpdate
		}
		return upstream.StatusCode, kind, upstream.Body, nil
	case errors.Is(err, sparql.ErrCircuitOpen):
		return http.StatusServiceUnavailable, ErrKindServiceUnavailable, err.Error(), nil
	case errors.As(err, &network), errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, ErrKindNetwork, err.Error(), nil
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, ErrKindNotFound, err.Error(), nil
	case errors.Is(err, media.ErrMovePending):
		return http.StatusInternalServerError, ErrKindInternal, MsgMovePending, nil
	default:
		return http.StatusInternalServerError, ErrKindInternal, err.Error(), nil
	}
}

// WriteAuthError renders non-token failures of the token check.
func WriteAuthError(w http.ResponseWriter, r *http.Request, err error) {
	NewResponseWriter(w, r).FromError(err)
}

func (rw *ResponseWriter) writeJSON(status int, v interface{}) {
	rw.w.Header().Set("Content-Type", "application/json")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(v); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

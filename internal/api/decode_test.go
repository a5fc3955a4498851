// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alisoncf/guara/internal/validation"
)

const testRepo = "http://fuseki:3030/colecao"

func TestDecodeRequest_JSONBody(t *testing.T) {
	t.Parallel()

	body := `{"titulo":"Casa","resumo":"Sede","tipo_uri":"http://guara.ueg.br/ontologias/v1/objetos#Lugar",` +
		`"repository_update_url":"` + testRepo + `/update","repository_base_uri":"http://guara.ueg.br/ontologias/v1/objetos#",` +
		`"temRelacao":["http://x/a","http://x/b"]}`
	r := httptest.NewRequest(http.MethodPost, "/dim/create", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")

	var req CreateObjectRequest
	if err := decodeRequest(r, &req); err != nil {
		t.Fatalf("decodeRequest: %v", err)
	}
	if req.Titulo != "Casa" || req.RepositoryUpdateURL != testRepo+"/update" {
		t.Errorf("decoded = %+v", req)
	}
	if diff := cmp.Diff([]string{"http://x/a", "http://x/b"}, req.TemRelacao); diff != "" {
		t.Errorf("temRelacao mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRequest_FormAndQuery(t *testing.T) {
	t.Parallel()

	form := url.Values{
		"keyword":    {"pintura"},
		"repository": {testRepo + "/query"},
	}
	r := httptest.NewRequest(http.MethodPost, "/classapi/list?orderby=label", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var req ClassListRequest
	if err := decodeRequest(r, &req); err != nil {
		t.Fatalf("decodeRequest: %v", err)
	}
	want := ClassListRequest{Keyword: "pintura", Repository: testRepo + "/query", OrderBy: "label"}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRequest_RepeatedFormKeyFillsSlice(t *testing.T) {
	t.Parallel()

	form := url.Values{
		"titulo":                {"Casa"},
		"resumo":                {"Sede"},
		"tipo_uri":              {"http://guara.ueg.br/ontologias/v1/objetos#Lugar"},
		"repository_update_url": {testRepo + "/update"},
		"repository_base_uri":   {"http://guara.ueg.br/ontologias/v1/objetos#"},
		"associatedMedia":       {"http://x/1.jpg", "http://x/2.jpg"},
		"temRelacao":            {"http://x/a"},
	}
	r := httptest.NewRequest(http.MethodPost, "/dim/create", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var req CreateObjectRequest
	if err := decodeRequest(r, &req); err != nil {
		t.Fatalf("decodeRequest: %v", err)
	}
	if diff := cmp.Diff([]string{"http://x/1.jpg", "http://x/2.jpg"}, req.AssociatedMedia); diff != "" {
		t.Errorf("associatedMedia mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"http://x/a"}, req.TemRelacao); diff != "" {
		t.Errorf("temRelacao mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRequest_PresenceOfOptionalFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		body            string
		wantDescricao   *string
		wantCoordenadas *string
	}{
		{
			name: "absent",
			body: `{}`,
		},
		{
			name:          "present but empty",
			body:          `{"descricao":""}`,
			wantDescricao: strPtr(""),
		},
		{
			name:            "both present",
			body:            `{"descricao":"nova","coordenadas":"-16.6,-49.2"}`,
			wantDescricao:   strPtr("nova"),
			wantCoordenadas: strPtr("-16.6,-49.2"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := `{"object_uri_to_update":"http://x/obj","repository_update_url":"` + testRepo + `/update",` +
				`"titulo":"T","resumo":"R",` + strings.TrimPrefix(tt.body, "{")
			body = strings.Replace(body, ",}", "}", 1)
			r := httptest.NewRequest(http.MethodPut, "/dim/update", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			var req UpdateObjectRequest
			if err := decodeRequest(r, &req); err != nil {
				t.Fatalf("decodeRequest: %v", err)
			}
			if diff := cmp.Diff(tt.wantDescricao, req.Descricao); diff != "" {
				t.Errorf("descricao mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCoordenadas, req.Coordenadas); diff != "" {
				t.Errorf("coordenadas mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRequest_MalformedJSON(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/classapi/list", strings.NewReader(`{"repository":`))
	r.Header.Set("Content-Type", "application/json")

	var req ClassListRequest
	err := decodeRequest(r, &req)
	if !errors.Is(err, errMalformedJSON) {
		t.Fatalf("err = %v, want errMalformedJSON", err)
	}
}

func TestDecodeRequest_ValidationFailure(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/classapi/list?repository=not-a-url", nil)

	var req ClassListRequest
	err := decodeRequest(r, &req)
	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *RequestValidationError", err)
	}
	if len(verr.Details()) != 1 || verr.Details()[0]["field"] != "repository" {
		t.Errorf("details = %v", verr.Details())
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList([]string{"http://a/1, http://a/2", "", " http://a/3 "})
	want := []string{"http://a/1", "http://a/2", "http://a/3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if splitList(nil) != nil {
		t.Error("splitList(nil) should be nil")
	}
}

func strPtr(s string) *string { return &s }

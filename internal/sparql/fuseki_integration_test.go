// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

//go:build integration

package sparql

import (
	"context"
	"testing"
	"time"

	"github.com/alisoncf/guara/internal/testinfra"
)

func TestFusekiUpdateThenSelect(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	fuseki, err := testinfra.NewFusekiContainer(ctx, testinfra.WithDatasets("acervo"))
	if err != nil {
		t.Fatalf("start fuseki: %v", err)
	}
	testinfra.CleanupContainer(t, fuseki)

	cfg := testConfig(fuseki.QueryURL("acervo"))
	cfg.UpdateURL = fuseki.UpdateURL("acervo")
	client := NewClient(cfg)

	subject := MustIRI("http://guara.test/acervo#quadro1")
	title := MustIRI("http://purl.org/dc/elements/1.1/title")
	insert := InsertData{Triples: []Triple{T(subject, title, LangLiteral("Retrato de Dona Ana", "pt"))}}
	if err := client.Update(ctx, cfg.UpdateURL, insert.String()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	query := Select{
		Projection: []Projection{V("titulo")},
		Where:      Where(T(subject, title, V("titulo"))),
	}
	res, err := client.Select(ctx, cfg.QueryURL, query.String())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	rows := res.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if got := rows[0].Get("titulo"); got != "Retrato de Dona Ana" {
		t.Errorf("titulo = %q", got)
	}
	if rows[0]["titulo"].Lang != "pt" {
		t.Errorf("lang = %q, want pt", rows[0]["titulo"].Lang)
	}

	ok, err := client.Ask(ctx, cfg.QueryURL, Ask{Where: Where(T(subject, title, V("t")))}.String())
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !ok {
		t.Error("Ask = false after insert")
	}

	if err := client.Probe(ctx, cfg.QueryURL); err != nil {
		t.Errorf("Probe: %v", err)
	}
}

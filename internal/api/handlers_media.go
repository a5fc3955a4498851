// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/alisoncf/guara/internal/catalog"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/media"
	"github.com/alisoncf/guara/internal/sparql"
	"github.com/alisoncf/guara/internal/validation"
)

const (
	msgNothingUploaded = "Nenhum arquivo ou link enviado"
	msgUploaded        = "File uploaded successfully"
	msgMediaRemoved    = "Arquivo removido com sucesso"
	msgFolderNotFound  = "Pasta não encontrada"
)

// multipartOverhead is allowed on top of media.max_upload_bytes for form
// fields and part headers.
const multipartOverhead = 1 << 20

// MediaLink is one schema:associatedMedia row.
type MediaLink struct {
	MediaURI           string `json:"media_uri"`
	ObjetoAssociadoURI string `json:"objeto_associado_uri"`
}

// CombinedMedia reconciles a local file with the associated media IRIs.
type CombinedMedia struct {
	NomeArquivoLocal        string  `json:"nome_arquivo_local"`
	URISPARQLCorrespondente *string `json:"uri_sparql_correspondente"`
	PresenteLocalmente      bool    `json:"presente_localmente"`
	PresenteSPARQL          bool    `json:"presente_sparql"`
}

// MediaListResponse is the answer of /midias/list.
type MediaListResponse struct {
	ObjetoIDConsultado     string          `json:"objeto_id_consultado"`
	PathPastaUploads       string          `json:"path_pasta_uploads"`
	ArquivosLocais         []string        `json:"arquivos_locais"`
	MidiasAssociadasSPARQL []MediaLink     `json:"midias_associadas_sparql"`
	ArquivosCombinados     []CombinedMedia `json:"arquivos_combinados"`
}

// MediaList reports an object's local files, its associated media and how
// they match by file name. A failing query leaves only the local files.
func (h *Handler) MediaList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req MediaListRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	obj, err := catalog.ObjectIRI(req.RepositorioBase, req.ObjetoID)
	if err != nil {
		rw.FromError(err)
		return
	}
	local, err := h.store.List(req.ObjetoID)
	if err != nil {
		rw.FromError(err)
		return
	}
	folder, _ := h.store.Dir(req.ObjetoID)
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		folder = msgFolderNotFound
	}

	links := []MediaLink{}
	res, err := h.catalog.AssociatedMedia(r.Context(), req.SPARQLEndpoint, obj)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("objeto_id", req.ObjetoID).Msg("Associated media query failed")
	}
	for _, row := range res.Rows() {
		if uri := row.Get("media_uri"); uri != "" {
			links = append(links, MediaLink{MediaURI: uri, ObjetoAssociadoURI: row.Get("objeto_associado_uri")})
		}
	}

	rw.OK(MediaListResponse{
		ObjetoIDConsultado:     req.ObjetoID,
		PathPastaUploads:       folder,
		ArquivosLocais:         local,
		MidiasAssociadasSPARQL: links,
		ArquivosCombinados:     combineMedia(local, links),
	})
}

func combineMedia(local []string, links []MediaLink) []CombinedMedia {
	index := make(map[string]int, len(local))
	combined := make([]CombinedMedia, 0, len(local)+len(links))
	for _, name := range local {
		index[name] = len(combined)
		combined = append(combined, CombinedMedia{NomeArquivoLocal: name, PresenteLocalmente: true})
	}
	for _, link := range links {
		uri := link.MediaURI
		name := catalog.MediaFileName(uri)
		if i, ok := index[name]; ok {
			combined[i].URISPARQLCorrespondente = &uri
			combined[i].PresenteSPARQL = true
			continue
		}
		combined = append(combined, CombinedMedia{
			NomeArquivoLocal:        name,
			URISPARQLCorrespondente: &uri,
			PresenteSPARQL:          true,
		})
	}
	return combined
}

// UploadResponse is the answer of /uploadapi/upload.
type UploadResponse struct {
	Message  string   `json:"message"`
	ObjetoID string   `json:"objeto_id"`
	Arquivos []string `json:"arquivos"`
	Links    []string `json:"links"`
	FilePath string   `json:"file_path"`
}

// Upload stores multipart files under the object's folder and, when the
// repository is named, links files and external links to the object.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Media.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.cfg.Media.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rw.FromError(media.ErrFileTooLarge)
			return
		}
		rw.BadRequest(err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := r.MultipartForm
	files := make([]*multipart.FileHeader, 0, len(form.File["file"])+len(form.File["files"]))
	files = append(files, form.File["file"]...)
	files = append(files, form.File["files"]...)
	links := splitList(form.Value["links"])
	if len(files) == 0 && len(links) == 0 {
		rw.BadRequest(msgNothingUploaded)
		return
	}

	objectID := strings.TrimSpace(r.FormValue("objeto_id"))
	updateURL := strings.TrimSpace(r.FormValue("repository_update_url"))
	baseURI := strings.TrimSpace(r.FormValue("repository_base_uri"))
	if updateURL != "" {
		if verr := validation.ValidateVar("repository_update_url", updateURL, "endpoint"); verr != nil {
			rw.Validation(verr)
			return
		}
	}

	var obj sparql.IRI
	link := objectID != "" && updateURL != "" && baseURI != ""
	if link {
		iri, err := catalog.ObjectIRI(baseURI, objectID)
		if err != nil {
			rw.FromError(err)
			return
		}
		obj = iri
	}

	folder := objectID
	if folder == "" {
		folder = h.store.DefaultFolder()
	}
	stored := []string{}
	if len(files) > 0 {
		names, err := h.store.Save(folder, media.UploadsFromMultipart(files))
		if err != nil {
			rw.FromError(err)
			return
		}
		stored = names
	}

	if link {
		iris := make([]string, 0, len(stored)+len(links))
		publicBase := strings.TrimRight(h.cfg.Media.PublicBaseURL, "/")
		for _, name := range stored {
			iris = append(iris, publicBase+"/"+objectID+"/"+name)
		}
		iris = append(iris, links...)
		if err := h.catalog.AddMedia(r.Context(), updateURL, obj, iris...); err != nil {
			if derr := h.store.Discard(folder, stored); derr != nil {
				logging.Ctx(r.Context()).Error().Err(derr).Str("objeto_id", objectID).Msg("Failed to discard unlinked uploads")
			}
			rw.FromError(err)
			return
		}
	}

	dir, _ := h.store.Dir(folder)
	if links == nil {
		links = []string{}
	}
	logging.Ctx(r.Context()).Info().Str("objeto_id", folder).Int("files", len(stored)).Int("links", len(links)).Msg("Media uploaded")
	rw.OK(UploadResponse{
		Message:  msgUploaded,
		ObjetoID: objectID,
		Arquivos: stored,
		Links:    links,
		FilePath: dir,
	})
}

// RemoveMediaResponse is the answer of /uploadapi/remove.
type RemoveMediaResponse struct {
	Message string `json:"message"`
	*media.RemoveResult
}

// RemoveMedia unlinks a file from its object and then moves it to the
// object's excluidos folder.
func (h *Handler) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req RemoveMediaRequest
	if err := decodeRequest(r, &req); err != nil {
		rw.FromError(err)
		return
	}
	obj, err := catalog.ObjectIRI(req.RepositoryBaseURI, req.ObjetoID)
	if err != nil {
		rw.FromError(err)
		return
	}
	result, err := h.remover.Remove(r.Context(), media.RemoveRequest{
		ObjectID:       req.ObjetoID,
		File:           req.Arquivo,
		ObjectIRI:      obj,
		MediaIRI:       req.MediaURI,
		UpdateEndpoint: req.RepositoryUpdateURL,
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.OK(RemoveMediaResponse{Message: msgMediaRemoved, RemoveResult: result})
}

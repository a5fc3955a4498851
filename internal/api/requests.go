// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

// Request payloads. Each is filled by decodeRequest from a JSON body or
// from query/form values with the same names, then validated.

// ClassListRequest filters /classapi/list.
type ClassListRequest struct {
	Keyword    string `json:"keyword"`
	Repository string `json:"repository" validate:"required,endpoint"`
	OrderBy    string `json:"orderby" validate:"omitempty,oneof=class label description subclassof"`
}

// ClassRequest creates or replaces a class.
type ClassRequest struct {
	Label      string `json:"label" validate:"required"`
	Comment    string `json:"comment"`
	SubclassOf string `json:"subclassof"`
	Repository string `json:"repository" validate:"required,endpoint"`
}

// ClassDeleteRequest names the class IRI to delete.
type ClassDeleteRequest struct {
	Label      string `json:"label" validate:"required"`
	Repository string `json:"repository" validate:"required,endpoint"`
}

// PhysicalListRequest filters /fis/listar_objetos.
type PhysicalListRequest struct {
	Keyword string `json:"keyword"`
}

// DimensionalListRequest filters /dim/list. Type is informational.
type DimensionalListRequest struct {
	Keyword    string `json:"keyword"`
	Repository string `json:"repository" validate:"required,endpoint"`
	Type       string `json:"type"`
}

// ListAllRequest filters /dim/listall.
type ListAllRequest struct {
	Repository string `json:"repository" validate:"required,endpoint"`
	Type       string `json:"type"`
	Keyword    string `json:"keyword"`
}

// ObjectFilesRequest selects the files of one object for /dim/listar_arquivos.
type ObjectFilesRequest struct {
	ObjetoID    string `json:"objetoId" validate:"required,segment"`
	Repositorio string `json:"repositorio" validate:"required,endpoint"`
}

// CreateObjectRequest is the body of /dim/create.
type CreateObjectRequest struct {
	Titulo              string   `json:"titulo" validate:"required"`
	Resumo              string   `json:"resumo" validate:"required"`
	TipoURI             string   `json:"tipo_uri" validate:"required,iri"`
	RepositoryUpdateURL string   `json:"repository_update_url" validate:"required,endpoint"`
	RepositoryBaseURI   string   `json:"repository_base_uri" validate:"required"`
	Descricao           string   `json:"descricao"`
	Coordenadas         string   `json:"coordenadas"`
	TemRelacao          []string `json:"temRelacao"`
	AssociatedMedia     []string `json:"associatedMedia"`
}

// DeleteObjectRequest is the body of /dim/delete. The identifier is a full
// IRI or a local id under RepositoryBaseURI.
type DeleteObjectRequest struct {
	ObjectURIToDelete   string `json:"object_uri_to_delete" validate:"required"`
	RepositoryUpdateURL string `json:"repository_update_url" validate:"required,endpoint"`
	RepositoryBaseURI   string `json:"repository_base_uri"`
}

// TripleRequest names one triple in an update endpoint.
type TripleRequest struct {
	S                   string `json:"s" validate:"required"`
	P                   string `json:"p" validate:"required"`
	O                   string `json:"o" validate:"required"`
	RepositoryUpdateURL string `json:"repository_update_url" validate:"required,endpoint"`
}

// UpdateObjectRequest is the body of /dim/update. Descricao and Coordenadas
// are left alone when absent and removed when present but empty.
type UpdateObjectRequest struct {
	ObjectURIToUpdate   string  `json:"object_uri_to_update" validate:"required,iri"`
	RepositoryUpdateURL string  `json:"repository_update_url" validate:"required,endpoint"`
	Titulo              string  `json:"titulo" validate:"required"`
	Resumo              string  `json:"resumo" validate:"required"`
	Descricao           *string `json:"descricao"`
	Coordenadas         *string `json:"coordenadas"`
}

// LegacyUpdateRequest is the body of /dim/update_old.
type LegacyUpdateRequest struct {
	ID                  string `json:"id" validate:"required"`
	Descricao           string `json:"descricao"`
	Titulo              string `json:"titulo" validate:"required"`
	Resumo              string `json:"resumo"`
	RepositoryUpdateURL string `json:"repository_update_url" validate:"required,endpoint"`
	RepositoryBaseURI   string `json:"repository_base_uri" validate:"required"`
}

// RelationListRequest filters /relation/list.
type RelationListRequest struct {
	ID         string `json:"id" validate:"required"`
	Repository string `json:"repository" validate:"required,endpoint"`
	Keyword    string `json:"keyword"`
}

// RelationAddRequest is the body of /relation/add.
type RelationAddRequest struct {
	ID          string `json:"id" validate:"required"`
	Propriedade string `json:"propriedade" validate:"required"`
	Valor       string `json:"valor" validate:"required"`
	Repository  string `json:"repository" validate:"required,endpoint"`
	TipoRecurso string `json:"tipo_recurso" validate:"omitempty,oneof=uri literal URI Literal"`
	Complemento string `json:"complemento"`
}

// ResourceRequest names a resource of a dataset.
type ResourceRequest struct {
	ID         string `json:"id" validate:"required"`
	Repository string `json:"repository" validate:"required,endpoint"`
}

// RelationTripleRequest names one triple of a dataset.
type RelationTripleRequest struct {
	S          string `json:"s" validate:"required"`
	P          string `json:"p" validate:"required"`
	O          string `json:"o" validate:"required"`
	Repository string `json:"repository" validate:"required,endpoint"`
}

// ResourceUpdateRequest is the body of /relation/update. Tipo is
// informational.
type ResourceUpdateRequest struct {
	ID         string `json:"id" validate:"required"`
	Descricao  string `json:"descricao"`
	Titulo     string `json:"titulo" validate:"required"`
	Resumo     string `json:"resumo"`
	Repository string `json:"repository" validate:"required,endpoint"`
	Tipo       string `json:"tipo"`
}

// MediaRelationRequest is the body of /relation/add_relation.
type MediaRelationRequest struct {
	O              string `json:"o" validate:"required"`
	Propriedade    string `json:"propriedade" validate:"required"`
	MidiaURI       string `json:"midia_uri" validate:"required,iri"`
	Repository     string `json:"repository" validate:"required,endpoint"`
	RepositorioURI string `json:"repositorio_uri"`
}

// MediaListRequest selects the media of one object for /midias/list.
type MediaListRequest struct {
	ObjetoID        string `json:"objetoId" validate:"required,segment"`
	SPARQLEndpoint  string `json:"repositorio_sparql_endpoint" validate:"required,endpoint"`
	RepositorioBase string `json:"repositorio_base_uri" validate:"required"`
}

// RepositoryListRequest filters the repository list by name.
type RepositoryListRequest struct {
	Name string `json:"name"`
}

// RepositoryRequest creates or replaces a repository record.
type RepositoryRequest struct {
	URI         string `json:"uri" validate:"required"`
	Nome        string `json:"nome" validate:"required"`
	Contato     string `json:"contato"`
	Descricao   string `json:"descricao"`
	Responsavel string `json:"responsavel"`
	Imagem      string `json:"imagem" validate:"omitempty,iri"`
}

// DatasetRequest creates a Fuseki dataset.
type DatasetRequest struct {
	Nome string `json:"nome" validate:"required,localname"`
	Tipo string `json:"tipo" validate:"omitempty,oneof=tdb2 tdb mem"`
}

// LoginRequest is the body of /acesso/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
}

// AddUserRequest is the body of /acesso/add_user.
type AddUserRequest struct {
	Username  string `json:"username" validate:"required,localname"`
	Password  string `json:"password" validate:"required,min=6"`
	Permissao string `json:"permissao" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Repo      string `json:"repo"`
}

// RemoveMediaRequest is the body of /uploadapi/remove.
type RemoveMediaRequest struct {
	ObjetoID            string `json:"objeto_id" validate:"required,segment"`
	Arquivo             string `json:"arquivo" validate:"required,segment"`
	RepositoryUpdateURL string `json:"repository_update_url" validate:"required,endpoint"`
	RepositoryBaseURI   string `json:"repository_base_uri" validate:"required"`
	MediaURI            string `json:"media_uri" validate:"omitempty,iri"`
}

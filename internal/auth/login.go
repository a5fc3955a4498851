// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alisoncf/guara/internal/catalog"
	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
	"github.com/alisoncf/guara/internal/sparql"
)

// ErrInvalidUsername is returned by AddUser for a username that cannot be
// an IRI local name.
var ErrInvalidUsername = errors.New("auth: invalid username")

// RepositoryResolver finds the repository record a curator connects to.
type RepositoryResolver interface {
	RepositoryByName(ctx context.Context, name string) (*catalog.Repository, error)
}

// Service handles login and curator registration.
type Service struct {
	client     Client
	authn      *Authenticator
	repos      RepositoryResolver
	queryURL   string
	updateURL  string
	tokenTTL   time.Duration
	allowPlain bool
	now        func() time.Time
	secLogger  *logging.SecurityLogger
}

// NewService returns a Service on the user graph endpoints. authn may be
// nil; when set, tokens replaced by a login are dropped from its cache.
func NewService(client Client, sparqlCfg config.SPARQLConfig, authCfg config.AuthConfig, authn *Authenticator, repos RepositoryResolver) *Service {
	ttl := authCfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		client:     client,
		authn:      authn,
		repos:      repos,
		queryURL:   sparqlCfg.UserQueryURL,
		updateURL:  sparqlCfg.UserUpdateURL,
		tokenTTL:   ttl,
		allowPlain: authCfg.AllowPlainPasswords,
		now:        time.Now,
		secLogger:  logging.NewSecurityLogger(),
	}
}

// LoginRequest is a curator's credentials for one repository.
type LoginRequest struct {
	Email    string
	Password string
	// Name is matched case-insensitively against the user's usr:repo.
	Name string
	IP   string
}

// LoginResult is returned to the client on success.
type LoginResult struct {
	Message              string              `json:"message"`
	User                 string              `json:"user"`
	Email                string              `json:"email"`
	Permissao            string              `json:"permissao"`
	Token                string              `json:"token"`
	Repositorio          string              `json:"repositorio"`
	Validade             string              `json:"validade"`
	RepositorioConectado *catalog.Repository `json:"repositorio_conectado"`
}

type credentialRow struct {
	user        string
	username    string
	password    string
	permissions []string
	repository  string
	oldToken    string
}

func loginQuery(email, name string) sparql.Select {
	s, mbox, foafPw, usrPw := sparql.V("s"), sparql.V("mbox"), sparql.V("foaf_password"), sparql.V("usr_password")
	perm, repo, username, token := sparql.V("permissao"), sparql.V("repositorio"), sparql.V("username"), sparql.V("token")
	lowerEmail := strings.ToLower(strings.TrimSpace(email))
	return sparql.Select{
		Prefixes:   sparql.Standard(),
		Projection: []sparql.Projection{s, foafPw, usrPw, perm, repo, username, token},
		Where: sparql.Where(
			sparql.T(s, sparql.FOAFMbox, mbox),
			sparql.Filter{Expr: sparql.Or(
				sparql.Eq(sparql.LCase(sparql.Str(mbox)), sparql.E(sparql.NewLiteral(lowerEmail))),
				sparql.Eq(sparql.LCase(sparql.Str(mbox)), sparql.E(sparql.NewLiteral("mailto:"+lowerEmail))),
			)},
			sparql.T(s, sparql.UsrRepo, repo),
			sparql.Filter{Expr: sparql.Contains(
				sparql.LCase(sparql.Str(repo)),
				sparql.E(sparql.NewLiteral(strings.ToLower(strings.TrimSpace(name)))),
			)},
			sparql.Opt(sparql.T(s, sparql.FOAFPassword, foafPw)),
			sparql.Opt(sparql.T(s, sparql.UsrPassword, usrPw)),
			sparql.Opt(sparql.T(s, sparql.UsrTemPermissao, perm)),
			sparql.Opt(sparql.T(s, sparql.UsrUsername, username)),
			sparql.Opt(sparql.T(s, sparql.UsrToken, token)),
		),
	}
}

// credentials folds the result rows per user, keeping row order.
func credentials(res *sparql.Results) []*credentialRow {
	var out []*credentialRow
	byUser := make(map[string]*credentialRow)
	for _, row := range res.Rows() {
		user := row.Get("s")
		c, ok := byUser[user]
		if !ok {
			pw := row.Get("foaf_password")
			if pw == "" {
				pw = row.Get("usr_password")
			}
			c = &credentialRow{
				user:       user,
				username:   row.Get("username"),
				password:   pw,
				repository: row.Get("repositorio"),
				oldToken:   row.Get("token"),
			}
			byUser[user] = c
			out = append(out, c)
		}
		if p := row.Get("permissao"); p != "" && !slices.Contains(c.permissions, p) {
			c.permissions = append(c.permissions, p)
		}
	}
	return out
}

// Login verifies the credentials, issues a new token and returns it with
// the connected repository record.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	q := loginQuery(req.Email, req.Name)
	res, err := s.client.Select(ctx, s.queryURL, q.String())
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}

	var user *credentialRow
	for _, c := range credentials(res) {
		if s.verifyPassword(c.password, req.Password) {
			user = c
			break
		}
	}
	if user == nil {
		metrics.RecordLogin("failure")
		s.secLogger.LogLoginFailure(req.Email, req.Name, req.IP, "unknown user or wrong password")
		return nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	expires := s.now().Add(s.tokenTTL).UTC()
	validade := expires.Format(time.RFC3339)
	if err := s.writeToken(ctx, user.user, token, validade); err != nil {
		metrics.RecordLogin("error")
		return nil, fmt.Errorf("auth: store token: %w", err)
	}
	if s.authn != nil {
		s.authn.Forget(ctx, user.oldToken)
	}

	var connected *catalog.Repository
	if s.repos != nil {
		connected, err = s.repos.RepositoryByName(ctx, req.Name)
		if err != nil {
			// The login stands without the record.
			logging.Ctx(ctx).Warn().Err(err).Str("name", req.Name).Msg("Connected repository not resolved")
		}
	}

	permissao := ""
	if len(user.permissions) > 0 {
		permissao = user.permissions[0]
	}
	metrics.RecordLogin("success")
	s.secLogger.LogLoginSuccess(user.user, req.Email, user.repository, req.IP)
	return &LoginResult{
		Message:              "Login successful",
		User:                 user.username,
		Email:                req.Email,
		Permissao:            permissao,
		Token:                token,
		Repositorio:          user.repository,
		Validade:             validade,
		RepositorioConectado: connected,
	}, nil
}

func (s *Service) writeToken(ctx context.Context, userURI, token, validade string) error {
	user, err := sparql.NewIRI(userURI)
	if err != nil {
		return err
	}
	oldToken, oldValidade := sparql.V("old_token"), sparql.V("old_validade")
	update := sparql.Modify{
		Prefixes: sparql.Standard(),
		Delete: []sparql.Triple{
			sparql.T(user, sparql.UsrToken, oldToken),
			sparql.T(user, sparql.UsrValidade, oldValidade),
		},
		Insert: []sparql.Triple{
			sparql.T(user, sparql.UsrToken, sparql.NewLiteral(token)),
			sparql.T(user, sparql.UsrValidade, sparql.NewLiteral(validade)),
		},
		Where: sparql.Where(
			sparql.Opt(sparql.T(user, sparql.UsrToken, oldToken)),
			sparql.Opt(sparql.T(user, sparql.UsrValidade, oldValidade)),
		),
	}
	return s.client.Update(ctx, s.updateURL, update.String())
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

func (s *Service) verifyPassword(stored, given string) bool {
	if stored == "" || given == "" {
		return false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	if !s.allowPlain {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// HashPassword returns the bcrypt hash stored for new curators.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// NewUser registers a curator.
type NewUser struct {
	Username   string
	Password   string
	Permission string
	Email      string // optional
	Repository string // optional
}

// AddUser inserts usr:<username> a usr:Curador with a bcrypt password.
func (s *Service) AddUser(ctx context.Context, in NewUser) (sparql.IRI, error) {
	user, err := sparql.PN("usr", in.Username)
	if err != nil {
		return sparql.IRI{}, fmt.Errorf("%w: %w", ErrInvalidUsername, err)
	}
	iri, _ := sparql.Standard().Expand(user)

	hash, err := HashPassword(in.Password)
	if err != nil {
		return sparql.IRI{}, err
	}
	triples := []sparql.Triple{
		sparql.T(iri, sparql.RDFType, sparql.UsrCurador),
		sparql.T(iri, sparql.UsrUsername, sparql.NewLiteral(in.Username)),
		sparql.T(iri, sparql.UsrPassword, sparql.NewLiteral(hash)),
		sparql.T(iri, sparql.UsrTemPermissao, sparql.NewLiteral(in.Permission)),
	}
	if in.Email != "" {
		triples = append(triples, sparql.T(iri, sparql.FOAFMbox, sparql.NewLiteral(in.Email)))
	}
	if in.Repository != "" {
		triples = append(triples, sparql.T(iri, sparql.UsrRepo, sparql.NewLiteral(in.Repository)))
	}
	update := sparql.InsertData{Prefixes: sparql.Standard(), Triples: triples}
	if err := s.client.Update(ctx, s.updateURL, update.String()); err != nil {
		return sparql.IRI{}, err
	}
	s.secLogger.LogEvent(&logging.SecurityEvent{
		Event: "user_created", UserURI: iri.Value(), Email: in.Email, Repository: in.Repository, Success: true,
	})
	return iri, nil
}

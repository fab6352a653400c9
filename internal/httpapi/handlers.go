// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

// Package httpapi exposes the account operations over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/observability"
)

// Registrar creates user accounts.
type Registrar interface {
	Register(ctx context.Context, in account.RegisterInput) (*account.User, error)
}

// Authenticator issues sessions and validates bearer tokens.
type Authenticator interface {
	Login(ctx context.Context, email, password string, meta account.RequestMeta) (*account.LoginResult, error)
	Authenticate(ctx context.Context, token string, meta account.RequestMeta) (*account.User, error)
}

// ProfileGetter aggregates a user's public identity and roles.
type ProfileGetter interface {
	Get(ctx context.Context, userID ulid.ULID) (*account.Profile, error)
}

// HealthChecker reports the database clock, proving the store is reachable.
type HealthChecker func(ctx context.Context) (time.Time, error)

// API holds the HTTP handlers for the account service.
type API struct {
	registrar Registrar
	auth      Authenticator
	profiles  ProfileGetter
	health    HealthChecker
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewAPI creates the API. metrics may be nil; counting is then skipped.
// Returns an error if any other dependency is nil.
func NewAPI(registrar Registrar, auth Authenticator, profiles ProfileGetter, health HealthChecker, logger *slog.Logger, metrics *observability.Metrics) (*API, error) {
	if registrar == nil {
		return nil, oops.Errorf("registrar is required")
	}
	if auth == nil {
		return nil, oops.Errorf("authenticator is required")
	}
	if profiles == nil {
		return nil, oops.Errorf("profile getter is required")
	}
	if health == nil {
		return nil, oops.Errorf("health checker is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &API{
		registrar: registrar,
		auth:      auth,
		profiles:  profiles,
		health:    health,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Handler builds the route table.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", a.instrument("/api/auth/register", a.handleRegister))
	mux.HandleFunc("POST /api/auth/login", a.instrument("/api/auth/login", a.handleLogin))
	mux.HandleFunc("GET /api/auth/profile", a.instrument("/api/auth/profile", a.requireAuth(a.handleProfile)))
	mux.HandleFunc("GET /api/health", a.instrument("/api/health", a.handleHealth))
	return mux
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Nom      *string `json:"nom"`
	Prenom   *string `json:"prenom"`
}

type registerResponse struct {
	Message string             `json:"message"`
	User    account.PublicUser `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.countRegistration("invalid")
		writeJSON(w, a.logger, http.StatusBadRequest, errorBody{Error: msgMissingFields})
		return
	}

	user, err := a.registrar.Register(r.Context(), account.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Nom:      req.Nom,
		Prenom:   req.Prenom,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrEmailTaken):
			a.countRegistration("conflict")
		case errors.Is(err, account.ErrValidation):
			a.countRegistration("invalid")
		default:
			a.countRegistration("error")
		}
		writeError(w, a.logger, err)
		return
	}

	a.countRegistration("created")
	writeJSON(w, a.logger, http.StatusCreated, registerResponse{
		Message: msgUserCreated,
		User:    user.Public(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginUser mirrors the historical login payload: identity only, no
// creation date.
type loginUser struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Nom    *string `json:"nom"`
	Prenom *string `json:"prenom"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	User      loginUser `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.countLogin("invalid")
		writeJSON(w, a.logger, http.StatusBadRequest, errorBody{Error: msgMissingFields})
		return
	}

	result, err := a.auth.Login(r.Context(), req.Email, req.Password, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidCredentials):
			a.countLogin("invalid_credentials")
		case errors.Is(err, account.ErrInactiveUser):
			a.countLogin("inactive")
		case errors.Is(err, account.ErrValidation):
			a.countLogin("invalid")
		default:
			a.countLogin("error")
		}
		writeError(w, a.logger, err)
		return
	}

	a.countLogin("success")
	writeJSON(w, a.logger, http.StatusOK, loginResponse{
		Message: msgLoginSuccess,
		Token:   result.Token,
		User: loginUser{
			ID:     result.User.ID.String(),
			Email:  result.User.Email,
			Nom:    result.User.Nom,
			Prenom: result.User.Prenom,
		},
		ExpiresAt: result.ExpiresAt,
	})
}

type profileResponse struct {
	User account.Profile `json:"user"`
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		// requireAuth always runs first; reaching here is a wiring bug.
		writeError(w, a.logger, oops.Errorf("no user in request context"))
		return
	}

	profile, err := a.profiles.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeJSON(w, a.logger, http.StatusOK, profileResponse{User: *profile})
}

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

type healthError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbTime, err := a.health(r.Context())
	if err != nil {
		writeJSON(w, a.logger, http.StatusInternalServerError, healthError{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, a.logger, http.StatusOK, healthResponse{
		Status:   "ok",
		Database: "connected",
		Time:     dbTime,
	})
}

// Compile-time interface checks against the account services.
var (
	_ Registrar     = (*account.Registrar)(nil)
	_ Authenticator = (*account.Service)(nil)
	_ ProfileGetter = (*account.ProfileService)(nil)
)

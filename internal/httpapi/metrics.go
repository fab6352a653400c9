// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// statusRecorder captures the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument counts requests per route and status.
func (a *API) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	if a.metrics == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		a.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	}
}

func (a *API) countLogin(outcome string) {
	if a.metrics != nil {
		a.metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}

func (a *API) countRegistration(outcome string) {
	if a.metrics != nil {
		a.metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	}
}

func (a *API) countTokenValidation(err error) {
	if a.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, account.ErrMissingToken):
		outcome = "missing"
	case errors.Is(err, account.ErrInvalidToken):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	a.metrics.TokenValidationsTotal.WithLabelValues(outcome).Inc()
}

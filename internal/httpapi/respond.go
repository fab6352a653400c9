// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/pkg/errutil"
)

// Client-facing messages. The French strings are the wire protocol and are
// matched by existing clients; do not translate.
const (
	msgMissingFields      = "Email et mot de passe sont obligatoires"
	msgEmailTaken         = "Email déjà utilisé"
	msgUserCreated        = "Utilisateur créé avec succès"
	msgInvalidCredentials = "Email ou mot de passe incorrect"
	msgInactiveUser       = "Utilisateur inactif"
	msgLoginSuccess       = "Connexion réussie"
	msgMissingToken       = "Token inexistant / introuvable"
	msgInvalidToken       = "Token invalide ou expiré"
	msgServerError        = "Erreur serveur"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status. Encoding failures are logged
// only; headers are already on the wire by then.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps a business error to its status and French message. Anything
// not a known business outcome is a 500 with the generic body; the detail
// goes to the server log only.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		errutil.LogError(logger, "request failed", err)
	}
	writeJSON(w, logger, status, errorBody{Error: msg})
}

// errorStatus resolves a business sentinel to its HTTP status and message.
// Unknown email and wrong password share one message on purpose; only the
// connection log distinguishes them.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, account.ErrValidation):
		return http.StatusBadRequest, msgMissingFields
	case errors.Is(err, account.ErrEmailTaken):
		return http.StatusConflict, msgEmailTaken
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, account.ErrInactiveUser):
		return http.StatusForbidden, msgInactiveUser
	case errors.Is(err, account.ErrMissingToken):
		return http.StatusUnauthorized, msgMissingToken
	case errors.Is(err, account.ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidToken
	default:
		return http.StatusInternalServerError, msgServerError
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package httpapi

import (
	"net"
	"net/http"
	"strings"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// requireAuth wraps a handler behind bearer-token validation. The raw
// Authorization header value is the token; a "Bearer " prefix is tolerated
// but not required, matching the historical clients.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		user, err := a.auth.Authenticate(r.Context(), token, requestMeta(r))
		if err != nil {
			a.countTokenValidation(err)
			writeError(w, a.logger, err)
			return
		}
		a.countTokenValidation(nil)

		next(w, r.WithContext(ContextWithUser(r.Context(), user)))
	}
}

// requestMeta extracts the client details recorded in the connection log.
func requestMeta(r *http.Request) account.RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return account.RequestMeta{
		IP:        ip,
		UserAgent: r.UserAgent(),
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account

import "errors"

// Sentinel errors for business outcomes. Services wrap these in oops errors
// with codes; callers branch with errors.Is.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("invalid input")

	// ErrEmailTaken is returned when the email uniqueness constraint trips.
	ErrEmailTaken = errors.New("email already used")

	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the distinction lives only in the connection log.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInactiveUser is returned when credentials are valid but the
	// account is disabled.
	ErrInactiveUser = errors.New("inactive user")

	// ErrMissingToken is returned when no bearer token was presented.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken is returned when a token resolves to no active,
	// unexpired session.
	ErrInvalidToken = errors.New("invalid or expired token")
)

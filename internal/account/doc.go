// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

// Package account provides the user-account domain: registration, login,
// session validation, and profile retrieval.
//
// # Domain Types
//
// Domain types (User, Session, ConnectionLog) should be created using their
// constructors (NewUser, NewSession) so invalid state cannot reach the
// repositories. Repository implementations receive pre-validated values.
//
// # Services
//
// Service types coordinate domain operations:
//   - Registrar - account creation with the default role binding
//   - Service - login (session issuance) and bearer-token validation
//   - ProfileService - read-only profile aggregation with role names
//
// Every mutating flow runs inside one storage transaction supplied by a
// Transactor; audit log writes share the transaction with the decision they
// record, so the log and the outcome can never diverge.
package account

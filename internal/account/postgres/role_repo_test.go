// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

func TestRoleRepository_GetByName(t *testing.T) {
	roleID := ulid.Make()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *account.Role
		wantErr   error
	}{
		{
			name: "returns role",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id"}).AddRow(roleID.String())
				mock.ExpectQuery(`SELECT id FROM roles WHERE nom = \$1`).
					WithArgs("user").
					WillReturnRows(rows)
			},
			want: &account.Role{ID: roleID, Nom: "user"},
		},
		{
			name: "unknown role maps to ErrNotFound",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id FROM roles WHERE nom = \$1`).
					WithArgs("user").
					WillReturnRows(pgxmock.NewRows([]string{"id"}))
			},
			wantErr: account.ErrNotFound,
		},
		{
			name: "database error passes through",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id FROM roles WHERE nom = \$1`).
					WithArgs("user").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewRoleRepository(mock)
			got, err := repo.GetByName(context.Background(), "user")

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, account.ErrNotFound) {
					assert.ErrorIs(t, err, account.ErrNotFound)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestRoleRepository_AssignToUser(t *testing.T) {
	userID := ulid.Make()
	roleID := ulid.Make()

	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO utilisateur_roles`).
			WithArgs(userID.String(), roleID.String()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewRoleRepository(mock)
		err = repo.AssignToUser(context.Background(), userID, roleID)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO utilisateur_roles`).
			WithArgs(userID.String(), roleID.String()).
			WillReturnError(errors.New("foreign key violation"))

		repo := NewRoleRepository(mock)
		err = repo.AssignToUser(context.Background(), userID, roleID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "foreign key violation")

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestRoleRepository_NamesByUser(t *testing.T) {
	userID := ulid.Make()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      []string
		wantErr   bool
	}{
		{
			name: "returns sorted names",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"nom"}).
					AddRow("admin").
					AddRow("user")
				mock.ExpectQuery(`SELECT r.nom`).
					WithArgs(userID.String()).
					WillReturnRows(rows)
			},
			want: []string{"admin", "user"},
		},
		{
			name: "empty slice when no assignments",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT r.nom`).
					WithArgs(userID.String()).
					WillReturnRows(pgxmock.NewRows([]string{"nom"}))
			},
			want: []string{},
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT r.nom`).
					WithArgs(userID.String()).
					WillReturnError(errors.New("timeout"))
			},
			wantErr: true,
		},
		{
			name: "row iteration error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"nom"}).
					AddRow("user").
					RowError(0, errors.New("row iteration error"))
				mock.ExpectQuery(`SELECT r.nom`).
					WithArgs(userID.String()).
					WillReturnRows(rows)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewRoleRepository(mock)
			got, err := repo.NamesByUser(context.Background(), userID)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

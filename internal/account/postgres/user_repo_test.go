// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

func userColumns() []string {
	return []string{"id", "email", "password_hash", "nom", "prenom", "actif", "date_creation"}
}

func TestUserRepository_Create(t *testing.T) {
	nom := "Dupont"
	prenom := "Jean"
	user := &account.User{
		ID:           ulid.Make(),
		Email:        "jean.dupont@example.com",
		PasswordHash: "$2a$10$hash",
		Nom:          &nom,
		Prenom:       &prenom,
		Actif:        true,
		DateCreation: time.Now().UTC(),
	}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO utilisateurs`).
					WithArgs(user.ID.String(), user.Email, user.PasswordHash, user.Nom, user.Prenom, user.Actif, user.DateCreation).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation maps to ErrEmailTaken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO utilisateurs`).
					WithArgs(user.ID.String(), user.Email, user.PasswordHash, user.Nom, user.Prenom, user.Actif, user.DateCreation).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "utilisateurs_email_key"})
			},
			wantErr: account.ErrEmailTaken,
		},
		{
			name: "other database error passes through",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO utilisateurs`).
					WithArgs(user.ID.String(), user.Email, user.PasswordHash, user.Nom, user.Prenom, user.Actif, user.DateCreation).
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

			repo := NewUserRepository(mock)
			err = repo.Create(context.Background(), user)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, account.ErrEmailTaken) {
					assert.ErrorIs(t, err, account.ErrEmailTaken)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	id := ulid.Make()
	created := time.Now().UTC()

	t.Run("returns user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		nom := "Martin"
		rows := pgxmock.NewRows(userColumns()).
			AddRow(id.String(), "alice@example.com", "$2a$10$hash", &nom, (*string)(nil), true, created)
		mock.ExpectQuery(`SELECT id, email, password_hash, nom, prenom, actif, date_creation\s+FROM utilisateurs\s+WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(rows)

		repo := NewUserRepository(mock)
		user, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		require.NotNil(t, user.Nom)
		assert.Equal(t, "Martin", *user.Nom)
		assert.Nil(t, user.Prenom)
		assert.True(t, user.Actif)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("returns ErrNotFound for missing row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, nom, prenom, actif, date_creation\s+FROM utilisateurs\s+WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(userColumns()))

		repo := NewUserRepository(mock)
		user, err := repo.GetByID(context.Background(), id)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, account.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	id := ulid.Make()
	created := time.Now().UTC()

	t.Run("matches email exactly as stored", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		rows := pgxmock.NewRows(userColumns()).
			AddRow(id.String(), "Bob@Example.com", "$2a$10$hash", (*string)(nil), (*string)(nil), true, created)
		mock.ExpectQuery(`SELECT id, email, password_hash, nom, prenom, actif, date_creation\s+FROM utilisateurs\s+WHERE email = \$1`).
			WithArgs("Bob@Example.com").
			WillReturnRows(rows)

		repo := NewUserRepository(mock)
		user, err := repo.GetByEmail(context.Background(), "Bob@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "Bob@Example.com", user.Email)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("returns ErrNotFound for unknown email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, nom, prenom, actif, date_creation\s+FROM utilisateurs\s+WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnRows(pgxmock.NewRows(userColumns()))

		repo := NewUserRepository(mock)
		user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, account.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{name: "email exists", exists: true},
		{name: "email does not exist", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			rows := pgxmock.NewRows([]string{"exists"}).AddRow(tt.exists)
			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("probe@example.com").
				WillReturnRows(rows)

			repo := NewUserRepository(mock)
			got, err := repo.ExistsByEmail(context.Background(), "probe@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.exists, got)

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_ScanError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	id := ulid.Make()

	// Wrong column count triggers a scan error.
	rows := pgxmock.NewRows([]string{"id"}).AddRow(id.String())
	mock.ExpectQuery(`SELECT id, email, password_hash, nom, prenom, actif, date_creation\s+FROM utilisateurs\s+WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(rows)

	repo := NewUserRepository(mock)
	_, err = repo.GetByID(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, account.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

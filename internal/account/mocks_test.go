// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account_test

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// fakeTransactor runs fn directly. A non-nil err simulates a begin failure.
type fakeTransactor struct {
	err error
}

func (f *fakeTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

// mockUserRepository is a mock for account.UserRepository.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id ulid.ULID) (*account.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// mockRoleRepository is a mock for account.RoleRepository.
type mockRoleRepository struct {
	mock.Mock
}

func (m *mockRoleRepository) GetByName(ctx context.Context, nom string) (*account.Role, error) {
	args := m.Called(ctx, nom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Role), args.Error(1)
}

func (m *mockRoleRepository) AssignToUser(ctx context.Context, userID, roleID ulid.ULID) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *mockRoleRepository) NamesByUser(ctx context.Context, userID ulid.ULID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// mockSessionRepository is a mock for account.SessionRepository.
type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, session *account.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) ResolveToken(ctx context.Context, token string, now time.Time) (*account.Session, *account.User, error) {
	args := m.Called(ctx, token, now)
	var (
		session *account.Session
		user    *account.User
	)
	if args.Get(0) != nil {
		session = args.Get(0).(*account.Session)
	}
	if args.Get(1) != nil {
		user = args.Get(1).(*account.User)
	}
	return session, user, args.Error(2)
}

// mockConnectionLogRepository is a mock for account.ConnectionLogRepository.
// It also keeps the recorded entries so tests can assert on audit content.
type mockConnectionLogRepository struct {
	mock.Mock

	entries []*account.ConnectionLog
}

func (m *mockConnectionLogRepository) Record(ctx context.Context, entry *account.ConnectionLog) error {
	args := m.Called(ctx, entry)
	if args.Error(0) == nil {
		m.entries = append(m.entries, entry)
	}
	return args.Error(0)
}

// mockHasher is a mock for account.PasswordHasher.
type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

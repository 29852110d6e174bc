package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
	"example.com/backstage/services/routedelivery/internal/security"
)

func testDriver(t *testing.T, active bool) *model.User {
	t.Helper()
	hash, err := security.HashPassword("1")
	require.NoError(t, err)

	user := &model.User{
		Username:     "1",
		Email:        "driver@example.com",
		Name:         "Juan Pérez",
		Role:         model.DriverRole,
		IsActive:     active,
		PasswordHash: hash,
	}
	user.ID = 1
	return user
}

func TestLoginOpensSession(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	driver := testDriver(t, true)
	users.On("GetByUsername", mock.Anything, "1").Return(driver, nil)
	users.On("GetByID", mock.Anything, uint(1)).Return(driver, nil)

	svc := NewAuthService(users, cache.NewMemoryClient(time.Minute), time.Hour, testLogger())

	user, session, err := svc.Login(ctx, &LoginRequest{Username: "1", Password: "1"})
	require.NoError(t, err)
	require.Equal(t, uint(1), user.ID)
	require.NotEmpty(t, session.ID)

	authenticated, err := svc.Authenticate(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, "Juan Pérez", authenticated.Name)

	require.NoError(t, svc.Logout(ctx, session.ID))
	_, err = svc.Authenticate(ctx, session.ID)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		req      LoginRequest
		setup    func(*MockUserRepository)
		expected error
	}{
		{
			name: "wrong password",
			req:  LoginRequest{Username: "1", Password: "2"},
			setup: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "1").Return(testDriver(t, true), nil)
			},
			expected: ErrInvalidCredentials,
		},
		{
			name: "unknown user",
			req:  LoginRequest{Username: "ghost", Password: "1"},
			setup: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
			},
			expected: ErrInvalidCredentials,
		},
		{
			name: "inactive user",
			req:  LoginRequest{Username: "1", Password: "1"},
			setup: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "1").Return(testDriver(t, false), nil)
			},
			expected: ErrInactiveUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setup(users)

			svc := NewAuthService(users, cache.NewMemoryClient(time.Minute), time.Hour, testLogger())
			_, _, err := svc.Login(context.Background(), &tt.req)

			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), cache.NewMemoryClient(time.Minute), time.Hour, testLogger())
	_, _, err := svc.Login(context.Background(), &LoginRequest{Username: "1"})

	require.True(t, IsValidationError(err))
}

func TestAuthenticateUnknownSession(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), cache.NewMemoryClient(time.Minute), time.Hour, testLogger())

	_, err := svc.Authenticate(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

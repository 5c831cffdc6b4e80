package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bookvahub/lms-backend/internal/lib/jwt"
	"github.com/bookvahub/lms-backend/internal/lib/password"
	"github.com/bookvahub/lms-backend/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MakerMock struct{ mock.Mock }

func (m *MakerMock) GenerateToken(email, role, userUID string) (string, error) {
	args := m.Called(email, role, userUID)
	return args.String(0), args.Error(1)
}
func (m *MakerMock) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const uid = "8d3a6f2e-5a60-4f0c-9f3e-0b2c5a1d7e44"

func TestService_Register(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "reader@example.com" &&
			u.Role == models.RoleBorrower &&
			u.PasswordHash != "" &&
			u.PasswordHash != "secret123"
	})).Return(uid, nil).Once()

	svc := New(users, new(MakerMock), newNoopLogger())
	gotUID, err := svc.Register(context.Background(), "Alice", "reader@example.com", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, uid, gotUID)
	users.AssertExpectations(t)
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	if err != nil {
		t.Fatalf("GetHash() error = %v", err)
	}
	activeUser := &models.User{
		UID:          uid,
		Email:        "reader@example.com",
		PasswordHash: hash,
		Role:         models.RoleBorrower,
	}

	tests := []struct {
		name       string
		rawPass    string
		setupMocks func(u *UsersMock, m *MakerMock)
		wantErr    error
	}{
		{
			name:    "success",
			rawPass: "secret123",
			setupMocks: func(u *UsersMock, m *MakerMock) {
				u.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(activeUser, nil).Once()
				m.On("GenerateToken", "reader@example.com", models.RoleBorrower, uid).
					Return("signed-token", nil).Once()
			},
			wantErr: nil,
		},
		{
			name:    "unknown email",
			rawPass: "secret123",
			setupMocks: func(u *UsersMock, _ *MakerMock) {
				u.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(nil, models.ErrUserNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "wrong password",
			rawPass: "not-the-password",
			setupMocks: func(u *UsersMock, _ *MakerMock) {
				u.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(activeUser, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "deactivated account",
			rawPass: "secret123",
			setupMocks: func(u *UsersMock, _ *MakerMock) {
				deactivated := *activeUser
				deactivated.IsDeleted = true
				u.On("GetUserByEmail", mock.Anything, "reader@example.com").
					Return(&deactivated, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			maker := new(MakerMock)
			tt.setupMocks(users, maker)

			svc := New(users, maker, newNoopLogger())
			token, user, err := svc.Login(context.Background(), "reader@example.com", tt.rawPass)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "signed-token", token)
				assert.Equal(t, uid, user.UID)
			}
			users.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestService_ResolveToken(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(u *UsersMock, m *MakerMock)
		wantErr    bool
	}{
		{
			name: "success",
			setupMocks: func(u *UsersMock, m *MakerMock) {
				m.On("ParseToken", "signed-token").
					Return(&jwt.CustomClaims{UserUID: uid}, nil).Once()
				u.On("GetUser", mock.Anything, uid).
					Return(&models.User{UID: uid}, nil).Once()
			},
			wantErr: false,
		},
		{
			name: "bad signature",
			setupMocks: func(_ *UsersMock, m *MakerMock) {
				m.On("ParseToken", "signed-token").
					Return(nil, errors.New("signature is invalid")).Once()
			},
			wantErr: true,
		},
		{
			name: "token for deleted user",
			setupMocks: func(u *UsersMock, m *MakerMock) {
				m.On("ParseToken", "signed-token").
					Return(&jwt.CustomClaims{UserUID: uid}, nil).Once()
				u.On("GetUser", mock.Anything, uid).
					Return(nil, models.ErrUserNotFound).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			maker := new(MakerMock)
			tt.setupMocks(users, maker)

			svc := New(users, maker, newNoopLogger())
			user, err := svc.ResolveToken(context.Background(), "signed-token")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uid, user.UID)
			}
			users.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestService_SeedLibrarian(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(u *UsersMock)
		wantErr    bool
	}{
		{
			name: "creates librarian when missing",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByEmail", mock.Anything, "librarian@library.local").
					Return(nil, models.ErrUserNotFound).Once()
				u.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Role == models.RoleLibrarian
				})).Return(uid, nil).Once()
			},
			wantErr: false,
		},
		{
			name: "noop when librarian exists",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByEmail", mock.Anything, "librarian@library.local").
					Return(&models.User{Role: models.RoleLibrarian}, nil).Once()
			},
			wantErr: false,
		},
		{
			name: "propagates storage error",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByEmail", mock.Anything, "librarian@library.local").
					Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMocks(users)

			svc := New(users, new(MakerMock), newNoopLogger())
			err := svc.SeedLibrarian(context.Background(), "Head Librarian", "librarian@library.local", "change-me")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			users.AssertExpectations(t)
		})
	}
}

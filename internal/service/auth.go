package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
	"example.com/backstage/services/routedelivery/internal/security"
)

// LoginRequest holds login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthService handles logins and server-side sessions
type AuthService interface {
	// Login checks credentials and opens a session
	Login(ctx context.Context, req *LoginRequest) (*model.User, *cache.Session, error)
	// Logout closes a session
	Logout(ctx context.Context, sessionID string) error
	// Authenticate resolves a session to its user
	Authenticate(ctx context.Context, sessionID string) (*model.User, error)
}

type authService struct {
	users repository.UserRepository
	cache cache.CacheClient
	ttl   time.Duration
	log   *logrus.Logger
	now   func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, cacheClient cache.CacheClient, ttl time.Duration, log *logrus.Logger) AuthService {
	return &authService{
		users: users,
		cache: cacheClient,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*model.User, *cache.Session, error) {
	if req.Username == "" || req.Password == "" {
		return nil, nil, NewValidationError("username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, errors.Wrap(err, "failed to get user")
	}

	if err := security.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	session := &cache.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: s.now(),
	}
	if err := s.cache.SetSession(ctx, session, s.ttl); err != nil {
		return nil, nil, errors.Wrap(err, "failed to store session")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User logged in")

	return user, session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.cache.DeleteSession(ctx, sessionID); err != nil {
		return errors.Wrap(err, "failed to delete session")
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.cache.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnauthenticated
		}
		return nil, errors.Wrap(err, "failed to get session")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, errors.Wrap(err, "failed to get user")
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

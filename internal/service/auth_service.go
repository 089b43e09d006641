package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/veloworks/user-service/internal/clients"
	"github.com/veloworks/user-service/internal/models"
	"github.com/veloworks/user-service/internal/observability"
)

type AuthService struct {
	repo          UserRepository
	notifications *clients.NotificationClient
	logger        *observability.Logger
	jwtSecret     []byte // Stored in env (JWT_SECRET)
	jwtExpiry     time.Duration
}

func NewAuthService(repo UserRepository, notifications *clients.NotificationClient, logger *observability.Logger, secret string, expiryHours int) *AuthService {
	return &AuthService{
		repo:          repo,
		notifications: notifications,
		logger:        logger,
		jwtSecret:     []byte(secret),
		jwtExpiry:     time.Duration(expiryHours) * time.Hour,
	}
}

// Creates a new user account. The notification preference call is
// best-effort: its result is logged and never affects the outcome.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	existingUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	res := s.notifications.InitPreferences(ctx, user.ID.String(), user.Email)
	if !res.OK {
		s.logger.Warn("preference_init_skipped", map[string]any{
			"user_id":  user.ID.String(),
			"fallback": res.Fallback,
			"breaker":  res.BreakerState.String(),
		})
	}

	return user, nil
}

// Authenticates a user and returns a JWT token. Throttling happens in
// the login handler before this is called.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// Validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/veloworks/user-service/internal/circuitbreaker"
	"github.com/veloworks/user-service/internal/clients"
	"github.com/veloworks/user-service/internal/models"
	"github.com/veloworks/user-service/internal/observability"
)

func newAuthService(repo UserRepository, notificationsURL string) *AuthService {
	cb := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 3, Cooldown: time.Minute})
	notifications := clients.NewNotificationClient(notificationsURL, time.Second, cb)
	return NewAuthService(repo, notifications, observability.NewLogger(), "test-secret", 1)
}

func TestRegisterSurvivesNotificationOutage(t *testing.T) {
	// Permanently failing collaborator: errors until the breaker opens,
	// then breaker fallbacks. Registration must succeed throughout.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := &mockUserRepo{
		findByEmailFn: func(string) (*models.User, error) { return nil, nil },
		createFn:      func(u *models.User) error { return nil },
	}
	svc := newAuthService(repo, srv.URL)

	for i := 0; i < 6; i++ {
		user, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
		require.NoError(t, err)
		require.NotNil(t, user)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	existing := &models.User{Email: "ada@example.com"}
	repo := &mockUserRepo{
		findByEmailFn: func(string) (*models.User, error) { return existing, nil },
	}
	svc := newAuthService(repo, "http://localhost:0")

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterHashesPassword(t *testing.T) {
	var created *models.User
	repo := &mockUserRepo{
		findByEmailFn: func(string) (*models.User, error) { return nil, nil },
		createFn: func(u *models.User) error {
			created = u
			return nil
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	svc := newAuthService(repo, srv.URL)

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, "hunter22", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")))
}

func TestLoginIssuesValidToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{Email: "ada@example.com", PasswordHash: string(hash)}
	repo := &mockUserRepo{
		findByEmailFn: func(string) (*models.User, error) { return user, nil },
	}
	svc := newAuthService(repo, "http://localhost:0")

	token, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	user := &models.User{Email: "ada@example.com", PasswordHash: string(hash)}
	repo := &mockUserRepo{
		findByEmailFn: func(string) (*models.User, error) { return user, nil },
	}
	svc := newAuthService(repo, "http://localhost:0")

	_, err := svc.Login(context.Background(), "ada@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(string) (*models.User, error) { return nil, nil },
	}
	svc := newAuthService(repo, "http://localhost:0")

	_, err := svc.Login(context.Background(), "nobody@example.com", "hunter22")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

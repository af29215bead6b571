package middlewarectx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mining-portal/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	user := &models.User{Username: "ivan", Role: "user", UUID: "uid-1"}

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(s *AuthServiceMock)
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			setupMock: func(s *AuthServiceMock) {
				s.On("ValidateToken", mock.Anything, "good-token").Return(user, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			setupMock:      func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			setupMock:      func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			setupMock: func(s *AuthServiceMock) {
				s.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, errors.New("token is expired")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			tt.setupMock(authMock)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true

				actor, ok := Actor(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "ivan", actor.Username)
				assert.Equal(t, "user", actor.Role)
				assert.Equal(t, "uid-1", actor.UUID)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			JWTMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			authMock.AssertExpectations(t)
		})
	}
}

func TestJWTMiddleware_RequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{}))
	handler := JWTMiddleware(new(AuthServiceMock), log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// Атрибуты запроса не должны копиться на общем логгере между запросами.
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, 1, strings.Count(line, "op="), "line: %s", line)
		assert.Equal(t, 1, strings.Count(line, "request_id="), "line: %s", line)
	}
}

func TestActor_MissingContext(t *testing.T) {
	actor, ok := Actor(context.Background())
	assert.False(t, ok)
	assert.Nil(t, actor)
}

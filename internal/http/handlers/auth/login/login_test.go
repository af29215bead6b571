package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mining-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/mining-portal/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	user := &models.User{UUID: "uid-1", Username: "ivan", Role: "user"}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(s *ServiceMock)
		wantStatusCode int
		wantStatus     string
	}{
		{
			name:        "valid login",
			requestBody: Request{Username: "ivan", Password: "secret123"},
			setupMock: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "ivan", "secret123").
					Return("jwt-token", user, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
		{
			name:           "validation error - short password",
			requestBody:    Request{Username: "ivan", Password: "123"},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
		{
			name:        "wrong credentials",
			requestBody: Request{Username: "ivan", Password: "wrongpass"},
			setupMock: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "ivan", "wrongpass").
					Return("", nil, apperr.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
		},
		{
			name:        "unknown username gives same answer",
			requestBody: Request{Username: "ghost", Password: "whatever123"},
			setupMock: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "ghost", "whatever123").
					Return("", nil, apperr.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)
			handler := New(newNoopLogger(), serviceMock)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])

			if tt.wantStatusCode == http.StatusOK {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "jwt-token", data["token"])
				assert.Equal(t, "ivan", data["user"].(map[string]any)["username"])
			}
			serviceMock.AssertExpectations(t)
		})
	}
}

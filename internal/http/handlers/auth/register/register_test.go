package register

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
	authservice "github.com/magabrotheeeer/mining-portal/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, in authservice.RegisterInput, proof models.PaymentProof) (*models.User, error) {
	args := m.Called(ctx, in, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validBody() Request {
	return Request{
		Name:      "Ivan Petrov",
		Email:     "ivan@example.com",
		Phone:     "+79000000000",
		Status:    "miner",
		Username:  "ivan",
		Password:  "secret123",
		State:     "Karnataka",
		District:  "Bellary",
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: "aabbcc",
	}
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	registered := &models.User{
		UUID:          "uid-1",
		Username:      "ivan",
		Email:         "ivan@example.com",
		Role:          "user",
		PaymentStatus: models.PaymentCompleted,
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(s *ServiceMock)
		wantStatusCode int
		wantStatus     string
	}{
		{
			name:        "valid registration",
			requestBody: validBody(),
			setupMock: func(s *ServiceMock) {
				s.On("Register", mock.Anything,
					mock.MatchedBy(func(in authservice.RegisterInput) bool {
						return in.Username == "ivan" && in.Password == "secret123"
					}),
					models.PaymentProof{OrderID: "order_1", PaymentID: "pay_1", Signature: "aabbcc"},
				).Return(registered, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
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
			name: "validation error - missing payment proof",
			requestBody: func() Request {
				req := validBody()
				req.OrderID, req.PaymentID, req.Signature = "", "", ""
				return req
			}(),
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
		{
			name:        "duplicate username",
			requestBody: validBody(),
			setupMock: func(s *ServiceMock) {
				s.On("Register", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, apperr.ErrConflict).Once()
			},
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
		},
		{
			name:        "invalid payment signature",
			requestBody: validBody(),
			setupMock: func(s *ServiceMock) {
				s.On("Register", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, apperr.ErrForbidden).Once()
			},
			wantStatusCode: http.StatusForbidden,
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

			req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])

			if tt.wantStatusCode == http.StatusCreated {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "registration successful", data["message"])
				user := data["user"].(map[string]any)
				assert.Equal(t, "ivan", user["username"])
				// Хэш пароля наружу не отдаётся.
				_, leaked := user["password_hash"]
				assert.False(t, leaked)
			}
			serviceMock.AssertExpectations(t)
		})
	}
}

package request

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mining-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/mining-portal/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateRequest(ctx context.Context, req models.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetRequestByID(ctx context.Context, kind models.RequestKind, id string) (*models.Request, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *RepoMock) ListRequestsByUsername(ctx context.Context, kind models.RequestKind, username string) ([]*models.Request, error) {
	args := m.Called(ctx, kind, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Request), args.Error(1)
}

func (m *RepoMock) ListAllRequests(ctx context.Context, kind models.RequestKind) ([]*models.Request, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Request), args.Error(1)
}

func (m *RepoMock) UpdateRequestResponse(ctx context.Context, kind models.RequestKind, id string,
	upd models.RespondUpdate, respondedAt time.Time) (*models.Request, error) {
	args := m.Called(ctx, kind, id, upd, respondedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type FileStoreMock struct{ mock.Mock }

func (m *FileStoreMock) Save(originalName string, r io.Reader) (string, error) {
	args := m.Called(originalName, r)
	return args.String(0), args.Error(1)
}

func (m *FileStoreMock) Delete(handle string) error {
	return m.Called(handle).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type fixtures struct {
	repo  *RepoMock
	users *UsersMock
	files *FileStoreMock
	cache *CacheMock
	svc   *RequestService
}

func newFixtures() *fixtures {
	repo := new(RepoMock)
	users := new(UsersMock)
	files := new(FileStoreMock)
	cache := new(CacheMock)
	return &fixtures{
		repo:  repo,
		users: users,
		files: files,
		cache: cache,
		svc:   NewRequestService(repo, users, files, cache, newNoopLogger()),
	}
}

var (
	actorUser  = &models.User{UUID: "uid-owner", Username: "owner", Role: "user"}
	actorAdmin = &models.User{UUID: "uid-admin", Username: "admin", Role: "admin"}
	otherUser  = &models.User{UUID: "uid-other", Username: "other", Role: "user"}
)

func TestRequestService_Submit(t *testing.T) {
	created := &models.Request{
		ID:       "42",
		Kind:     models.KindLegalAdvice,
		UserUID:  "uid-owner",
		Username: "owner",
		Title:    "Lease renewal",
		Status:   models.StatusPending,
	}

	t.Run("success without attachment", func(t *testing.T) {
		f := newFixtures()
		f.users.On("GetUser", mock.Anything, "uid-owner").Return(actorUser, nil).Once()
		f.repo.On("CreateRequest", mock.Anything, mock.MatchedBy(func(req models.Request) bool {
			return req.Kind == models.KindLegalAdvice &&
				req.UserUID == "uid-owner" &&
				req.Username == "owner" &&
				req.FileHandle == "" &&
				req.RespondedAt == nil
		})).Return("42", nil).Once()
		f.repo.On("GetRequestByID", mock.Anything, models.KindLegalAdvice, "42").Return(created, nil).Once()
		f.cache.On("Invalidate", "requests:legal-advice:owner").Return(nil).Once()

		got, err := f.svc.Submit(context.Background(), actorUser, SubmitInput{
			Kind:        models.KindLegalAdvice,
			Title:       "Lease renewal",
			Description: "Need help with mining lease renewal",
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Nil(t, got.RespondedAt)
		f.repo.AssertExpectations(t)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		f := newFixtures()

		got, err := f.svc.Submit(context.Background(), actorUser, SubmitInput{
			Kind:        models.KindLegalAdvice,
			Title:       "   ",
			Description: "something",
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Nil(t, got)
		f.repo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	})

	t.Run("forged username rejected before persistence", func(t *testing.T) {
		f := newFixtures()

		got, err := f.svc.Submit(context.Background(), actorUser, SubmitInput{
			Kind:        models.KindLegalAdvice,
			Username:    "somebody-else",
			Title:       "Lease renewal",
			Description: "Need help",
		})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.Nil(t, got)
		f.files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.repo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	})

	t.Run("attachment removed when create fails", func(t *testing.T) {
		f := newFixtures()
		f.users.On("GetUser", mock.Anything, "uid-owner").Return(actorUser, nil).Once()
		f.files.On("Save", "plan.pdf", mock.Anything).Return("handle-1.pdf", nil).Once()
		f.repo.On("CreateRequest", mock.Anything, mock.Anything).Return("", apperr.ErrStorage).Once()
		f.files.On("Delete", "handle-1.pdf").Return(nil).Once()

		got, err := f.svc.Submit(context.Background(), actorUser, SubmitInput{
			Kind:        models.KindMiningPlan,
			Title:       "Plan approval",
			Description: "Attached the draft plan",
			Attachment: &Attachment{
				OriginalName: "plan.pdf",
				Content:      strings.NewReader("pdf bytes"),
			},
		})
		assert.ErrorIs(t, err, apperr.ErrStorage)
		assert.Nil(t, got)
		f.files.AssertExpectations(t)
	})
}

func TestRequestService_GetOwned(t *testing.T) {
	list := []*models.Request{
		{ID: "2", Username: "owner"},
		{ID: "1", Username: "owner"},
	}

	t.Run("cache miss reads repo and fills cache", func(t *testing.T) {
		f := newFixtures()
		f.cache.On("Get", "requests:legal-advice:owner", mock.Anything).Return(false, nil).Once()
		f.repo.On("ListRequestsByUsername", mock.Anything, models.KindLegalAdvice, "owner").Return(list, nil).Once()
		f.cache.On("Set", "requests:legal-advice:owner", list, time.Hour).Return(nil).Once()

		got, err := f.svc.GetOwned(context.Background(), actorUser, models.KindLegalAdvice, "owner")
		require.NoError(t, err)
		assert.Len(t, got, 2)
		f.cache.AssertExpectations(t)
	})

	t.Run("admin reads anyone's list", func(t *testing.T) {
		f := newFixtures()
		f.cache.On("Get", "requests:legal-advice:owner", mock.Anything).Return(false, nil).Once()
		f.repo.On("ListRequestsByUsername", mock.Anything, models.KindLegalAdvice, "owner").Return(list, nil).Once()
		f.cache.On("Set", "requests:legal-advice:owner", list, time.Hour).Return(nil).Once()

		_, err := f.svc.GetOwned(context.Background(), actorAdmin, models.KindLegalAdvice, "owner")
		require.NoError(t, err)
	})

	t.Run("stranger denied before any read", func(t *testing.T) {
		f := newFixtures()

		got, err := f.svc.GetOwned(context.Background(), otherUser, models.KindLegalAdvice, "owner")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.Nil(t, got)
		f.repo.AssertNotCalled(t, "ListRequestsByUsername", mock.Anything, mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestRequestService_GetByID(t *testing.T) {
	stored := &models.Request{ID: "7", Kind: models.KindMiningPlan, UserUID: "uid-owner", Username: "owner"}

	t.Run("owner reads own request", func(t *testing.T) {
		f := newFixtures()
		f.cache.On("Get", "request:mining-plan:7", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetRequestByID", mock.Anything, models.KindMiningPlan, "7").Return(stored, nil).Once()
		f.cache.On("Set", "request:mining-plan:7", stored, time.Hour).Return(nil).Once()

		got, err := f.svc.GetByID(context.Background(), actorUser, models.KindMiningPlan, "7")
		require.NoError(t, err)
		assert.Equal(t, "7", got.ID)
	})

	t.Run("stranger denied", func(t *testing.T) {
		f := newFixtures()
		f.cache.On("Get", "request:mining-plan:7", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetRequestByID", mock.Anything, models.KindMiningPlan, "7").Return(stored, nil).Once()
		f.cache.On("Set", "request:mining-plan:7", stored, time.Hour).Return(nil).Once()

		got, err := f.svc.GetByID(context.Background(), otherUser, models.KindMiningPlan, "7")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.Nil(t, got)
	})

	t.Run("not found propagates", func(t *testing.T) {
		f := newFixtures()
		f.cache.On("Get", "request:mining-plan:404", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetRequestByID", mock.Anything, models.KindMiningPlan, "404").Return(nil, apperr.ErrNotFound).Once()

		got, err := f.svc.GetByID(context.Background(), actorAdmin, models.KindMiningPlan, "404")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Nil(t, got)
	})
}

func TestRequestService_Respond(t *testing.T) {
	t.Run("admin responds and marks touch time", func(t *testing.T) {
		f := newFixtures()
		upd := models.RespondUpdate{Response: "Approved", Status: models.StatusResponded}
		now := time.Now().UTC()
		updated := &models.Request{
			ID: "7", Kind: models.KindLegalAdvice, Username: "owner",
			Status: models.StatusResponded, Response: "Approved", RespondedAt: &now,
		}
		f.repo.On("UpdateRequestResponse", mock.Anything, models.KindLegalAdvice, "7", upd,
			mock.MatchedBy(func(ts time.Time) bool {
				return time.Since(ts) < time.Second
			})).Return(updated, nil).Once()
		f.cache.On("Invalidate", "request:legal-advice:7").Return(nil).Once()
		f.cache.On("Invalidate", "requests:legal-advice:owner").Return(nil).Once()

		got, err := f.svc.Respond(context.Background(), actorAdmin, models.KindLegalAdvice, "7", upd)
		require.NoError(t, err)
		assert.Equal(t, models.StatusResponded, got.Status)
		assert.NotNil(t, got.RespondedAt)
		f.cache.AssertExpectations(t)
	})

	t.Run("notes-only update still touches responded_at", func(t *testing.T) {
		f := newFixtures()
		upd := models.RespondUpdate{AdminNotes: "reviewed, waiting on survey report"}
		now := time.Now().UTC()
		updated := &models.Request{
			ID: "7", Kind: models.KindLegalAdvice, Username: "owner",
			Status: models.StatusPending, AdminNotes: "reviewed, waiting on survey report", RespondedAt: &now,
		}
		f.repo.On("UpdateRequestResponse", mock.Anything, models.KindLegalAdvice, "7", upd, mock.Anything).
			Return(updated, nil).Once()
		f.cache.On("Invalidate", "request:legal-advice:7").Return(nil).Once()
		f.cache.On("Invalidate", "requests:legal-advice:owner").Return(nil).Once()

		got, err := f.svc.Respond(context.Background(), actorAdmin, models.KindLegalAdvice, "7", upd)
		require.NoError(t, err)
		assert.NotNil(t, got.RespondedAt)
	})

	t.Run("non-admin denied, request untouched", func(t *testing.T) {
		f := newFixtures()

		got, err := f.svc.Respond(context.Background(), actorUser, models.KindLegalAdvice, "7",
			models.RespondUpdate{Response: "hack"})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.Nil(t, got)
		f.repo.AssertNotCalled(t, "UpdateRequestResponse",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		f := newFixtures()

		got, err := f.svc.Respond(context.Background(), actorAdmin, models.KindLegalAdvice, "7",
			models.RespondUpdate{Status: "Archived"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Nil(t, got)
	})

	t.Run("kind-specific status honored", func(t *testing.T) {
		f := newFixtures()
		upd := models.RespondUpdate{Status: models.StatusCompleted}
		now := time.Now().UTC()
		updated := &models.Request{
			ID: "3", Kind: models.KindMiningPlan, Username: "owner",
			Status: models.StatusCompleted, RespondedAt: &now,
		}
		f.repo.On("UpdateRequestResponse", mock.Anything, models.KindMiningPlan, "3", upd, mock.Anything).
			Return(updated, nil).Once()
		f.cache.On("Invalidate", "request:mining-plan:3").Return(nil).Once()
		f.cache.On("Invalidate", "requests:mining-plan:owner").Return(nil).Once()

		got, err := f.svc.Respond(context.Background(), actorAdmin, models.KindMiningPlan, "3", upd)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
	})
}

func TestRequestService_ListAll(t *testing.T) {
	list := []*models.Request{{ID: "2"}, {ID: "1"}}

	t.Run("admin lists everything", func(t *testing.T) {
		f := newFixtures()
		f.repo.On("ListAllRequests", mock.Anything, models.KindLegalAdvice).Return(list, nil).Once()

		got, err := f.svc.ListAll(context.Background(), actorAdmin, models.KindLegalAdvice)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("regular user denied", func(t *testing.T) {
		f := newFixtures()

		got, err := f.svc.ListAll(context.Background(), actorUser, models.KindLegalAdvice)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.Nil(t, got)
		f.repo.AssertNotCalled(t, "ListAllRequests", mock.Anything, mock.Anything)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		f := newFixtures()
		f.repo.On("ListAllRequests", mock.Anything, models.KindLegalAdvice).
			Return(nil, errors.New("connection refused")).Once()

		got, err := f.svc.ListAll(context.Background(), actorAdmin, models.KindLegalAdvice)
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

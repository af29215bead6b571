// Package request содержит бизнес-логику жизненного цикла обращений:
// подачу, чтение, ответы администратора и списки, с кешированием.
//
// Всякая операция сначала консультирует политику авторизации; отказ —
// это ошибка apperr.ErrForbidden, данные при этом не читаются и не меняются.
package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/mining-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/mining-portal/internal/models"
	"github.com/magabrotheeeer/mining-portal/internal/services/authz"
)

// Repository определяет методы для работы с обращениями в хранилище.
type Repository interface {
	// CreateRequest добавляет новое обращение и возвращает его ID.
	CreateRequest(ctx context.Context, req models.Request) (string, error)
	// GetRequestByID возвращает обращение по ID.
	GetRequestByID(ctx context.Context, kind models.RequestKind, id string) (*models.Request, error)
	// ListRequestsByUsername возвращает обращения пользователя, новые первыми.
	ListRequestsByUsername(ctx context.Context, kind models.RequestKind, username string) ([]*models.Request, error)
	// ListAllRequests возвращает все обращения варианта, новые первыми.
	ListAllRequests(ctx context.Context, kind models.RequestKind) ([]*models.Request, error)
	// UpdateRequestResponse применяет частичное обновление администратора.
	UpdateRequestResponse(ctx context.Context, kind models.RequestKind, id string,
		upd models.RespondUpdate, respondedAt time.Time) (*models.Request, error)
}

// UserRepository отдаёт владельца обращения по UID.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// FileStore описывает хранилище вложений.
type FileStore interface {
	// Save сохраняет содержимое файла и возвращает хэндл.
	Save(originalName string, r io.Reader) (string, error)
	// Delete удаляет сохранённое вложение.
	Delete(handle string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Attachment — необязательный файл, приложенный к подаваемому обращению.
type Attachment struct {
	OriginalName string
	Content      io.Reader
}

// SubmitInput — данные подачи нового обращения.
// Username из тела запроса необязателен; если он указан и не совпадает с
// автором, подача отклоняется до какой-либо записи (подделка владельца).
type SubmitInput struct {
	Kind        models.RequestKind
	Username    string
	Title       string
	Description string
	Attachment  *Attachment
}

// RequestService реализует жизненный цикл обращений.
type RequestService struct {
	repo  Repository
	users UserRepository
	files FileStore
	cache Cache
	log   *slog.Logger
}

// NewRequestService создает новый экземпляр RequestService.
func NewRequestService(repo Repository, users UserRepository, files FileStore, cache Cache, log *slog.Logger) *RequestService {
	return &RequestService{
		repo:  repo,
		users: users,
		files: files,
		cache: cache,
		log:   log,
	}
}

func cacheKeyByID(kind models.RequestKind, id string) string {
	return fmt.Sprintf("request:%s:%s", kind, id)
}

func cacheKeyList(kind models.RequestKind, username string) string {
	return fmt.Sprintf("requests:%s:%s", kind, username)
}

// Submit создаёт новое обращение от имени actor. Новое обращение всегда
// в статусе Pending и без responded_at. Если вложение уже сохранено, а
// запись создать не удалось, вложение удаляется компенсирующим действием
// до возврата ошибки.
func (s *RequestService) Submit(ctx context.Context, actor *models.User, in SubmitInput) (*models.Request, error) {
	const op = "request.Submit"

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" {
		return nil, fmt.Errorf("%s: %w: title is required", op, apperr.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%s: %w: description is required", op, apperr.ErrValidation)
	}

	if in.Username != "" && in.Username != actor.Username && !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w: not authorized to submit for this user", op, apperr.ErrForbidden)
	}

	owner, err := s.users.GetUser(ctx, actor.UUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var fileHandle, fileName string
	if in.Attachment != nil {
		fileHandle, err = s.files.Save(in.Attachment.OriginalName, in.Attachment.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		fileName = in.Attachment.OriginalName
	}

	id, err := s.repo.CreateRequest(ctx, models.Request{
		Kind:        in.Kind,
		UserUID:     owner.UUID,
		Username:    owner.Username,
		Title:       title,
		Description: description,
		FileHandle:  fileHandle,
		FileName:    fileName,
	})
	if err != nil {
		if fileHandle != "" {
			if delErr := s.files.Delete(fileHandle); delErr != nil {
				s.log.Error("failed to delete attachment after submission error",
					slog.String("handle", fileHandle), slog.Any("err", delErr))
			}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.GetRequestByID(ctx, in.Kind, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created new request", slog.String("kind", string(in.Kind)), slog.String("id", id))

	if err := s.cache.Invalidate(cacheKeyList(in.Kind, owner.Username)); err != nil {
		s.log.Warn("failed to invalidate list cache", slog.Any("err", err))
	}
	return created, nil
}

// GetOwned возвращает обращения пользователя ownerUsername, новые первыми.
// Доступно самому пользователю и администратору.
func (s *RequestService) GetOwned(ctx context.Context, actor *models.User, kind models.RequestKind,
	ownerUsername string) ([]*models.Request, error) {
	const op = "request.GetOwned"

	if !authz.CanReadAllOwnedBy(actor, ownerUsername) {
		return nil, fmt.Errorf("%s: %w: not authorized to view these requests", op, apperr.ErrForbidden)
	}

	cacheKey := cacheKeyList(kind, ownerUsername)
	var cached []*models.Request
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListRequestsByUsername(ctx, kind, ownerUsername)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache request list", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// GetByID возвращает обращение по ID. Доступно владельцу и администратору.
func (s *RequestService) GetByID(ctx context.Context, actor *models.User, kind models.RequestKind,
	id string) (*models.Request, error) {
	const op = "request.GetByID"

	var result *models.Request
	cacheKey := cacheKeyByID(kind, id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found {
		result, err = s.repo.GetRequestByID(ctx, kind, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to cache request", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	if !authz.CanRead(actor, result) {
		return nil, fmt.Errorf("%s: %w: not authorized to view this request", op, apperr.ErrForbidden)
	}
	return result, nil
}

// Respond применяет частичное обновление администратора: ответ, статус,
// служебные заметки. responded_at выставляется при каждом вызове, даже если
// изменились только заметки — поле означает "последнее касание администратором".
func (s *RequestService) Respond(ctx context.Context, actor *models.User, kind models.RequestKind,
	id string, upd models.RespondUpdate) (*models.Request, error) {
	const op = "request.Respond"

	if !authz.CanRespond(actor) {
		return nil, fmt.Errorf("%s: %w: admin access required", op, apperr.ErrForbidden)
	}
	if upd.Status != "" && !kind.ValidStatus(upd.Status) {
		return nil, fmt.Errorf("%s: %w: unknown status %q", op, apperr.ErrValidation, upd.Status)
	}

	updated, err := s.repo.UpdateRequestResponse(ctx, kind, id, upd, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("request updated by admin", slog.String("kind", string(kind)),
		slog.String("id", id), slog.String("status", updated.Status))

	if err := s.cache.Invalidate(cacheKeyByID(kind, id)); err != nil {
		s.log.Warn("failed to invalidate request cache", slog.Any("err", err))
	}
	if err := s.cache.Invalidate(cacheKeyList(kind, updated.Username)); err != nil {
		s.log.Warn("failed to invalidate list cache", slog.Any("err", err))
	}
	return updated, nil
}

// ListAll возвращает все обращения варианта, новые первыми. Только для
// администратора; список не кешируется, администратору нужна свежая картина.
func (s *RequestService) ListAll(ctx context.Context, actor *models.User, kind models.RequestKind) ([]*models.Request, error) {
	const op = "request.ListAll"

	if !authz.CanListAll(actor) {
		return nil, fmt.Errorf("%s: %w: admin access required", op, apperr.ErrForbidden)
	}
	result, err := s.repo.ListAllRequests(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Package read реализует HTTP-обработчик для получения профиля пользователя.
//
// Профиль отдаётся без учётных данных. Доступен любому аутентифицированному
// пользователю; маршрут /users/me отдаёт профиль самого вызывающего.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-portal/internal/http/response"
	"github.com/magabrotheeeer/mining-portal/internal/lib/sl"
	"github.com/magabrotheeeer/mining-portal/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	GetProfile(ctx context.Context, username string) (*models.User, error)
}

// Handler обрабатывает запросы на получение профиля пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики профилей
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает профиль по имени пользователя. Хэш пароля не возвращается.
// @Tags Users
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	if username == "" {
		// Маршрут /users/me: профиль вызывающего.
		actor, ok := middlewarectx.Actor(r.Context())
		if !ok {
			log.Error("username not found in context")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		username = actor.Username
	}

	user, err := h.service.GetProfile(r.Context(), username)
	if err != nil {
		log.Error("failed to read profile", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("profile read", slog.String("username", username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user.View(),
	}))
}

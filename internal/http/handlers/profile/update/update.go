// Package update реализует HTTP-обработчик изменения профиля пользователя.
//
// Менять профиль может только его владелец. Пароль, имя пользователя и
// почта через этот обработчик не меняются: таких полей нет во входной
// структуре, лишние поля JSON игнорируются при декодировании.
package update

import (
	"context"
	"encoding/json"
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

// Service описывает интерфейс бизнес-логики изменения профиля.
type Service interface {
	UpdateProfile(ctx context.Context, actor *models.User, targetUsername string,
		upd models.ProfileUpdate) (*models.User, error)
}

// Handler обрабатывает запросы на изменение профиля.
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
// @Summary Изменение профиля
// @Description Частично обновляет изменяемые поля профиля. Доступно только владельцу.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Param request body models.ProfileUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённый профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Чужой профиль"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{username} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.Actor(r.Context())
	if !ok {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	targetUsername := chi.URLParam(r, "username")

	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), actor, targetUsername, upd)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("profile updated", slog.String("username", targetUsername))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user.View(),
	}))
}

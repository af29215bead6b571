// Package read реализует HTTP-обработчик для получения обращения по ID.
//
// Доступ имеют владелец обращения и администратор; остальным — 403.
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

// Service описывает интерфейс бизнес-логики чтения обращения.
type Service interface {
	GetByID(ctx context.Context, actor *models.User, kind models.RequestKind, id string) (*models.Request, error)
}

// Handler обрабатывает запросы на получение обращения по идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики обращений
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить обращение
// @Description Возвращает обращение по ID. Доступно владельцу и администратору.
// @Tags Requests
// @Produce  json
// @Param variant path string true "Вариант обращения"
// @Param id path string true "Идентификатор обращения"
// @Success 200 {object} map[string]any "Обращение"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Обращение не найдено"
// @Router /requests/{variant}/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	kind, ok := models.ParseRequestKind(chi.URLParam(r, "variant"))
	if !ok {
		log.Error("unknown request variant")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown request variant"))
		return
	}

	actor, okActor := middlewarectx.Actor(r.Context())
	if !okActor {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.service.GetByID(r.Context(), actor, kind, id)
	if err != nil {
		log.Error("failed to read request", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("request read", slog.String("kind", string(kind)), slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"request": result,
	}))
}

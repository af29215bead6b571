// Package respond реализует HTTP-обработчик ответа администратора на обращение.
//
// Обновление частичное: применяются только присланные поля. responded_at
// выставляется при каждом вызове. Статус должен входить в перечень
// допустимых для варианта обращения.
package respond

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

// Service описывает интерфейс бизнес-логики ответа на обращение.
type Service interface {
	Respond(ctx context.Context, actor *models.User, kind models.RequestKind,
		id string, upd models.RespondUpdate) (*models.Request, error)
}

// Handler обрабатывает запросы ответа администратора.
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
// @Summary Ответить на обращение
// @Description Применяет частичное обновление администратора: ответ, статус, заметки.
// @Tags Requests
// @Accept  json
// @Produce  json
// @Param variant path string true "Вариант обращения"
// @Param id path string true "Идентификатор обращения"
// @Param request body models.RespondUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённое обращение"
// @Failure 400 {object} response.ErrorResponse "Недопустимый статус"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Обращение не найдено"
// @Router /requests/{variant}/{id}/respond [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.respond"

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

	var upd models.RespondUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.service.Respond(r.Context(), actor, kind, id, upd)
	if err != nil {
		log.Error("failed to respond to request", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("request responded", slog.String("kind", string(kind)),
		slog.String("id", id), slog.String("status", updated.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"request": updated,
	}))
}

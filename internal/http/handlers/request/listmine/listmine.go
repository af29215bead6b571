// Package listmine реализует HTTP-обработчик списка обращений пользователя.
//
// Маршрут /requests/{variant}/mine отдаёт обращения вызывающего;
// маршрут /requests/{variant}/user/{username} — обращения указанного
// пользователя (самому пользователю или администратору).
package listmine

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

// Service описывает интерфейс бизнес-логики чтения списка обращений.
type Service interface {
	GetOwned(ctx context.Context, actor *models.User, kind models.RequestKind,
		ownerUsername string) ([]*models.Request, error)
}

// Handler обрабатывает запросы списка обращений пользователя.
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
// @Summary Список обращений пользователя
// @Description Возвращает обращения пользователя, новые первыми.
// @Tags Requests
// @Produce  json
// @Param variant path string true "Вариант обращения"
// @Success 200 {object} map[string]any "Список обращений"
// @Failure 403 {object} response.ErrorResponse "Чужой список"
// @Router /requests/{variant}/mine [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.listmine"

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

	ownerUsername := chi.URLParam(r, "username")
	if ownerUsername == "" {
		ownerUsername = actor.Username
	}

	requests, err := h.service.GetOwned(r.Context(), actor, kind, ownerUsername)
	if err != nil {
		log.Error("failed to list requests", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("requests listed", slog.String("kind", string(kind)),
		slog.String("owner", ownerUsername), slog.Int("count", len(requests)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"requests": requests,
	}))
}

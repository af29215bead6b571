// Package listall реализует HTTP-обработчик списка всех обращений варианта.
//
// Доступно только администратору.
package listall

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

// Service описывает интерфейс бизнес-логики списка всех обращений.
type Service interface {
	ListAll(ctx context.Context, actor *models.User, kind models.RequestKind) ([]*models.Request, error)
}

// Handler обрабатывает административные запросы списка обращений.
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
// @Summary Все обращения варианта
// @Description Возвращает все обращения варианта, новые первыми. Только для администратора.
// @Tags Requests
// @Produce  json
// @Param variant path string true "Вариант обращения"
// @Success 200 {object} map[string]any "Список обращений"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Router /requests/{variant}/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.listall"

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

	requests, err := h.service.ListAll(r.Context(), actor, kind)
	if err != nil {
		log.Error("failed to list all requests", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("all requests listed", slog.String("kind", string(kind)), slog.Int("count", len(requests)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"requests": requests,
	}))
}

// Package libraryverify реализует HTTP-обработчик проверки оплаты доступа
// к библиотеке. При верной подписи доступ открывается атомарно: флаг
// доступа и статус оплаты меняются одним обновлением.
package libraryverify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-portal/internal/http/response"
	"github.com/magabrotheeeer/mining-portal/internal/lib/sl"
	"github.com/magabrotheeeer/mining-portal/internal/models"
)

// Service описывает интерфейс бизнес-логики открытия доступа к библиотеке.
type Service interface {
	UnlockLibrary(ctx context.Context, userUID string, proof models.PaymentProof) (*models.User, error)
}

// Handler обрабатывает запросы проверки оплаты доступа к библиотеке.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики учётных записей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Открыть доступ к библиотеке
// @Description Проверяет платёжное подтверждение и открывает вызывающему доступ к библиотеке.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.PaymentProof true "Платёжное подтверждение"
// @Success 200 {object} map[string]any "Доступ открыт"
// @Failure 403 {object} response.ErrorResponse "Подпись не прошла проверку"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /payments/library-verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.libraryverify"

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

	var proof models.PaymentProof
	if err := json.NewDecoder(r.Body).Decode(&proof); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(proof); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.UnlockLibrary(r.Context(), actor.UUID, proof)
	if err != nil {
		log.Error("failed to unlock library access", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("library access granted", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"verified": true,
		"message":  "library access granted",
		"user":     user.View(),
	}))
}

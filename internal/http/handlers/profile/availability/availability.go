// Package availability реализует HTTP-обработчик проверки занятости
// имени пользователя и почты перед регистрацией.
package availability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-portal/internal/http/response"
	"github.com/magabrotheeeer/mining-portal/internal/lib/sl"
)

// Request — проверяемые идентификаторы. Оба поля необязательны.
type Request struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Service описывает интерфейс бизнес-логики проверки занятости.
type Service interface {
	CheckAvailability(ctx context.Context, username, email string) (usernameFree, emailFree bool, err error)
}

// Handler обрабатывает запросы проверки занятости.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.availability"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	usernameFree, emailFree, err := h.service.CheckAvailability(r.Context(), req.Username, req.Email)
	if err != nil {
		log.Error("availability check failed", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"username_available": usernameFree,
		"email_available":    emailFree,
	}))
}

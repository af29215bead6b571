// Package verify реализует HTTP-обработчик проверки подписи платежа.
//
// Проверка локальная, без обращения к платёжной системе: подпись — это
// HMAC-SHA256 от пары (order_id, payment_id) на ключе магазина.
package verify

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-portal/internal/http/response"
	"github.com/magabrotheeeer/mining-portal/internal/lib/signature"
	"github.com/magabrotheeeer/mining-portal/internal/lib/sl"
	"github.com/magabrotheeeer/mining-portal/internal/models"
)

// Handler обрабатывает запросы проверки платёжной подписи.
type Handler struct {
	log           *slog.Logger        // Логгер для записи информации и ошибок
	gatewaySecret string              // Ключ платёжной системы
	validate      *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и ключом платёжной системы.
func New(log *slog.Logger, gatewaySecret string) *Handler {
	return &Handler{
		log:           log,
		gatewaySecret: gatewaySecret,
		validate:      validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверить подпись платежа
// @Description Проверяет платёжное подтверждение (order_id, payment_id, signature).
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.PaymentProof true "Платёжное подтверждение"
// @Success 200 {object} map[string]any "Подпись верна"
// @Failure 400 {object} response.ErrorResponse "Подпись не прошла проверку"
// @Router /payments/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	if !signature.Verify(proof.OrderID, proof.PaymentID, proof.Signature, h.gatewaySecret) {
		log.Error("payment signature mismatch", slog.String("order_id", proof.OrderID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("payment verification failed"))
		return
	}

	log.Info("payment verified", slog.String("order_id", proof.OrderID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"verified": true,
	}))
}

// Package ordercreate реализует HTTP-обработчик создания заказа на оплату
// регистрационного взноса во внешней платёжной системе.
package ordercreate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-portal/internal/http/response"
	"github.com/magabrotheeeer/mining-portal/internal/lib/sl"
	"github.com/magabrotheeeer/mining-portal/internal/paymentprovider"
)

// Request — необязательная сумма взноса; при нуле берётся сумма из конфига.
type Request struct {
	Amount int `json:"amount"`
}

// Provider описывает интерфейс клиента платёжной системы.
type Provider interface {
	CreateOrder(ctx context.Context, params paymentprovider.CreateOrderRequest) (*paymentprovider.CreateOrderResponse, error)
	KeyID() string
}

// Handler обрабатывает запросы создания заказа на оплату регистрации.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	provider      Provider     // Клиент платёжной системы
	defaultAmount int          // Размер регистрационного взноса из конфига
	currency      string       // Код валюты
}

// New создает новый Handler с переданными логгером, клиентом и настройками взноса.
func New(log *slog.Logger, provider Provider, defaultAmount int, currency string) *Handler {
	return &Handler{
		log:           log,
		provider:      provider,
		defaultAmount: defaultAmount,
		currency:      currency,
	}
}

// ServeHTTP godoc
// @Summary Создать заказ на оплату регистрации
// @Description Создаёт заказ во внешней платёжной системе и возвращает его реквизиты.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]any "Реквизиты заказа"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжной системы"
// @Router /payments/order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.ordercreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if r.Body != nil {
		// Тело необязательно: пустое тело означает взнос по умолчанию.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	amount := req.Amount
	if amount <= 0 {
		amount = h.defaultAmount
	}

	order, err := h.provider.CreateOrder(r.Context(), paymentprovider.CreateOrderRequest{
		Amount:   amount,
		Currency: h.currency,
		Receipt:  fmt.Sprintf("registration_%d", time.Now().UnixMilli()),
	})
	if err != nil {
		log.Error("failed to create payment order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment order"))
		return
	}

	log.Info("payment order created", slog.String("order_id", order.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   h.provider.KeyID(),
	}))
}

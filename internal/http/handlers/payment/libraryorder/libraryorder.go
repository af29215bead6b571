// Package libraryorder реализует HTTP-обработчик создания заказа на оплату
// доступа к библиотеке. Сумма фиксирована и задаётся конфигом.
package libraryorder

import (
	"context"
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

// Provider описывает интерфейс клиента платёжной системы.
type Provider interface {
	CreateOrder(ctx context.Context, params paymentprovider.CreateOrderRequest) (*paymentprovider.CreateOrderResponse, error)
	KeyID() string
}

// Handler обрабатывает запросы создания заказа на оплату доступа к библиотеке.
type Handler struct {
	log      *slog.Logger // Логгер для записи информации и ошибок
	provider Provider     // Клиент платёжной системы
	amount   int          // Стоимость доступа к библиотеке из конфига
	currency string       // Код валюты
}

// New создает новый Handler с переданными логгером, клиентом и стоимостью доступа.
func New(log *slog.Logger, provider Provider, amount int, currency string) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
		amount:   amount,
		currency: currency,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.libraryorder"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	order, err := h.provider.CreateOrder(r.Context(), paymentprovider.CreateOrderRequest{
		Amount:   h.amount,
		Currency: h.currency,
		Receipt:  fmt.Sprintf("library_access_%d", time.Now().UnixMilli()),
	})
	if err != nil {
		log.Error("failed to create library access order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment order"))
		return
	}

	log.Info("library access order created", slog.String("order_id", order.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   h.provider.KeyID(),
	}))
}

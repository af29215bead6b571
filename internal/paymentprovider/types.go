package paymentprovider

// CreateOrderRequest — параметры создания заказа на оплату.
type CreateOrderRequest struct {
	Amount   int    // Сумма в основных единицах валюты
	Currency string // Код валюты, например INR
	Receipt  string // Идентификатор квитанции на стороне портала
}

// createOrderWire — тело запроса в формате платёжной системы.
// Сумма уже в минимальных единицах.
type createOrderWire struct {
	Amount         int    `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

// CreateOrderResponse — ответ платёжной системы на создание заказа.
type CreateOrderResponse struct {
	ID       string `json:"id"`       // Идентификатор заказа
	Amount   int    `json:"amount"`   // Сумма в минимальных единицах
	Currency string `json:"currency"` // Код валюты
	Receipt  string `json:"receipt"`  // Квитанция, переданная при создании
	Status   string `json:"status"`   // Статус заказа на стороне платёжной системы
}

package models

// PaymentProof — тройка, подтверждающая завершённый платёж во внешней
// платёжной системе. Подпись проверяется перед регистрацией и перед
// открытием доступа к библиотеке.
type PaymentProof struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

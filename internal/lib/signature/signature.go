// Package signature реализует проверку платёжного подтверждения.
//
// Платёжная система подписывает пару (orderID, paymentID) ключом магазина.
// Compute строит ожидаемую подпись, Verify сравнивает её с присланной.
// Сравнение выполняется за постоянное время: устойчивость к timing-атакам
// здесь является требованием корректности.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Compute возвращает hex-кодированный HMAC-SHA256 от строки
// "orderID|paymentID", подписанный секретным ключом.
func Compute(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify проверяет, что подпись sig соответствует паре (orderID, paymentID).
// Функция без побочных эффектов, используется и при регистрации,
// и при открытии доступа к библиотеке.
func Verify(orderID, paymentID, sig, secret string) bool {
	expected := Compute(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(sig))
}

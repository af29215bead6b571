// Package paymentprovider реализует клиент внешней платёжной системы.
//
// Клиент умеет создавать заказы на оплату (регистрационный взнос и доступ
// к библиотеке). Подпись завершённого платежа проверяется отдельно,
// пакетом lib/signature, без обращения к платёжной системе.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client — клиент API платёжной системы.
type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжной системы.
func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     "https://api.razorpay.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// KeyID возвращает публичный ключ магазина, который нужен клиентской
// стороне для инициализации виджета оплаты.
func (c *Client) KeyID() string {
	return c.keyID
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateOrder отправляет запрос на создание заказа на оплату.
// Сумма передаётся в основных единицах валюты и конвертируется
// в минимальные (x100) на проводе.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderRequest) (*CreateOrderResponse, error) {
	wire := createOrderWire{
		Amount:         params.Amount * 100,
		Currency:       params.Currency,
		Receipt:        params.Receipt,
		PaymentCapture: 1,
	}
	req, err := c.newRequest(ctx, "POST", "/orders", wire)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var orderResp CreateOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, err
	}
	return &orderResp, nil
}

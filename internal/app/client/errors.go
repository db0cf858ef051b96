package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"aggyweb/internal/schema"
)

// ErrMissingToken - операция требует токен пользователя, а его нет. Запрос
// при этом не отправляется.
var ErrMissingToken = errors.New("user token required")

// ErrResponseTooLarge - тело ответа больше maxBodySize. Ответ не разбирается.
var ErrResponseTooLarge = errors.New("response too large")

// APIError - ответ вышестоящего сервиса не 2xx с JSON-телом. Code берется
// из поля error и может быть пустым, если тело его не содержит.
type APIError struct {
	Service  schema.Service
	Endpoint schema.EndpointID
	Status   int
	Code     schema.ErrorCode
	// Variant разобран по схеме, nil если тело не совпало с контрактом.
	Variant schema.Variant
	Body    json.RawMessage
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s %s: status %d", e.Service, e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Service, e.Endpoint, e.Status, e.Code)
}

func (e *APIError) ErrorCode() schema.ErrorCode {
	return e.Code
}

// OpaqueError - ответ не 2xx, тело которого не JSON (прокси, балансировщик,
// упавший сервис). Кода ошибки у него нет.
type OpaqueError struct {
	Service  schema.Service
	Endpoint schema.EndpointID
	Status   int
	Message  string
}

func (e *OpaqueError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Service, e.Endpoint, e.Status, e.Message)
}

// IsNotFound сообщает, что сервис ответил notFound.
func IsNotFound(err error) bool {
	return schema.CodeOf(err) == schema.CodeNotFound
}

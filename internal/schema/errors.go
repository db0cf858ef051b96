package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode - литерал поля error в теле ошибки вышестоящего сервиса.
type ErrorCode string

const (
	CodeNotFound            ErrorCode = "notFound"
	CodeAccessDenied        ErrorCode = "accessDenied"
	CodeUsernameOccupied    ErrorCode = "usernameOccupied"
	CodeEmailOccupied       ErrorCode = "emailOccupied"
	CodeCredentialsRejected ErrorCode = "credentialsRejected"
	CodeInvalidInput        ErrorCode = "invalidInput"
	CodeInternal            ErrorCode = "internal"
	CodeAuthSessionNotFound ErrorCode = "authSessionNotFound"
	CodeParentNotFound      ErrorCode = "parentNotFound"
)

// Variant - один вариант закрытого объединения ошибок операции.
type Variant interface {
	Code() ErrorCode
}

type NotFound struct {
	_  struct{} `json:"-" additionalProperties:"true"`
	ID string   `json:"id"`
}

type AccessDenied struct {
	_ struct{} `json:"-" additionalProperties:"true"`
}

type UsernameOccupied struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Username string   `json:"username"`
}

type EmailOccupied struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	Email string   `json:"email"`
}

type CredentialsRejected struct {
	_ struct{} `json:"-" additionalProperties:"true"`
}

// InvalidInput повторяет ошибки валидации на стороне сервиса, их форма
// сервисом не фиксирована.
type InvalidInput struct {
	_      struct{} `json:"-" additionalProperties:"true"`
	Issues any      `json:"issues"`
}

type Internal struct {
	_       struct{} `json:"-" additionalProperties:"true"`
	Message string   `json:"message"`
}

type AuthSessionNotFound struct {
	_  struct{} `json:"-" additionalProperties:"true"`
	ID string   `json:"id" format:"uuid"`
}

type ParentNotFound struct {
	_  struct{} `json:"-" additionalProperties:"true"`
	ID string   `json:"id"`
}

func (NotFound) Code() ErrorCode            { return CodeNotFound }
func (AccessDenied) Code() ErrorCode        { return CodeAccessDenied }
func (UsernameOccupied) Code() ErrorCode    { return CodeUsernameOccupied }
func (EmailOccupied) Code() ErrorCode       { return CodeEmailOccupied }
func (CredentialsRejected) Code() ErrorCode { return CodeCredentialsRejected }
func (InvalidInput) Code() ErrorCode        { return CodeInvalidInput }
func (Internal) Code() ErrorCode            { return CodeInternal }
func (AuthSessionNotFound) Code() ErrorCode { return CodeAuthSessionNotFound }
func (ParentNotFound) Code() ErrorCode      { return CodeParentNotFound }

// Issue - одна ошибка валидации. Field пустой, если ошибка относится ко
// всему значению.
type Issue struct {
	Field   string
	Message string
}

// ValidationError - исходящее значение не прошло проверку схемой, запрос
// не отправлялся.
type ValidationError struct {
	Endpoint EndpointID
	Issues   []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Field == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, is.Field+": "+is.Message)
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Endpoint, strings.Join(parts, "; "))
}

// Fields группирует сообщения по полям.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string)
	for _, is := range e.Issues {
		out[is.Field] = append(out[is.Field], is.Message)
	}
	return out
}

// ContractError - ответ сервиса не совпал с объявленной схемой. Это
// расхождение контракта, такую ошибку нельзя глотать.
type ContractError struct {
	Endpoint EndpointID
	Status   int
	Reason   string
	Issues   []Issue
}

func (e *ContractError) Error() string {
	msg := fmt.Sprintf("%s: unexpected response shape (status %d): %s", e.Endpoint, e.Status, e.Reason)
	for _, is := range e.Issues {
		msg += fmt.Sprintf("; %s: %s", is.Field, is.Message)
	}
	return msg
}

// CodeOf достает код ошибки вышестоящего сервиса из цепочки err. Ошибки без
// кода (сеть, непарсируемое тело) дают пустую строку.
func CodeOf(err error) ErrorCode {
	var coded interface{ ErrorCode() ErrorCode }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}

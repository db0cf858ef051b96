// Package form переводит ошибки вызовов aggy и epigram в результат формы:
// ошибки полей и общую ошибку формы.
package form

import (
	"errors"
	"strings"

	"aggyweb/internal/schema"
)

const (
	ServerErrorMessage = "Server error"
	validationPrefix   = "Validation error: "
)

// Result - то, что действие отдает форме. Пустой Result - успех.
type Result struct {
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	FormError   string              `json:"formError,omitempty"`
}

func (r Result) Empty() bool {
	return len(r.FieldErrors) == 0 && r.FormError == ""
}

// Outcome - как действие должно поступить с ошибкой.
type Outcome int

const (
	// Handled - ошибка пользователя, показываем Result с кодом 400.
	Handled Outcome = iota
	// ServerError - непрозрачный сбой: логируем и отвечаем общим сообщением.
	ServerError
	// Fatal - нарушение контракта, пробрасывается как есть.
	Fatal
)

// Messages сопоставляет коды ошибок сообщениям формы.
type Messages map[schema.ErrorCode]string

// DefaultMessages годится для большинства действий, конкретное действие
// может дополнить или переопределить его через With.
var DefaultMessages = Messages{
	schema.CodeNotFound:            "Post is no longer available.",
	schema.CodeAccessDenied:        "Access denied.",
	schema.CodeUsernameOccupied:    "Username is already in use",
	schema.CodeEmailOccupied:       "Email is already in use",
	schema.CodeCredentialsRejected: "Credentials rejected: username or password is wrong",
}

// With возвращает копию с дополнительными сообщениями.
func (m Messages) With(extra Messages) Messages {
	out := make(Messages, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// coded - ошибка вышестоящего сервиса со структурированным кодом.
type coded interface {
	error
	ErrorCode() schema.ErrorCode
}

// Resolve раскладывает err по таксономии: ошибки валидации и известные
// коды становятся Result, непрозрачные сбои - ServerError, нарушения
// контракта - Fatal.
func Resolve(err error, msgs Messages) (Result, Outcome) {
	if err == nil {
		return Result{}, Handled
	}

	var contract *schema.ContractError
	if errors.As(err, &contract) {
		return Result{}, Fatal
	}

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return fromValidation(verr), Handled
	}

	var ce coded
	if errors.As(err, &ce) {
		if msg, ok := msgs[ce.ErrorCode()]; ok {
			return Result{FormError: msg}, Handled
		}
	}

	return Result{FormError: ServerErrorMessage}, ServerError
}

func fromValidation(verr *schema.ValidationError) Result {
	res := Result{FieldErrors: make(map[string][]string)}
	var general []string
	for _, is := range verr.Issues {
		if is.Field == "" {
			general = append(general, is.Message)
			continue
		}
		res.FieldErrors[is.Field] = append(res.FieldErrors[is.Field], is.Message)
	}

	summary := make([]string, 0, len(verr.Issues))
	for _, is := range verr.Issues {
		if is.Field == "" {
			continue
		}
		summary = append(summary, is.Field+": "+is.Message)
	}
	summary = append(summary, general...)
	res.FormError = validationPrefix + strings.Join(summary, "; ")

	if len(res.FieldErrors) == 0 {
		res.FieldErrors = nil
	}
	return res
}

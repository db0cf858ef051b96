package user

import "aggyweb/internal/app/server/api/http/action"

// Поля форм необязательны на уровне huma: проверку делает реестр схем при
// вызове aggy, и ошибки попадают в результат формы.

type registerInput struct {
	RedirectTo string `query:"redirectTo"`
	Body       RegisterRequest
}

type RegisterRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type loginInput struct {
	RedirectTo string `query:"redirectTo"`
	Body       LoginRequest
}

type LoginRequest struct {
	Identifier string `json:"identifier,omitempty"`
	Password   string `json:"password,omitempty"`
}

type logoutInput struct{}

type formOutput = action.Output

package user

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID:   "user-register",
		Method:        http.MethodPost,
		Path:          "/register",
		Summary:       "Регистрация пользователя",
		Tags:          []string{"users"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID:   "user-login",
		Method:        http.MethodPost,
		Path:          "/login",
		Summary:       "Вход пользователя",
		Tags:          []string{"users"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) logoutOp() huma.Operation {
	return huma.Operation{
		OperationID:   "user-logout",
		Method:        http.MethodPost,
		Path:          "/logout",
		Summary:       "Выход пользователя",
		Tags:          []string{"users"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   h.middleware,
	}
}

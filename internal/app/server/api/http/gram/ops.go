package gram

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "gram-get",
		Method:      http.MethodGet,
		Path:        "/g/{gramId}",
		Summary:     "Грама с ответами",
		Tags:        []string{"grams"},
		Errors:      []int{http.StatusNotFound},
		Middlewares: h.middleware,
	}
}

func (h *Handler) replyOp() huma.Operation {
	return huma.Operation{
		OperationID:   "gram-reply",
		Method:        http.MethodPost,
		Path:          "/g/{gramId}/reply",
		Summary:       "Ответ на граму",
		Tags:          []string{"grams"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   h.middleware,
	}
}

package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const healthPath = "/api/v1/health"

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        healthPath,
		Summary:     "Состояние сервиса",
		Description: "Отвечает, жив ли процесс. В aggy и epigram не обращается.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}

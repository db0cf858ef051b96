package post

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "post-list",
		Method:      http.MethodGet,
		Path:        "/posts",
		Summary:     "Лента постов",
		Tags:        []string{"posts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "post-get",
		Method:      http.MethodGet,
		Path:        "/p/{postId}",
		Summary:     "Пост с тредом ответов",
		Tags:        []string{"posts"},
		Errors:      []int{http.StatusNotFound},
		Middlewares: h.middleware,
	}
}

func (h *Handler) submitOp() huma.Operation {
	return huma.Operation{
		OperationID:   "post-submit",
		Method:        http.MethodPost,
		Path:          submitPath,
		Summary:       "Публикация поста",
		Tags:          []string{"posts"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   h.middleware,
	}
}

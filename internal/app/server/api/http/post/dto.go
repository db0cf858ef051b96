package post

import (
	"aggyweb/internal/app/server/api/http/action"
	"aggyweb/internal/model"
)

type listInput struct {
	Limit        int    `query:"limit"`
	AfterCursor  string `query:"afterCursor"`
	BeforeCursor string `query:"beforeCursor"`
	Filter       string `query:"filter"`
	SortingField string `query:"sortingField"`
	SortingOrder string `query:"sortingOrder"`
}

// query переносит параметры страницы в запрос к aggy. Пустые значения не
// отправляются.
func (in *listInput) query(token string) model.ListPostsQuery {
	q := model.ListPostsQuery{
		AuthToken:    model.Optional(token),
		AfterCursor:  model.Optional(in.AfterCursor),
		BeforeCursor: model.Optional(in.BeforeCursor),
		Filter:       model.Optional(in.Filter),
	}
	if in.Limit != 0 {
		limit := in.Limit
		q.Limit = &limit
	}
	if in.SortingField != "" {
		f := model.SortingField(in.SortingField)
		q.SortingField = &f
	}
	if in.SortingOrder != "" {
		o := model.SortingOrder(in.SortingOrder)
		q.SortingOrder = &o
	}
	return q
}

type listOutput struct {
	Body model.ListPostsResponse
}

type getInput struct {
	PostID string `path:"postId"`
}

type getOutput struct {
	Body model.Post
}

type submitInput struct {
	Body SubmitRequest
}

type SubmitRequest struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Body  string `json:"body,omitempty"`
}

type formOutput = action.Output

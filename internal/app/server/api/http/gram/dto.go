package gram

import (
	"aggyweb/internal/app/server/api/http/action"
	"aggyweb/internal/model"
)

type getInput struct {
	GramID string `path:"gramId"`
}

type getOutput struct {
	Body model.Gram
}

type replyInput struct {
	GramID string `path:"gramId"`
	Body   ReplyRequest
}

type ReplyRequest struct {
	Body string `json:"body,omitempty"`
}

type formOutput = action.Output

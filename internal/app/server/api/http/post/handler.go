package post

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"aggyweb/internal/app/server/api/http/action"
	"aggyweb/internal/domain/form"
	"aggyweb/internal/model"
)

const submitPath = "/submit"

type Servicer interface {
	ListPosts(ctx context.Context, q model.ListPostsQuery) (*model.ListPostsResponse, error)
	GetPost(ctx context.Context, id string, includeReplies bool) (*model.Post, bool, error)
	CreatePost(ctx context.Context, in model.CreatePostBody, token string) (*model.Post, error)
}

type Handler struct {
	service    Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With(slog.String("component", "post_handler")),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.submitOp(), h.submit)
}

// list отдает ленту. Для вошедшего пользователя токен уходит в aggy, чтобы
// лента учитывала его реакции.
func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	store, err := action.StoreFrom(ctx)
	if err != nil {
		return nil, err
	}

	token, _, err := store.AuthToken(ctx)
	if err != nil {
		return nil, action.Problem(ctx, h.log, err)
	}

	res, err := h.service.ListPosts(ctx, input.query(token))
	if err != nil {
		return nil, action.Problem(ctx, h.log, err)
	}
	return &listOutput{Body: *res}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	if _, err := uuid.Parse(input.PostID); err != nil {
		return nil, huma.Error404NotFound("post not found")
	}

	p, ok, err := h.service.GetPost(ctx, input.PostID, true)
	if err != nil {
		return nil, action.Problem(ctx, h.log, err)
	}
	if !ok {
		return nil, huma.Error404NotFound("post not found")
	}
	return &getOutput{Body: *p}, nil
}

func (h *Handler) submit(ctx context.Context, input *submitInput) (*formOutput, error) {
	store, err := action.StoreFrom(ctx)
	if err != nil {
		return nil, err
	}

	token, ok, err := store.AuthToken(ctx)
	if err != nil {
		return action.Fail(ctx, h.log, err, form.DefaultMessages)
	}
	if !ok {
		return action.LoginRedirect(submitPath), nil
	}

	p, err := h.service.CreatePost(ctx, model.CreatePostBody{
		Title: input.Body.Title,
		URL:   model.Optional(input.Body.URL),
		Body:  model.Optional(input.Body.Body),
	}, token)
	if err != nil {
		return action.Fail(ctx, h.log, err, form.DefaultMessages)
	}

	return action.Redirect("/p/" + p.ID), nil
}

package gram

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"aggyweb/internal/app/server/api/http/action"
	"aggyweb/internal/domain/form"
	"aggyweb/internal/model"
	"aggyweb/internal/schema"
)

// Reader читает граму с ответами из epigram.
type Reader interface {
	GetGram(ctx context.Context, id string, includeReplies bool) (*model.Gram, bool, error)
}

// Replier публикует ответ через aggy.
type Replier interface {
	Reply(ctx context.Context, parentID string, in model.ReplyBody, token string) (*model.Gram, error)
}

// replyMessages: ответ уходит граме, а не посту.
var replyMessages = form.DefaultMessages.With(form.Messages{
	schema.CodeNotFound: "This gram is no longer available.",
})

type Handler struct {
	reader     Reader
	replier    Replier
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(reader Reader, replier Replier, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		reader:     reader,
		replier:    replier,
		log:        log.With(slog.String("component", "gram_handler")),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.replyOp(), h.reply)
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	g, ok, err := h.reader.GetGram(ctx, input.GramID, true)
	if err != nil {
		return nil, action.Problem(ctx, h.log, err)
	}
	if !ok {
		return nil, huma.Error404NotFound("gram not found")
	}
	return &getOutput{Body: *g}, nil
}

// reply без токена пользователя уводит на вход, не обращаясь к aggy.
func (h *Handler) reply(ctx context.Context, input *replyInput) (*formOutput, error) {
	back := "/g/" + input.GramID

	store, err := action.StoreFrom(ctx)
	if err != nil {
		return nil, err
	}

	token, ok, err := store.AuthToken(ctx)
	if err != nil {
		return action.Fail(ctx, h.log, err, form.DefaultMessages)
	}
	if !ok {
		return action.LoginRedirect(back), nil
	}

	if _, err := h.replier.Reply(ctx, input.GramID, model.ReplyBody{Body: input.Body.Body}, token); err != nil {
		return action.Fail(ctx, h.log, err, replyMessages)
	}
	return action.Redirect(back), nil
}

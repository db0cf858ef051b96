package user

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"aggyweb/internal/app/server/api/http/action"
	"aggyweb/internal/domain/form"
	"aggyweb/internal/model"
)

// Servicer - часть клиента aggy, нужная для входа и регистрации.
type Servicer interface {
	Register(ctx context.Context, in model.CreateUserBody) (*model.User, error)
	Authenticate(ctx context.Context, in model.AuthenticateBody) (*model.AuthResult, error)
}

type Handler struct {
	service    Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With(slog.String("component", "user_handler")),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*formOutput, error) {
	u, err := h.service.Register(ctx, model.CreateUserBody{
		Username: input.Body.Username,
		Email:    model.Optional(input.Body.Email),
		Password: input.Body.Password,
	})
	if err != nil {
		return action.Fail(ctx, h.log, err, form.DefaultMessages)
	}

	h.log.Info("user registered", slog.String("user_id", u.ID))
	return action.LoginRedirect(action.SafeRedirect(input.RedirectTo, "/")), nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*formOutput, error) {
	store, err := action.StoreFrom(ctx)
	if err != nil {
		return nil, err
	}

	auth, err := h.service.Authenticate(ctx, model.AuthenticateBody{
		Identifier: input.Body.Identifier,
		Password:   input.Body.Password,
	})
	if err != nil {
		return action.Fail(ctx, h.log, err, form.DefaultMessages)
	}

	if _, err := store.Attach(ctx, auth.SessionID); err != nil {
		return action.Fail(ctx, h.log, err, form.DefaultMessages)
	}

	return action.Redirect(action.SafeRedirect(input.RedirectTo, "/")), nil
}

func (h *Handler) logout(ctx context.Context, _ *logoutInput) (*formOutput, error) {
	store, err := action.StoreFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := store.Detach(ctx); err != nil {
		return action.Fail(ctx, h.log, err, form.DefaultMessages)
	}
	return action.Redirect("/"), nil
}

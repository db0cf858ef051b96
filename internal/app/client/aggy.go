package client

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/exp/slog"

	"aggyweb/internal/config"
	"aggyweb/internal/model"
	"aggyweb/internal/schema"
)

// AggyClient - типизированный клиент сервиса aggy (пользователи, сессии,
// посты).
type AggyClient struct {
	h *httpClient
}

func NewAggyClient(up config.Upstream, reg *schema.Registry, metrics *Metrics, log *slog.Logger) *AggyClient {
	return &AggyClient{h: newHTTPClient(schema.ServiceAggy, up, reg, metrics, log)}
}

// Register создает пользователя.
func (c *AggyClient) Register(ctx context.Context, in model.CreateUserBody) (*model.User, error) {
	var out model.User
	if err := c.h.do(ctx, call{endpoint: schema.Register, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate проверяет учетные данные и возвращает сессию аутентификации.
func (c *AggyClient) Authenticate(ctx context.Context, in model.AuthenticateBody) (*model.AuthResult, error) {
	var out model.AuthResult
	if err := c.h.do(ctx, call{endpoint: schema.Authenticate, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AggyClient) CreateSession(ctx context.Context, in model.CreateSessionBody) (*model.Session, error) {
	var out model.Session
	if err := c.h.do(ctx, call{endpoint: schema.CreateSession, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AggyClient) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var out model.Session
	if err := c.h.do(ctx, call{endpoint: schema.GetSession, pathID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSession привязывает веб-сессию к сессии аутентификации или, при
// пустом AuthSessionID, отвязывает ее.
func (c *AggyClient) UpdateSession(ctx context.Context, id string, in model.UpdateSessionBody) (*model.Session, error) {
	var out model.Session
	if err := c.h.do(ctx, call{endpoint: schema.UpdateSession, pathID: id, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AggyClient) ListPosts(ctx context.Context, q model.ListPostsQuery) (*model.ListPostsResponse, error) {
	var out model.ListPostsResponse
	if err := c.h.do(ctx, call{endpoint: schema.ListPosts, query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPost возвращает ok=false, если сервис ответил 404 notFound.
func (c *AggyClient) GetPost(ctx context.Context, id string, includeReplies bool) (*model.Post, bool, error) {
	var out model.Post
	err := c.h.do(ctx, call{
		endpoint: schema.GetPost,
		pathID:   id,
		query:    model.RepliesQuery{IncludeReplies: includeReplies},
	}, &out)
	if absent(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

// CreatePost публикует пост от имени владельца token.
func (c *AggyClient) CreatePost(ctx context.Context, in model.CreatePostBody, token string) (*model.Post, error) {
	var out model.Post
	if err := c.h.do(ctx, call{endpoint: schema.CreatePost, body: in, token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reply добавляет ответ к граме parentID от имени владельца token.
func (c *AggyClient) Reply(ctx context.Context, parentID string, in model.ReplyBody, token string) (*model.Gram, error) {
	var out model.Gram
	if err := c.h.do(ctx, call{endpoint: schema.Reply, pathID: parentID, body: in, token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AggyClient) GetUser(ctx context.Context, id string) (*model.User, error) {
	var out model.User
	if err := c.h.do(ctx, call{endpoint: schema.GetUser, pathID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AggyClient) UpdateUser(ctx context.Context, id string, in model.UpdateUserBody, token string) (*model.User, error) {
	var out model.User
	if err := c.h.do(ctx, call{endpoint: schema.UpdateUser, pathID: id, body: in, token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AggyClient) ListUsers(ctx context.Context, q model.ListUsersQuery) (*model.ListUsersResponse, error) {
	var out model.ListUsersResponse
	if err := c.h.do(ctx, call{endpoint: schema.ListUsers, query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// absent - ровно 404 с кодом notFound. Любой другой ответ не 2xx остается
// ошибкой.
func absent(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.Status == http.StatusNotFound &&
		apiErr.Code == schema.CodeNotFound
}

package client

import (
	"context"

	"golang.org/x/exp/slog"

	"aggyweb/internal/config"
	"aggyweb/internal/model"
	"aggyweb/internal/schema"
)

// EpigramClient - типизированный клиент сервиса epigram (деревья грам).
type EpigramClient struct {
	h *httpClient
}

func NewEpigramClient(up config.Upstream, reg *schema.Registry, metrics *Metrics, log *slog.Logger) *EpigramClient {
	return &EpigramClient{h: newHTTPClient(schema.ServiceEpigram, up, reg, metrics, log)}
}

// GetGram возвращает ok=false, если сервис ответил 404 notFound. С
// includeReplies ответ содержит дерево ответов целиком.
func (c *EpigramClient) GetGram(ctx context.Context, id string, includeReplies bool) (*model.Gram, bool, error) {
	var out model.Gram
	err := c.h.do(ctx, call{
		endpoint: schema.GetGram,
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

// CreateGram сохраняет уже подписанную граму.
func (c *EpigramClient) CreateGram(ctx context.Context, in model.CreateGramBody) (*model.Gram, error) {
	var out model.Gram
	if err := c.h.do(ctx, call{endpoint: schema.CreateGram, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

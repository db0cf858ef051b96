package client

import (
	"golang.org/x/exp/slog"

	"aggyweb/internal/config"
	"aggyweb/internal/schema"
)

// APIClient объединяет клиенты обоих сервисов над общим реестром схем.
type APIClient struct {
	Aggy    *AggyClient
	Epigram *EpigramClient
}

func NewAPIClient(cfg *config.Config, reg *schema.Registry, metrics *Metrics, log *slog.Logger) *APIClient {
	return &APIClient{
		Aggy:    NewAggyClient(cfg.Aggy, reg, metrics, log),
		Epigram: NewEpigramClient(cfg.Epigram, reg, metrics, log),
	}
}

// SetUserAgent меняет заголовок User-Agent обоих клиентов.
func (c *APIClient) SetUserAgent(ua string) {
	if ua == "" {
		return
	}
	c.Aggy.h.userAgent = ua
	c.Epigram.h.userAgent = ua
}

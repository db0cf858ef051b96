package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"aggyweb/internal/config"
	"aggyweb/internal/schema"
	"aggyweb/internal/utils/logger"
)

const defaultUserAgent = "aggyweb/1.0"

// maxBodySize ограничивает чтение ответа вышестоящего сервиса.
const maxBodySize = 4 << 20

// httpClient выполняет один вызов одного сервиса: проверка входа по реестру,
// запрос, разбор ответа или ошибки. Повторов и кэша нет.
type httpClient struct {
	client    *http.Client
	reg       *schema.Registry
	metrics   *Metrics
	log       *slog.Logger
	service   schema.Service
	baseURL   string
	secret    string
	userAgent string
}

func newHTTPClient(
	service schema.Service,
	up config.Upstream,
	reg *schema.Registry,
	metrics *Metrics,
	log *slog.Logger,
) *httpClient {
	client := &http.Client{
		Timeout: up.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		reg:       reg,
		metrics:   metrics,
		log:       log.With(slog.String("component", "client"), slog.String("service", string(service))),
		service:   service,
		baseURL:   strings.TrimRight(up.BaseURL, "/"),
		secret:    up.ServiceSecret,
		userAgent: defaultUserAgent,
	}
}

// call - параметры одного вызова. token нужен только операциям с AuthUser.
type call struct {
	endpoint schema.EndpointID
	pathID   string
	query    any
	body     any
	token    string
}

func (h *httpClient) do(ctx context.Context, c call, out any) error {
	ep, ok := h.reg.Endpoint(c.endpoint)
	if !ok {
		return fmt.Errorf("unknown endpoint %q", c.endpoint)
	}

	req, err := h.newRequest(ctx, ep, c)
	if err != nil {
		h.metrics.observe(string(h.service), string(ep.ID), outcomeInvalid, 0)
		return err
	}

	h.log.Debug("Отправка запроса",
		slog.String("endpoint", string(ep.ID)),
		slog.String("method", req.Method),
		slog.String("url", req.URL.Path),
	)

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.metrics.observe(string(h.service), string(ep.ID), outcomeTransport, time.Since(start))
		return fmt.Errorf("%s %s: %w", h.service, ep.ID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	elapsed := time.Since(start)
	if err != nil {
		h.metrics.observe(string(h.service), string(ep.ID), outcomeTransport, elapsed)
		return fmt.Errorf("%s %s: read response: %w", h.service, ep.ID, err)
	}
	if len(raw) > maxBodySize {
		h.log.Error("Ответ превысил допустимый размер",
			slog.String("endpoint", string(ep.ID)),
			slog.Int("status", resp.StatusCode),
			slog.Int("limit", maxBodySize),
		)
		h.metrics.observe(string(h.service), string(ep.ID), outcomeTooLarge, elapsed)
		return fmt.Errorf("%s %s: %w (status %d, limit %d bytes)", h.service, ep.ID, ErrResponseTooLarge, resp.StatusCode, maxBodySize)
	}

	h.log.Debug("Получен ответ",
		slog.String("endpoint", string(ep.ID)),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := h.errorFrom(ep, resp, raw)
		outcome := outcomeAPIError
		var opaque *OpaqueError
		if errors.As(apiErr, &opaque) {
			outcome = outcomeOpaque
		}
		h.metrics.observe(string(h.service), string(ep.ID), outcome, elapsed)
		return apiErr
	}

	if err := h.reg.DecodeResponse(ep.ID, resp.StatusCode, raw, out); err != nil {
		h.log.Error("Ответ не совпал со схемой", slog.String("endpoint", string(ep.ID)), logger.Err(err))
		h.metrics.observe(string(h.service), string(ep.ID), outcomeContract, elapsed)
		return err
	}

	h.metrics.observe(string(h.service), string(ep.ID), outcomeOK, elapsed)
	return nil
}

// newRequest проверяет путь, query и тело по реестру. Любая ошибка здесь
// означает, что запрос в сеть не уходил.
func (h *httpClient) newRequest(ctx context.Context, ep schema.Endpoint, c call) (*http.Request, error) {
	var bearer string
	switch ep.Auth {
	case schema.AuthService:
		bearer = h.secret
	case schema.AuthUser:
		if c.token == "" {
			return nil, fmt.Errorf("%s %s: %w", h.service, ep.ID, ErrMissingToken)
		}
		bearer = c.token
	}

	path, err := h.reg.Path(ep.ID, c.pathID)
	if err != nil {
		return nil, err
	}

	query, err := h.reg.EncodeQuery(ep.ID, c.query)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if c.body != nil {
		payload, err := h.reg.EncodeBody(ep.ID, c.body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(payload)
	}

	target := h.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s %s: create request: %w", h.service, ep.ID, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return req, nil
}

// errorFrom строит ошибку из ответа не 2xx: *APIError для JSON, иначе
// *OpaqueError с текстом тела.
func (h *httpClient) errorFrom(ep schema.Endpoint, resp *http.Response, raw []byte) error {
	if !isJSON(resp.Header.Get("Content-Type")) {
		return &OpaqueError{
			Service:  h.service,
			Endpoint: ep.ID,
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(raw)),
		}
	}

	code, variant, err := h.reg.DecodeError(ep.ID, resp.StatusCode, raw)
	if err != nil {
		h.log.Error("Тело ошибки не совпало со схемой",
			slog.String("endpoint", string(ep.ID)),
			slog.Int("status", resp.StatusCode),
			logger.Err(err),
		)
	}

	return &APIError{
		Service:  h.service,
		Endpoint: ep.ID,
		Status:   resp.StatusCode,
		Code:     code,
		Variant:  variant,
		Body:     append([]byte(nil), raw...),
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "application/") && strings.Contains(mt, "json")
}

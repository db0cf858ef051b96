// Package action - общие части обработчиков форм: редиректы и перевод
// ошибок клиента в ответ формы.
package action

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"aggyweb/internal/domain/form"
	"aggyweb/internal/domain/session"
	"aggyweb/internal/schema"
	"aggyweb/internal/utils/logger"
)

var errNoStore = errors.New("session store is missing from request context")

// Output - ответ действия: либо 303 на Location, либо результат формы.
type Output struct {
	Status   int
	Location string `header:"Location"`
	Body     *form.Result
}

func Redirect(to string) *Output {
	return &Output{Status: http.StatusSeeOther, Location: to}
}

// LoginRedirect отправляет на вход с возвратом на target. Слэши в target
// не экранируются.
func LoginRedirect(target string) *Output {
	return Redirect("/login?redirectTo=" + strings.ReplaceAll(url.QueryEscape(target), "%2F", "/"))
}

// SafeRedirect пропускает только пути этого же сайта.
func SafeRedirect(to, fallback string) string {
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.HasPrefix(to, "/\\") {
		return fallback
	}
	return to
}

func StoreFrom(ctx context.Context) (*session.Store, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return nil, huma.Error500InternalServerError("internal error", errNoStore)
	}
	return store, nil
}

// Fail переводит ошибку в ответ. Известные ошибки становятся результатом
// формы с 400, прочие логируются и отдаются как "Server error". Нарушение
// контракта и потерянная сессия - 500 без подробностей.
func Fail(ctx context.Context, log *slog.Logger, err error, msgs form.Messages) (*Output, error) {
	if errors.Is(err, session.ErrSessionGone) {
		log.Error("session is gone upstream", logger.Err(err))
		if store, ok := session.FromContext(ctx); ok {
			if ferr := store.Forget(ctx); ferr != nil {
				log.Error("forget session", logger.Err(ferr))
			}
		}
		return nil, huma.Error500InternalServerError("internal error")
	}

	res, outcome := form.Resolve(err, msgs)
	switch outcome {
	case form.Handled:
		return &Output{Status: http.StatusBadRequest, Body: &res}, nil
	case form.ServerError:
		log.Error("upstream call failed", logger.Err(err))
		return &Output{Status: http.StatusInternalServerError, Body: &res}, nil
	default:
		log.Error("contract violation", logger.Err(err))
		return nil, huma.Error500InternalServerError("internal error")
	}
}

// Problem - то же для страниц: ответ не форма, а huma problem.
func Problem(ctx context.Context, log *slog.Logger, err error) error {
	if errors.Is(err, session.ErrSessionGone) {
		_, perr := Fail(ctx, log, err, nil)
		return perr
	}

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return huma.Error400BadRequest(verr.Error())
	}

	log.Error("upstream call failed", logger.Err(err))
	return huma.Error500InternalServerError("internal error")
}

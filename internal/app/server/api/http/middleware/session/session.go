package session

import (
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"aggyweb/internal/domain/form"
	"aggyweb/internal/domain/session"
	"aggyweb/internal/utils/logger"
)

// Session создает Store на каждый запрос. Store держит ResponseWriter,
// поэтому подключается на уровне chi, до huma.
type Session struct {
	repo   session.Repository
	signer *session.Signer
	cookie string
	secure bool
	log    *slog.Logger
}

func New(repo session.Repository, signer *session.Signer, cookie string, secure bool, log *slog.Logger) *Session {
	return &Session{
		repo:   repo,
		signer: signer,
		cookie: cookie,
		secure: secure,
		log:    log.With(slog.String("component", "session_middleware")),
	}
}

// Handler - chi middleware.
func (s *Session) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		carrier := session.NewCookieCarrier(w, r, s.cookie, s.secure)
		store := session.NewStore(s.repo, carrier, s.signer, session.PeerFromRequest(r), s.log)
		next.ServeHTTP(w, r.WithContext(session.WithStore(r.Context(), store)))
	})
}

// Ensure - huma middleware для страниц: у посетителя без cookie сессия
// появляется на первом же GET. Действия форм сессию не создают.
func (s *Session) Ensure() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if m := ctx.Method(); m != http.MethodGet && m != http.MethodHead {
			next(ctx)
			return
		}

		store, ok := session.FromContext(ctx.Context())
		if !ok {
			s.log.Error("session store is missing from request context")
			writeServerError(ctx, s.log)
			return
		}

		if err := store.Ensure(ctx.Context()); err != nil {
			s.log.Error("ensure session", logger.Err(err))
			writeServerError(ctx, s.log)
			return
		}

		next(ctx)
	}
}

func writeServerError(ctx huma.Context, log *slog.Logger) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(http.StatusInternalServerError)

	err := json.NewEncoder(ctx.BodyWriter()).Encode(form.Result{FormError: form.ServerErrorMessage})
	if err != nil {
		log.Error("json encode", logger.Err(err))
	}
}

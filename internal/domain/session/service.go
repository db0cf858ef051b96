// Package session определяет, от чьего имени идет запрос, не более одного
// раза за запрос. Между запросами хранится только подписанный токен с
// идентификатором сессии, сама сессия живет в сервисе aggy.
package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"aggyweb/internal/model"
	"aggyweb/internal/schema"
	"aggyweb/internal/utils/logger"
)

// ErrSessionGone - проверенный токен ссылается на сессию, которую aggy уже
// не знает. Пересоздавать сессию молча нельзя: вызывающий код должен
// забыть токен и заново аутентифицировать пользователя.
var ErrSessionGone = errors.New("session is unknown to upstream")

// Peer - кто открыл сессию, уходит в createSession.
type Peer struct {
	UserAgent string
	IPAddr    string
}

// Store - сессия одного запроса. Не потокобезопасен и не переиспользуется
// между запросами.
type Store struct {
	repo    Repository
	carrier Carrier
	signer  *Signer
	peer    Peer
	log     *slog.Logger
	state   cache
	// issuedID - сессия, токен которой уже выдан в этом запросе.
	issuedID string
}

func NewStore(repo Repository, carrier Carrier, signer *Signer, peer Peer, log *slog.Logger) *Store {
	return &Store{
		repo:    repo,
		carrier: carrier,
		signer:  signer,
		peer:    peer,
		log:     log.With(slog.String("component", "session")),
	}
}

func (s *Store) Phase() Phase {
	return s.state.phase
}

// ID возвращает идентификатор сессии. Без действительного токена создает
// новую сессию в aggy и выпускает токен заново.
func (s *Store) ID(ctx context.Context) (string, error) {
	if s.state.phase != Unresolved {
		return s.state.id, nil
	}

	if id, ok := s.verified(ctx); ok {
		s.state = s.state.withID(id)
		return id, nil
	}

	sess, err := s.create(ctx)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// Ensure гарантирует, что у запроса есть сессия.
func (s *Store) Ensure(ctx context.Context) error {
	_, err := s.ID(ctx)
	return err
}

// Load возвращает запись сессии целиком. Повторный вызов в том же запросе
// в aggy не ходит.
func (s *Store) Load(ctx context.Context) (*model.Session, error) {
	id, err := s.ID(ctx)
	if err != nil {
		return nil, err
	}

	if sess, ok := s.state.full(); ok {
		return sess, nil
	}

	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if schema.CodeOf(err) == schema.CodeNotFound {
			return nil, fmt.Errorf("%w: %s", ErrSessionGone, id)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	s.state = s.state.withSession(*sess)
	full, _ := s.state.full()
	return full, nil
}

// AuthToken - токен пользователя, если сессия аутентифицирована. Без
// действительного токена сессии ответ известен сразу: новая сессия
// аутентифицированной не бывает, поэтому в aggy не ходим.
func (s *Store) AuthToken(ctx context.Context) (string, bool, error) {
	if s.state.phase == Unresolved {
		id, ok := s.verified(ctx)
		if !ok {
			return "", false, nil
		}
		s.state = s.state.withID(id)
	}

	sess, err := s.Load(ctx)
	if err != nil {
		return "", false, err
	}
	tok, ok := sess.AuthToken()
	return tok, ok, nil
}

// Attach привязывает сессию к только что выданной сессии аутентификации.
func (s *Store) Attach(ctx context.Context, authSessionID string) (*model.Session, error) {
	id, err := s.ID(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.repo.UpdateSession(ctx, id, model.UpdateSessionBody{AuthSessionID: &authSessionID})
	if err != nil {
		if schema.CodeOf(err) == schema.CodeNotFound {
			return nil, fmt.Errorf("%w: %s", ErrSessionGone, id)
		}
		return nil, fmt.Errorf("attach session: %w", err)
	}

	if sess.ID != s.issuedID {
		if err := s.issue(ctx, *sess); err != nil {
			return nil, err
		}
	}
	s.state = s.state.withSession(*sess)

	full, _ := s.state.full()
	return full, nil
}

// Detach отвязывает пользователя. Без токена делать нечего, сессию ради
// выхода не создаем.
func (s *Store) Detach(ctx context.Context) error {
	if s.state.phase == Unresolved {
		id, ok := s.verified(ctx)
		if !ok {
			return nil
		}
		s.state = s.state.withID(id)
	}

	sess, err := s.repo.UpdateSession(ctx, s.state.id, model.UpdateSessionBody{})
	if err != nil {
		if schema.CodeOf(err) == schema.CodeNotFound {
			return s.Forget(ctx)
		}
		return fmt.Errorf("detach session: %w", err)
	}

	s.state = s.state.withSession(*sess)
	return nil
}

// Forget стирает токен и сбрасывает состояние.
func (s *Store) Forget(ctx context.Context) error {
	s.state = s.state.reset()
	s.issuedID = ""
	if err := s.carrier.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

func (s *Store) verified(ctx context.Context) (string, bool) {
	tok, err := s.carrier.Token(ctx)
	if err != nil {
		s.log.Warn("Не удалось прочитать токен сессии", logger.Err(err))
		return "", false
	}
	if tok == "" {
		return "", false
	}

	id, err := s.signer.Verify(tok)
	if err != nil {
		s.log.Debug("Токен сессии отклонен", logger.Err(err))
		return "", false
	}
	return id, true
}

func (s *Store) create(ctx context.Context) (*model.Session, error) {
	sess, err := s.repo.CreateSession(ctx, model.CreateSessionBody{
		IPAddr:    s.peer.IPAddr,
		UserAgent: s.peer.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.issue(ctx, *sess); err != nil {
		return nil, err
	}
	s.state = s.state.withSession(*sess)

	s.log.Debug("Создана сессия", slog.String("session_id", sess.ID))
	return sess, nil
}

func (s *Store) issue(ctx context.Context, sess model.Session) error {
	tok, err := s.signer.Sign(sess.ID, sess.ExpiresAt)
	if err != nil {
		return err
	}
	if err := s.carrier.SetToken(ctx, tok, sess.ExpiresAt); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	s.issuedID = sess.ID
	return nil
}

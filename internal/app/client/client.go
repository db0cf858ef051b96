package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"aggyweb/internal/config"
	"aggyweb/internal/domain/session"
	"aggyweb/internal/model"
	"aggyweb/internal/schema"
	"aggyweb/internal/utils/logger"
)

// ErrNotLoggedIn - команда требует входа, а сессия не аутентифицирована.
var ErrNotLoggedIn = errors.New("требуется аутентификация. Выполните: aggyctl auth login")

// cliPeer - адрес, с которым терминальный клиент открывает сессию.
const cliPeer = "127.0.0.1"

// App - терминальный клиент aggy. Один запуск команды - один "запрос":
// сессия определяется не более одного раза, токен лежит в sqlite.
type App struct {
	config  *config.Config
	log     *slog.Logger
	api     *APIClient
	storage *SQLiteStorage
	store   *session.Store
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	signer, err := session.NewSigner(cfg.Session.Secret, cfg.Session.Issuer)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации подписи: %w", err)
	}

	storage, err := NewSQLiteStorage(cfg.Client.DBPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	api := NewAPIClient(cfg, schema.New(), nil, log)
	api.SetUserAgent(cfg.Client.UserAgent)

	return newApp(cfg, log, api, storage, signer), nil
}

func newApp(cfg *config.Config, log *slog.Logger, api *APIClient, storage *SQLiteStorage, signer *session.Signer) *App {
	peer := session.Peer{UserAgent: cfg.Client.UserAgent, IPAddr: cliPeer}
	return &App{
		config:  cfg,
		log:     log,
		api:     api,
		storage: storage,
		store:   session.NewStore(api.Aggy, storage, signer, peer, log),
	}
}

// Register регистрирует нового пользователя
func (a *App) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	user, err := a.api.Aggy.Register(ctx, model.CreateUserBody{
		Username: username,
		Email:    model.Optional(email),
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("Пользователь успешно зарегистрирован", slog.String("username", user.Username))
	return user, nil
}

// Login проверяет учетные данные и привязывает к ним сессию клиента.
func (a *App) Login(ctx context.Context, identifier, password string) (*model.Session, error) {
	auth, err := a.api.Aggy.Authenticate(ctx, model.AuthenticateBody{Identifier: identifier, Password: password})
	if err != nil {
		return nil, err
	}

	sess, err := a.store.Attach(ctx, auth.SessionID)
	if err != nil {
		return nil, a.sessionFailure(ctx, err)
	}

	a.log.Info("Вход выполнен успешно", slog.String("identifier", identifier))
	return sess, nil
}

// Logout отвязывает пользователя и удаляет локальный токен.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Detach(ctx); err != nil {
		return err
	}
	return a.store.Forget(ctx)
}

// Whoami возвращает текущую сессию и пользователя. Без входа -
// ErrNotLoggedIn, новая сессия при этом не создается.
func (a *App) Whoami(ctx context.Context) (*model.Session, *model.User, error) {
	if _, err := a.requireToken(ctx); err != nil {
		return nil, nil, err
	}

	sess, err := a.store.Load(ctx)
	if err != nil {
		return nil, nil, a.sessionFailure(ctx, err)
	}
	if sess.UserID == nil {
		return sess, nil, ErrNotLoggedIn
	}

	user, err := a.api.Aggy.GetUser(ctx, *sess.UserID)
	if err != nil {
		return sess, nil, err
	}
	return sess, user, nil
}

// Posts возвращает ленту. Токен, если есть, передается, чтобы сервис
// отметил реакции зрителя.
func (a *App) Posts(ctx context.Context, q model.ListPostsQuery) (*model.ListPostsResponse, error) {
	tok, ok, err := a.store.AuthToken(ctx)
	if err != nil {
		return nil, a.sessionFailure(ctx, err)
	}
	if ok {
		q.AuthToken = &tok
	}
	return a.api.Aggy.ListPosts(ctx, q)
}

func (a *App) Post(ctx context.Context, id string) (*model.Post, bool, error) {
	return a.api.Aggy.GetPost(ctx, id, true)
}

func (a *App) Gram(ctx context.Context, id string) (*model.Gram, bool, error) {
	return a.api.Epigram.GetGram(ctx, id, true)
}

// Submit публикует пост от имени текущего пользователя.
func (a *App) Submit(ctx context.Context, title, url, body string) (*model.Post, error) {
	tok, err := a.requireToken(ctx)
	if err != nil {
		return nil, err
	}
	return a.api.Aggy.CreatePost(ctx, model.CreatePostBody{
		Title: title,
		URL:   model.Optional(url),
		Body:  model.Optional(body),
	}, tok)
}

// Reply отвечает на граму parentID.
func (a *App) Reply(ctx context.Context, parentID, body string) (*model.Gram, error) {
	tok, err := a.requireToken(ctx)
	if err != nil {
		return nil, err
	}
	return a.api.Aggy.Reply(ctx, parentID, model.ReplyBody{Body: body}, tok)
}

// Users - список пользователей aggy. Вход не нужен.
func (a *App) Users(ctx context.Context, q model.ListUsersQuery) (*model.ListUsersResponse, error) {
	return a.api.Aggy.ListUsers(ctx, q)
}

// UpdateProfile меняет профиль вошедшего пользователя.
func (a *App) UpdateProfile(ctx context.Context, in model.UpdateUserBody) (*model.User, error) {
	tok, err := a.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	// сессия уже загружена AuthToken, повторного запроса нет
	sess, err := a.store.Load(ctx)
	if err != nil {
		return nil, a.sessionFailure(ctx, err)
	}
	if sess.UserID == nil {
		return nil, ErrNotLoggedIn
	}

	user, err := a.api.Aggy.UpdateUser(ctx, *sess.UserID, in, tok)
	if err != nil {
		return nil, err
	}

	a.log.Info("Профиль обновлен", slog.String("username", user.Username))
	return user, nil
}

// PublishGram сохраняет в epigram граму, подписанную вне aggyctl.
func (a *App) PublishGram(ctx context.Context, in model.CreateGramBody) (*model.Gram, error) {
	return a.api.Epigram.CreateGram(ctx, in)
}

func (a *App) Close() error {
	return a.storage.Close()
}

func (a *App) requireToken(ctx context.Context) (string, error) {
	tok, ok, err := a.store.AuthToken(ctx)
	if err != nil {
		return "", a.sessionFailure(ctx, err)
	}
	if !ok {
		return "", ErrNotLoggedIn
	}
	return tok, nil
}

// sessionFailure забывает токен, если aggy больше не знает сессию: при
// следующем запуске клиент откроет новую и попросит войти заново.
func (a *App) sessionFailure(ctx context.Context, err error) error {
	if !errors.Is(err, session.ErrSessionGone) {
		return err
	}
	if ferr := a.store.Forget(ctx); ferr != nil {
		a.log.Warn("Не удалось удалить токен", logger.Err(ferr))
	}
	return fmt.Errorf("%w: выполните вход заново", err)
}

package session

import (
	"context"
	"time"

	"aggyweb/internal/model"
)

// Repository - сервис сессий aggy. Реализуется client.AggyClient.
type Repository interface {
	CreateSession(ctx context.Context, in model.CreateSessionBody) (*model.Session, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	UpdateSession(ctx context.Context, id string, in model.UpdateSessionBody) (*model.Session, error)
}

// Carrier хранит подписанный токен между запросами: cookie в браузере,
// sqlite у терминального клиента. Пустая строка без ошибки - токена нет.
type Carrier interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string, expiresAt time.Time) error
	ClearToken(ctx context.Context) error
}

package client

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"aggyweb/internal/infrastructure/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const sessionCredential = "session"

// SQLiteStorage - локальное хранилище токена сессии aggyctl, аналог cookie
// браузера.
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	mg := migration.NewMigration(migrationsFS, "migrations", migration.SQLiteURL(path), migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("ошибка миграции базы данных: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	return &SQLiteStorage{db: db, now: time.Now}, nil
}

// Token возвращает сохраненный токен, просроченный считается отсутствующим.
func (s *SQLiteStorage) Token(ctx context.Context) (string, error) {
	var (
		token     string
		expiresAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, expires_at FROM credentials WHERE name = ?`,
		sessionCredential,
	).Scan(&token, &expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения токена: %w", err)
	}

	if !expiresAt.After(s.now()) {
		return "", nil
	}
	return token, nil
}

func (s *SQLiteStorage) SetToken(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (name, token, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE
		SET token = excluded.token, expires_at = excluded.expires_at, updated_at = excluded.updated_at
	`, sessionCredential, token, expiresAt.UTC(), s.now().UTC())
	if err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ClearToken(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, sessionCredential); err != nil {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

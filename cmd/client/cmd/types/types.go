package types

import (
	"errors"

	"github.com/spf13/cobra"

	"aggyweb/internal/app/client"
)

type ctxKey string

// ClientAppKey - ключ, под которым root кладет *client.App в контекст команды.
const ClientAppKey ctxKey = "app"

var ErrNoApp = errors.New("приложение не инициализировано")

func AppFrom(cmd *cobra.Command) (*client.App, error) {
	if cmd.Context() == nil {
		return nil, ErrNoApp
	}
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
	"aggyweb/internal/app/client"
)

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Показать текущего пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		sess, user, err := app.Whoami(cmd.Context())
		if errors.Is(err, client.ErrNotLoggedIn) {
			color.Yellow("Вход не выполнен")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Пользователь: %s\n", color.CyanString(user.Username))
		if user.Email != nil {
			fmt.Printf("Email:        %s\n", *user.Email)
		}
		fmt.Printf("Сессия:       %s\n", sess.ID)
		fmt.Printf("Действует до: %s\n", sess.ExpiresAt.Local().Format(time.DateTime))
		return nil
	},
}

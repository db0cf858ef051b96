package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
)

var LoginCmd = &cobra.Command{
	Use:   "login [username|email]",
	Short: "Войти в aggy",
	Long: `Аутентификация в aggy.

После входа сессия привязывается к пользователю и сохраняется локально для
последующих команд.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		var identifier string
		if len(args) > 0 {
			identifier = args[0]
		} else {
			identifier = prompt("Имя пользователя или email: ")
		}

		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		sess, err := app.Login(ctx, identifier, password)
		if err != nil {
			return err
		}

		color.Green("✅ Вход выполнен")
		fmt.Printf("Сессия: %s, действует до %s\n", sess.ID, sess.ExpiresAt.Local().Format(time.DateTime))
		return nil
	},
}

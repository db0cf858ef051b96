package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
)

var email string

var RegisterCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Зарегистрироваться в aggy",
	Long: `Создание пользователя aggy.

Имя пользователя: от 5 до 32 латинских букв и цифр, допускаются одиночные
"_" и "-" между ними. Пароль: не короче 8 символов.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Регистрация ===")
		fmt.Println()

		var username string
		if len(args) > 0 {
			username = args[0]
		} else {
			username = prompt("Имя пользователя: ")
		}

		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Повторите пароль: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("пароли не совпадают")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		user, err := app.Register(ctx, username, email, password)
		if err != nil {
			return err
		}

		color.Green("✅ Пользователь %s зарегистрирован", user.Username)
		fmt.Println("Войдите: aggyctl auth login", user.Username)
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVarP(&email, "email", "e", "", "email (необязательно)")
}

package user

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"aggyweb/cmd/client/cmd/types"
	"aggyweb/internal/model"
)

var (
	newUsername    string
	newEmail       string
	newPicURL      string
	changePassword bool
)

var UpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Изменить свой профиль",
	Long: `Меняет имя, email, аватар или пароль вошедшего пользователя.

Передаются только указанные флаги.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		in := model.UpdateUserBody{
			Username: model.Optional(newUsername),
			Email:    model.Optional(newEmail),
			PicURL:   model.Optional(newPicURL),
		}
		if changePassword {
			fmt.Print("Новый пароль: ")
			password, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("ошибка чтения пароля: %w", err)
			}
			in.Password = model.Optional(string(password))
		}
		if in == (model.UpdateUserBody{}) {
			return errors.New("нечего менять: укажите хотя бы один флаг")
		}

		user, err := app.UpdateProfile(cmd.Context(), in)
		if err != nil {
			return err
		}

		color.Green("✅ Профиль обновлен: %s", user.Username)
		return nil
	},
}

func init() {
	UpdateCmd.Flags().StringVar(&newUsername, "username", "", "новое имя пользователя")
	UpdateCmd.Flags().StringVar(&newEmail, "email", "", "новый email")
	UpdateCmd.Flags().StringVar(&newPicURL, "pic-url", "", "адрес аватара")
	UpdateCmd.Flags().BoolVar(&changePassword, "password", false, "запросить новый пароль")
}

package user

import "github.com/spf13/cobra"

// UserCmd - родительская команда для работы с пользователями
var UserCmd = &cobra.Command{
	Use:   "user",
	Short: "Пользователи aggy",
	Long:  `Список пользователей и изменение своего профиля.`,
}

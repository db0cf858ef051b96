package post

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
	"aggyweb/internal/app/client"
)

var (
	submitURL  string
	submitBody string
)

var SubmitCmd = &cobra.Command{
	Use:   "submit <title>",
	Short: "Опубликовать пост",
	Long: `Публикация поста от имени вошедшего пользователя.

Заголовок до 80 символов. Нужен хотя бы один из --url или --body.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		p, err := app.Submit(cmd.Context(), args[0], submitURL, submitBody)
		if errors.Is(err, client.ErrNotLoggedIn) {
			return fmt.Errorf("%w (затем повторите: aggyctl post submit)", err)
		}
		if err != nil {
			return err
		}

		color.Green("✅ Пост опубликован: %s", p.ID)
		return nil
	},
}

func init() {
	SubmitCmd.Flags().StringVarP(&submitURL, "url", "u", "", "ссылка")
	SubmitCmd.Flags().StringVarP(&submitBody, "body", "b", "", "текст поста")
}

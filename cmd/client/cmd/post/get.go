package post

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/gram"
	"aggyweb/cmd/client/cmd/types"
)

var GetCmd = &cobra.Command{
	Use:   "get <post-id>",
	Short: "Пост с тредом ответов",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		p, ok, err := app.Post(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			color.Yellow("Пост не найден")
			return nil
		}

		printHeader(*p)
		if p.Body != nil {
			fmt.Println()
			fmt.Println(*p.Body)
		}
		if p.Epigram != nil {
			fmt.Println()
			gram.PrintTree(*p.Epigram)
		}
		return nil
	},
}

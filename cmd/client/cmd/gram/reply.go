package gram

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
)

var ReplyCmd = &cobra.Command{
	Use:   "reply <gram-id> <text...>",
	Short: "Ответить на граму",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		g, err := app.Reply(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		color.Green("✅ Ответ опубликован: %s", g.ID)
		return nil
	},
}

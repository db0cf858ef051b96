package gram

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
)

var GetCmd = &cobra.Command{
	Use:   "get <gram-id>",
	Short: "Грама с ответами",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		g, ok, err := app.Gram(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			color.Yellow("Грама не найдена")
			return nil
		}

		if !g.IsRoot() {
			color.New(color.Faint).Printf("ответ на %s\n", *g.ParentID)
		}
		PrintTree(*g)
		return nil
	},
}

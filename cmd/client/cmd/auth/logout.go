package auth

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из aggy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		if err := app.Logout(cmd.Context()); err != nil {
			return err
		}

		color.Green("✓ Выход выполнен")
		return nil
	},
}

package gram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
	"aggyweb/internal/model"
)

var PublishCmd = &cobra.Command{
	Use:   "publish <file|->",
	Short: "Опубликовать подписанную граму",
	Long: `Отправляет в epigram граму, уже подписанную ключом автора.

Файл - JSON с полями id, createdAt, content, coty, parentId,
authorPubkey, authorAlias, sig. "-" читает JSON из stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		var src io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("ошибка открытия файла: %w", err)
			}
			defer f.Close()
			src = f
		}

		var in model.CreateGramBody
		if err := json.NewDecoder(src).Decode(&in); err != nil {
			return fmt.Errorf("ошибка разбора грамы: %w", err)
		}

		g, err := app.PublishGram(cmd.Context(), in)
		if err != nil {
			return err
		}

		color.Green("✅ Грама опубликована: %s", g.ID)
		return nil
	},
}

package post

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/internal/model"
)

// PostCmd - родительская команда для ленты и постов
var PostCmd = &cobra.Command{
	Use:   "post",
	Short: "Лента и посты",
	Long:  `Просмотр ленты, поста с тредом ответов и публикация нового поста.`,
}

func printHeader(p model.Post) {
	fmt.Printf("%s\n", color.New(color.Bold).Sprint(p.Title))
	if p.URL != nil {
		fmt.Printf("  %s\n", color.BlueString(*p.URL))
	}
	fmt.Printf("  %s · %s · %s\n",
		color.CyanString(p.AuthorUsername),
		p.CreatedAt.Local().Format(time.DateTime),
		p.ID,
	)
}

package post

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"aggyweb/cmd/client/cmd/types"
	"aggyweb/internal/model"
)

var (
	limit      int
	after      string
	before     string
	filter     string
	order      string
	listFormat string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Лента постов",
	Long: `Просмотр ленты постов.

Пагинация курсорная: курсор следующей страницы печатается после списка.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		q := model.ListPostsQuery{
			AfterCursor:  model.Optional(after),
			BeforeCursor: model.Optional(before),
			Filter:       model.Optional(filter),
		}
		if limit > 0 {
			q.Limit = &limit
		}
		if order != "" {
			o := model.SortingOrder(order)
			q.SortingOrder = &o
		}

		res, err := app.Posts(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("ошибка получения ленты: %w", err)
		}

		switch listFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		case "table":
			return printTable(res)
		default:
			printSimple(res)
			return nil
		}
	},
}

func printSimple(res *model.ListPostsResponse) {
	if len(res.Items) == 0 {
		fmt.Println("Постов нет")
		return
	}

	for i, p := range res.Items {
		fmt.Printf("%d. ", i+1)
		printHeader(p)
		fmt.Println()
	}
	if res.Cursor != nil {
		fmt.Printf("Следующая страница: --after %s\n", *res.Cursor)
	}
}

func printTable(res *model.ListPostsResponse) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tЗаголовок\tАвтор\tСоздан\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t\n")
	for _, p := range res.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", p.ID, p.Title, p.AuthorUsername, p.CreatedAt.Local().Format(time.DateOnly))
	}
	return w.Flush()
}

func init() {
	ListCmd.Flags().IntVarP(&limit, "limit", "l", 0, "размер страницы (1-100)")
	ListCmd.Flags().StringVar(&after, "after", "", "курсор: страница после")
	ListCmd.Flags().StringVar(&before, "before", "", "курсор: страница до")
	ListCmd.Flags().StringVar(&filter, "filter", "", "фильтр")
	ListCmd.Flags().StringVar(&order, "order", "", "порядок: ascending или descending")
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "simple", "формат вывода: simple, table, json")
}

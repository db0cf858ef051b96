package user

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
	sortBy     string
	order      string
	listFormat string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список пользователей",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd)
		if err != nil {
			return err
		}

		q := model.ListUsersQuery{
			AfterCursor:  model.Optional(after),
			BeforeCursor: model.Optional(before),
			Filter:       model.Optional(filter),
		}
		if limit > 0 {
			q.Limit = &limit
		}
		if sortBy != "" {
			f := model.SortingField(sortBy)
			q.SortingField = &f
		}
		if order != "" {
			o := model.SortingOrder(order)
			q.SortingOrder = &o
		}

		res, err := app.Users(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("ошибка получения пользователей: %w", err)
		}

		if listFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		return printTable(res)
	},
}

func printTable(res *model.ListUsersResponse) error {
	if len(res.Items) == 0 {
		fmt.Println("Пользователей нет")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tИмя\tEmail\tСоздан\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t\n")
	for _, u := range res.Items {
		email := "-"
		if u.Email != nil {
			email = *u.Email
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", u.ID, u.Username, email, u.CreatedAt.Local().Format(time.DateOnly))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if res.Cursor != nil {
		fmt.Printf("Следующая страница: --after %s\n", *res.Cursor)
	}
	return nil
}

func init() {
	ListCmd.Flags().IntVarP(&limit, "limit", "l", 0, "размер страницы (1-100)")
	ListCmd.Flags().StringVar(&after, "after", "", "курсор: страница после")
	ListCmd.Flags().StringVar(&before, "before", "", "курсор: страница до")
	ListCmd.Flags().StringVar(&filter, "filter", "", "фильтр")
	ListCmd.Flags().StringVar(&sortBy, "sort", "", "поле: username, email, createdAt, updatedAt")
	ListCmd.Flags().StringVar(&order, "order", "", "порядок: ascending или descending")
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "формат вывода: table, json")
}

package gram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aggyweb/internal/model"
)

// GramCmd - родительская команда для тредов ответов
var GramCmd = &cobra.Command{
	Use:   "gram",
	Short: "Треды ответов",
	Long:  `Просмотр грамы с ответами и ответ на нее.`,
}

// PrintTree печатает тред с отступом по глубине.
func PrintTree(root model.Gram) {
	root.Walk(func(g model.Gram, depth int) bool {
		indent := strings.Repeat("  ", depth)

		author := g.AuthorPubkey
		if g.AuthorAlias != nil {
			author = *g.AuthorAlias
		}
		fmt.Printf("%s%s %s [%s]\n",
			indent,
			color.CyanString(author),
			g.CreatedAt.Local().Format(time.DateTime),
			g.ID,
		)
		for _, line := range strings.Split(g.Content, "\n") {
			fmt.Printf("%s  %s\n", indent, line)
		}
		if faces := formatFaces(g); faces != "" {
			fmt.Printf("%s  %s\n", indent, faces)
		}
		return true
	})
}

func formatFaces(g model.Gram) string {
	glyphs := make([]string, 0, len(g.TopFaces))
	for glyph := range g.TopFaces {
		glyphs = append(glyphs, glyph)
	}
	sort.Strings(glyphs)

	parts := make([]string, 0, len(glyphs))
	for _, glyph := range glyphs {
		part := fmt.Sprintf("%s %d", glyph, g.TopFaces[glyph].Count)
		if g.FaceAction(glyph) == model.ActionUnface {
			part = color.GreenString(part)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}

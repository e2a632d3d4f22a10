package app

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"pcenrich/domain/enrichment"
)

// RenderMarkdownReport formats a completed run as a Markdown document with
// one table row per gene set.
func RenderMarkdownReport(run *enrichment.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Enrichment run %s\n\n", run.ID)
	fmt.Fprintf(&b, "Created: %s\n\n", run.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Gene statistic: `%s`, transform: `%s`, set statistic: `%s`, test: `%s`\n\n",
		run.Options.GeneStatistic, run.Options.Transform, run.Options.SetStatistic, run.Options.TestMethod)

	result := run.Result
	b.WriteString("| Gene set |")
	for _, c := range result.Components {
		fmt.Fprintf(&b, " PC%d statistic | PC%d p-value |", c+1, c+1)
	}
	b.WriteString("\n|---|")
	for range result.Components {
		b.WriteString("---|---|")
	}
	b.WriteString("\n")
	for i, name := range result.GroupNames {
		fmt.Fprintf(&b, "| %s |", name)
		for c := range result.Components {
			fmt.Fprintf(&b, " %.4f | %.3g |", result.Statistics[i][c], result.PValues[i][c])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHTMLReport renders the Markdown report to standalone HTML.
func RenderHTMLReport(run *enrichment.Run) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: fmt.Sprintf("Enrichment run %s", run.ID),
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(RenderMarkdownReport(run)), p, renderer)
}

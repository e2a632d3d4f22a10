package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

func fixtureRun() *enrichment.Run {
	return &enrichment.Run{
		ID:        core.RunID("test-run"),
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Options:   enrichment.DefaultOptions(),
		Result: &enrichment.Result{
			GroupNames: []string{"pathwayA", "pathwayB"},
			Components: []int{0},
			Statistics: [][]float64{{4.21}, {-0.73}},
			PValues:    [][]float64{{0.00002}, {0.46}},
		},
	}
}

func TestRenderMarkdownReport(t *testing.T) {
	md := RenderMarkdownReport(fixtureRun())

	assert.Contains(t, md, "# Enrichment run test-run")
	assert.Contains(t, md, "PC1 statistic")
	assert.Contains(t, md, "| pathwayA |")
	assert.Contains(t, md, "| pathwayB |")
	assert.Contains(t, md, "4.2100")
	assert.Contains(t, md, "2e-05")
}

func TestRenderHTMLReport(t *testing.T) {
	html := string(RenderHTMLReport(fixtureRun()))

	assert.True(t, strings.Contains(html, "<table>"), "report should render the results table")
	assert.Contains(t, html, "pathwayA")
	assert.Contains(t, html, "<html>")
}

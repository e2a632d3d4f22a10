package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pcenrich/adapters/excel"
	"pcenrich/app"
	"pcenrich/domain/enrichment"
	"pcenrich/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pcenrich",
		Short: "Principal component gene set enrichment analysis",
	}

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		matrixFile   string
		geneSetFile  string
		components   []int
		geneStat     string
		transform    string
		setStat      string
		testMethod   string
		reportFile   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an enrichment analysis over a data matrix and gene set file",
		Long: `Run computes, for each gene set and requested principal component,
a competitive enrichment statistic and a two-sided p-value.

The matrix file (.csv or .xlsx) holds observations in rows and variables in
columns, with a header row of gene names. The gene set file lists one set
per row: the set name followed by its member gene names.

Example: pcenrich run --matrix expr.csv --gene-sets pathways.csv --pcs 1,2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if matrixFile == "" {
				matrixFile = cfg.Data.MatrixFile
			}
			if geneSetFile == "" {
				geneSetFile = cfg.Data.GeneSetFile
			}
			if matrixFile == "" || geneSetFile == "" {
				return fmt.Errorf("both --matrix and --gene-sets are required")
			}

			// --pcs is 1-based on the command line.
			pcs := make([]int, 0, len(components))
			for _, c := range components {
				if c < 1 {
					return fmt.Errorf("--pcs values are 1-based and must be at least 1, got %d", c)
				}
				pcs = append(pcs, c-1)
			}

			data, err := excel.NewDataReader(matrixFile).ReadMatrix()
			if err != nil {
				return err
			}
			sets, err := excel.NewGeneSetReader(geneSetFile).ReadGeneSets(data.VariableNames)
			if err != nil {
				return err
			}

			opts := enrichment.Options{
				Components:    pcs,
				GeneStatistic: enrichment.GeneStatistic(geneStat),
				Transform:     enrichment.Transform(transform),
				SetStatistic:  enrichment.SetStatistic(setStat),
				TestMethod:    enrichment.TestMethod(testMethod),
			}

			service := app.NewEnrichmentService(nil, cfg.Workers)
			run, err := service.Execute(context.Background(), data, nil, enrichment.GroupMembership{Sets: sets}, opts)
			if err != nil {
				return err
			}

			if reportFile != "" {
				if err := os.WriteFile(reportFile, app.RenderHTMLReport(run), 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			}

			switch strings.ToLower(outputFormat) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			case "markdown":
				fmt.Fprint(cmd.OutOrStdout(), app.RenderMarkdownReport(run))
				return nil
			default:
				return fmt.Errorf("unknown output format %q, want json or markdown", outputFormat)
			}
		},
	}

	cmd.Flags().StringVar(&matrixFile, "matrix", "", "data matrix file (.csv or .xlsx)")
	cmd.Flags().StringVar(&geneSetFile, "gene-sets", "", "gene set file (.csv or .xlsx)")
	cmd.Flags().IntSliceVar(&components, "pcs", []int{1}, "principal components to test (1-based)")
	cmd.Flags().StringVar(&geneStat, "statistic", string(enrichment.StatFisherZ), "gene statistic: loading, cor or z")
	cmd.Flags().StringVar(&transform, "transform", string(enrichment.TransformNone), "statistic transform: none or abs.value")
	cmd.Flags().StringVar(&setStat, "set-statistic", string(enrichment.SetStatMeanDiff), "gene set statistic: mean.diff or rank.sum")
	cmd.Flags().StringVar(&testMethod, "test", string(enrichment.TestCorAdjParametric), "test method: parametric or cor.adj.parametric")
	cmd.Flags().StringVar(&reportFile, "report", "", "write an HTML report to this path")
	cmd.Flags().StringVar(&outputFormat, "output", "markdown", "stdout format: markdown or json")

	return cmd
}

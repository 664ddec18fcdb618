package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sourceflow-ai/bom-cli/internal/agent"
	"github.com/sourceflow-ai/bom-cli/internal/model"
)

var performanceProducts []string

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Synthesize performance metrics for products",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(performanceProducts) == 0 {
			return eris.New("at least one --product is required")
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}

		products := make([]model.ProductSummary, 0, len(performanceProducts))
		for _, name := range performanceProducts {
			products = append(products, model.ProductSummary{Name: name})
		}

		a := agent.NewPerformanceAnalyzer(gw, newSearch(), agentModels())
		result := a.Analyze(cmd.Context(), products)
		return writeJSON(result)
	},
}

func init() {
	performanceCmd.Flags().StringSliceVar(&performanceProducts, "product", nil, "product name (repeatable)")
	rootCmd.AddCommand(performanceCmd)
}

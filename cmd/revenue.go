package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sourceflow-ai/bom-cli/internal/agent"
)

var (
	revenueProduct     string
	revenueDescription string
	revenueBOMCost     float64
	revenueTargets     []string
)

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Project monthly revenue for a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		if revenueProduct == "" {
			return eris.New("--product is required")
		}
		if revenueBOMCost <= 0 {
			return eris.New("--bom-cost must be positive")
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}

		a := agent.NewRevenueProjector(gw, newSearch(), agentModels())
		result := a.Project(cmd.Context(), revenueProduct, revenueDescription, revenueBOMCost, revenueTargets)
		return writeJSON(result)
	},
}

func init() {
	revenueCmd.Flags().StringVar(&revenueProduct, "product", "", "product name")
	revenueCmd.Flags().StringVar(&revenueDescription, "description", "", "product description")
	revenueCmd.Flags().Float64Var(&revenueBOMCost, "bom-cost", 0, "total BOM cost in USD")
	revenueCmd.Flags().StringSliceVar(&revenueTargets, "target", nil, "target market country (repeatable)")
	rootCmd.AddCommand(revenueCmd)
}

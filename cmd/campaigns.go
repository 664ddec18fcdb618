package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sourceflow-ai/bom-cli/internal/agent"
)

var (
	campaignProduct     string
	campaignDescription string
	campaignTargets     []string
)

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Recommend marketing campaigns for a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		if campaignProduct == "" {
			return eris.New("--product is required")
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}

		a := agent.NewCampaignPlanner(gw, newSearch(), agentModels())
		result := a.Plan(cmd.Context(), campaignProduct, campaignDescription, campaignTargets)
		return writeJSON(result)
	},
}

func init() {
	campaignsCmd.Flags().StringVar(&campaignProduct, "product", "", "product name")
	campaignsCmd.Flags().StringVar(&campaignDescription, "description", "", "product description")
	campaignsCmd.Flags().StringSliceVar(&campaignTargets, "target", nil, "target market country (repeatable)")
	rootCmd.AddCommand(campaignsCmd)
}

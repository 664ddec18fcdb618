package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sourceflow-ai/bom-cli/internal/agent"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Market and price forecasting",
}

var (
	marketProduct     string
	marketDescription string
	marketMaterials   []string
	marketTargets     []string
)

var forecastMarketCmd = &cobra.Command{
	Use:   "market",
	Short: "Forecast demand for the finished product across markets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if marketProduct == "" {
			return eris.New("--product is required")
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}

		a := agent.NewMarketForecaster(gw, newSearch(), agentModels())
		result, err := a.Forecast(cmd.Context(), marketProduct, marketDescription, marketMaterials, marketTargets)
		if err != nil {
			return eris.Wrap(err, "market forecast")
		}
		return writeJSON(result)
	},
}

var (
	priceMaterial string
	priceType     string
	priceUnit     string
	priceWeeks    int
)

var forecastPriceCmd = &cobra.Command{
	Use:   "price",
	Short: "Forecast weekly price trends for a material",
	RunE: func(cmd *cobra.Command, args []string) error {
		if priceMaterial == "" {
			return eris.New("--material is required")
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}

		a := agent.NewPriceForecaster(gw, newSearch(), agentModels())
		result, err := a.Forecast(cmd.Context(), priceMaterial, priceType, priceUnit, priceWeeks)
		if err != nil {
			return eris.Wrap(err, "price forecast")
		}
		return writeJSON(result)
	},
}

func init() {
	forecastMarketCmd.Flags().StringVar(&marketProduct, "product", "", "product name")
	forecastMarketCmd.Flags().StringVar(&marketDescription, "description", "", "product description")
	forecastMarketCmd.Flags().StringSliceVar(&marketMaterials, "material", nil, "BOM material for context (repeatable)")
	forecastMarketCmd.Flags().StringSliceVar(&marketTargets, "target", nil, "target market country (repeatable; defaults to major markets)")

	forecastPriceCmd.Flags().StringVar(&priceMaterial, "material", "", "material name")
	forecastPriceCmd.Flags().StringVar(&priceType, "type", "", "material type")
	forecastPriceCmd.Flags().StringVar(&priceUnit, "unit", "piece", "pricing unit")
	forecastPriceCmd.Flags().IntVar(&priceWeeks, "weeks", 8, "forecast horizon in weeks")

	forecastCmd.AddCommand(forecastMarketCmd, forecastPriceCmd)
	rootCmd.AddCommand(forecastCmd)
}

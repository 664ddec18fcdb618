package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sourceflow-ai/bom-cli/internal/agent"
)

var (
	supplierMaterial  string
	supplierType      string
	supplierQuantity  float64
	supplierUnit      string
	supplierCountries []string
)

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "Recommend suppliers for a material",
	RunE: func(cmd *cobra.Command, args []string) error {
		if supplierMaterial == "" {
			return eris.New("--material is required")
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}

		a := agent.NewSupplierRecommender(gw, newSearch(), agentModels())
		result, err := a.Find(cmd.Context(), supplierMaterial, supplierType, supplierQuantity, supplierUnit, supplierCountries)
		if err != nil {
			return eris.Wrap(err, "find suppliers")
		}
		return writeJSON(result)
	},
}

var (
	contactSupplier string
	contactCity     string
	contactCountry  string
	contactWebsite  string
)

var supplierContactCmd = &cobra.Command{
	Use:   "supplier-contact",
	Short: "Find contact information for a supplier",
	RunE: func(cmd *cobra.Command, args []string) error {
		if contactSupplier == "" {
			return eris.New("--supplier is required")
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}

		a := agent.NewContactFinder(gw, newSearch(), agentModels())
		info := a.Find(cmd.Context(), contactSupplier, contactCity, contactCountry, contactWebsite)
		return writeJSON(info)
	},
}

func init() {
	suppliersCmd.Flags().StringVar(&supplierMaterial, "material", "", "material name")
	suppliersCmd.Flags().StringVar(&supplierType, "type", "", "material type")
	suppliersCmd.Flags().Float64Var(&supplierQuantity, "quantity", 0, "quantity needed")
	suppliersCmd.Flags().StringVar(&supplierUnit, "unit", "piece", "quantity unit")
	suppliersCmd.Flags().StringSliceVar(&supplierCountries, "country", nil, "preferred country (repeatable)")

	supplierContactCmd.Flags().StringVar(&contactSupplier, "supplier", "", "supplier company name")
	supplierContactCmd.Flags().StringVar(&contactCity, "city", "", "supplier city")
	supplierContactCmd.Flags().StringVar(&contactCountry, "country", "", "supplier country")
	supplierContactCmd.Flags().StringVar(&contactWebsite, "website", "", "supplier website if known")

	rootCmd.AddCommand(suppliersCmd, supplierContactCmd)
}

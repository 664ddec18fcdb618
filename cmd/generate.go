package main

import (
	"mime"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/agent"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/pipeline"
)

var (
	generateImages      []string
	generateImageURLs   []string
	generateDescription string
	generateYieldBuffer float64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a bill of materials from product images",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		images, err := loadImages(generateImages, generateImageURLs)
		if err != nil {
			return err
		}
		if len(images) == 0 {
			return eris.New("at least one --image or --image-url is required")
		}

		gw, err := newGateway()
		if err != nil {
			return err
		}
		search := newSearch()
		models := agentModels()
		attempts := cfg.Pipeline.StageAttempts

		orch := pipeline.New(
			agent.NewProductAnalyzer(gw, models, attempts),
			agent.NewMaterialAnalyzer(gw, search, models, attempts),
			agent.NewManufacturingAnalyzer(gw, models),
			agent.NewPricingAnalyzer(gw, search, models, attempts),
		)

		// The config default applies only when the flag is omitted, so an
		// explicit --yield-buffer 0 is honored.
		yieldBuffer := generateYieldBuffer
		if !cmd.Flags().Changed("yield-buffer") {
			yieldBuffer = cfg.Pipeline.YieldBuffer
		}

		result, err := orch.GenerateBOM(ctx, model.AnalysisRequest{
			Images:      images,
			Description: generateDescription,
			YieldBuffer: yieldBuffer,
		})
		if err != nil {
			return eris.Wrap(err, "generate BOM")
		}

		zap.L().Info("BOM generated",
			zap.String("run_id", result.RunID),
			zap.Int("categories", len(result.BOM.Categories)),
			zap.Float64("total_cost", result.BOM.TotalCost),
			zap.Float64("confidence", result.Confidence),
		)
		return writeJSON(result)
	},
}

// loadImages reads local image files and pairs them with remote URLs.
func loadImages(paths, urls []string) ([]model.ImageBlob, error) {
	images := make([]model.ImageBlob, 0, len(paths)+len(urls))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "read image %s", path)
		}
		mediaType := mime.TypeByExtension(filepath.Ext(path))
		images = append(images, model.ImageBlob{Data: data, MediaType: mediaType})
	}
	for _, url := range urls {
		images = append(images, model.ImageBlob{URL: url})
	}
	return images, nil
}

func init() {
	generateCmd.Flags().StringArrayVar(&generateImages, "image", nil, "product image file (repeatable)")
	generateCmd.Flags().StringArrayVar(&generateImageURLs, "image-url", nil, "product image URL (repeatable)")
	generateCmd.Flags().StringVar(&generateDescription, "description", "", "product description")
	generateCmd.Flags().Float64Var(&generateYieldBuffer, "yield-buffer", 0, "material waste buffer percent (default from config)")
	rootCmd.AddCommand(generateCmd)
}

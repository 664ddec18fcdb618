// Package pipeline coordinates the analysis stages into a single BOM
// generation run and reconciles their output into the final bill of
// materials.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sourceflow-ai/bom-cli/internal/model"
)

// ProductStage analyzes product structure from images.
type ProductStage interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.StageResult, error)
}

// MaterialStage identifies materials from the product analysis.
type MaterialStage interface {
	Analyze(ctx context.Context, product model.StageResult) (model.StageResult, error)
}

// ManufacturingStage derives production processes.
type ManufacturingStage interface {
	Analyze(ctx context.Context, product, material model.StageResult) (model.StageResult, error)
}

// PricingStage refines material pricing.
type PricingStage interface {
	Analyze(ctx context.Context, material model.StageResult) (model.StageResult, error)
}

// StageError identifies which pipeline stage failed fatally.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Orchestrator runs the four analysis stages and merges their results. The
// product and material stages are fatal; manufacturing and pricing degrade
// to fallbacks so a partial run still yields a priced BOM.
type Orchestrator struct {
	product       ProductStage
	material      MaterialStage
	manufacturing ManufacturingStage
	pricing       PricingStage
}

// New creates an Orchestrator over the given stages.
func New(product ProductStage, material MaterialStage, manufacturing ManufacturingStage, pricing PricingStage) *Orchestrator {
	return &Orchestrator{
		product:       product,
		material:      material,
		manufacturing: manufacturing,
		pricing:       pricing,
	}
}

// GenerateBOM runs the full analysis pipeline for req. A negative
// YieldBuffer selects the default; an explicit zero disables the buffer.
func (o *Orchestrator) GenerateBOM(ctx context.Context, req model.AnalysisRequest) (*model.PipelineResult, error) {
	if req.YieldBuffer < 0 {
		req.YieldBuffer = model.DefaultYieldBuffer
	}
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	log.Info("product analysis starting", zap.Int("images", len(req.Images)))
	product, err := o.product.Analyze(ctx, req)
	if err != nil {
		return nil, &StageError{Stage: "product", Err: err}
	}

	log.Info("material analysis starting")
	material, err := o.material.Analyze(ctx, product)
	if err != nil {
		return nil, &StageError{Stage: "material", Err: err}
	}

	// Manufacturing and pricing only read upstream results; run them
	// concurrently and degrade each independently.
	var manufacturing, pricing model.StageResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("manufacturing analysis starting")
		res, err := o.manufacturing.Analyze(gctx, product, material)
		if err != nil {
			log.Warn("manufacturing analysis failed, using basic manufacturing data", zap.Error(err))
			res = model.StageResult{
				"manufacturing_processes": []any{},
				"assembly_steps":          []any{},
				"quality_requirements":    []any{},
			}
		}
		manufacturing = res
		return nil
	})
	g.Go(func() error {
		log.Info("pricing analysis starting")
		res, err := o.pricing.Analyze(gctx, material)
		if err != nil {
			log.Warn("pricing analysis failed, falling back to material pricing", zap.Error(err))
			res = pricingFromMaterials(material)
		}
		pricing = res
		return nil
	})
	_ = g.Wait()

	bom := buildBOM(product, pricing, manufacturing, material, req.YieldBuffer, log)

	return &model.PipelineResult{
		RunID:                 runID,
		BOM:                   bom,
		Confidence:            Confidence(product, material),
		ProductAnalysis:       product,
		MaterialAnalysis:      material,
		ManufacturingAnalysis: manufacturing,
		PricingAnalysis:       pricing,
	}, nil
}

// buildBOM merges the stage outputs. Pricing categories win over material
// categories; with neither, an empty BOM is returned.
func buildBOM(product, pricing, manufacturing, material model.StageResult, yieldBuffer float64, log *zap.Logger) model.BOM {
	categories := pricing.List("categories")
	if len(categories) > 0 {
		log.Debug("using pricing analysis categories", zap.Int("count", len(categories)))
	} else {
		categories = material.List("categories")
		if len(categories) > 0 {
			log.Debug("using material analysis categories", zap.Int("count", len(categories)))
		} else {
			log.Error("no material categories in pricing or material analysis")
		}
	}

	typed, totalCost := Reconcile(categories, yieldBuffer)
	return model.BOM{
		Categories:              typed,
		TotalCost:               totalCost,
		YieldBuffer:             yieldBuffer,
		ProductCategory:         stringOr(product["product_category"], "Unknown"),
		ManufacturingComplexity: stringOr(manufacturing["manufacturing_complexity"], "medium"),
	}
}

// pricingFromMaterials synthesizes a pricing result from the material
// analysis when the pricing stage is unavailable, preserving any costs the
// material stage already estimated.
func pricingFromMaterials(material model.StageResult) model.StageResult {
	materials := material.List("primary_materials")
	if len(materials) == 0 {
		materials = material.List("materials")
	}

	priced := make([]any, 0, len(materials))
	for _, m := range materials {
		item, ok := m.(map[string]any)
		if !ok {
			continue
		}
		specs, _ := item["specifications"].(map[string]any)
		if specs == nil {
			specs = map[string]any{}
		}
		priced = append(priced, map[string]any{
			"name":               stringOr(item["name"], ""),
			"type":               stringOr(item["type"], "MATERIAL"),
			"estimated_quantity": firstOf(item, "estimated_quantity", "quantity"),
			"unit":               stringOr(item["unit"], "piece"),
			"unit_cost":          firstOf(item, "unit_cost", "unitCost"),
			"total_cost":         firstOf(item, "total_cost", "totalCost"),
			"specifications":     specs,
			"source":             stringOr(item["source"], "Unknown"),
		})
	}

	result := model.StageResult{
		"materials_pricing":  priced,
		"hardware_fasteners": material.List("hardware_fasteners"),
		"finishes_coatings":  material.List("finishes_coatings"),
		"packaging":          material.List("packaging"),
		"pricing_analysis": map[string]any{
			"currency":          "USD",
			"market_conditions": "Unable to fetch pricing data",
		},
	}
	if cats := material.List("categories"); len(cats) > 0 {
		result["categories"] = cats
	}
	return result
}

// Confidence scores analysis completeness: a 0.5 base raised by detected
// components, identified primary materials, and hardware detail, capped at
// 1.0.
func Confidence(product, material model.StageResult) float64 {
	confidence := 0.5
	if product.HasItems("detected_components") {
		confidence += 0.2
	}
	if material.HasItems("primary_materials") {
		confidence += 0.2
	}
	if material.HasItems("hardware_fasteners") {
		confidence += 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

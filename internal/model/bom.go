// Package model defines the data types shared across the BOM generation
// pipeline: analysis inputs, per-stage results, and the merged BOM output.
package model

// ImageBlob is a single product image supplied to the structural analysis
// stage. Either Data (raw bytes) or URL (remote reference) is set.
type ImageBlob struct {
	Data      []byte
	MediaType string // defaults to image/jpeg when empty
	URL       string
}

// DefaultYieldBuffer is the material waste markup applied to quantities
// when the caller does not specify one.
const DefaultYieldBuffer = 10.0

// AnalysisRequest is the input unit for a full pipeline run. Immutable once
// created. A negative YieldBuffer selects DefaultYieldBuffer; zero disables
// the buffer.
type AnalysisRequest struct {
	Images      []ImageBlob
	Description string
	YieldBuffer float64
}

// StageResult is the open-ended output of one analysis stage. Stages own the
// result they produce; downstream consumers only read it.
type StageResult map[string]any

// Strings returns the string slice under key, tolerating []any payloads.
func (r StageResult) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// List returns the slice under key, or nil.
func (r StageResult) List(key string) []any {
	v, _ := r[key].([]any)
	return v
}

// HasItems reports whether key holds a non-empty slice.
func (r StageResult) HasItems(key string) bool {
	return len(r.List(key)) > 0
}

// Item is a single BOM line: one material or component with quantity and
// cost figures.
type Item struct {
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Quantity       float64        `json:"quantity"`
	Unit           string         `json:"unit"`
	UnitCost       float64        `json:"unitCost"`
	TotalCost      float64        `json:"totalCost"`
	Specifications map[string]any `json:"specifications"`
	Source         string         `json:"source"`
}

// Category groups related BOM items (e.g. Shell Fabrication, Trims & Hardware).
type Category struct {
	Name  string `json:"category"`
	Items []Item `json:"items"`
}

// BOM is the merged bill of materials for one product.
type BOM struct {
	Categories              []Category `json:"categories"`
	TotalCost               float64    `json:"total_cost"`
	YieldBuffer             float64    `json:"yield_buffer"`
	ProductCategory         string     `json:"product_category"`
	ManufacturingComplexity string     `json:"manufacturing_complexity"`
}

// PipelineResult is the top-level output of a full pipeline run. The raw
// stage results are retained for traceability.
type PipelineResult struct {
	RunID                 string      `json:"run_id"`
	BOM                   BOM         `json:"bom"`
	Confidence            float64     `json:"confidence"`
	ProductAnalysis       StageResult `json:"product_analysis"`
	MaterialAnalysis      StageResult `json:"material_analysis"`
	ManufacturingAnalysis StageResult `json:"manufacturing_analysis"`
	PricingAnalysis       StageResult `json:"pricing_analysis"`
}

// MaterialNames flattens every item name out of the BOM, for use as forecast
// input.
func (b BOM) MaterialNames() []string {
	var names []string
	for _, cat := range b.Categories {
		for _, item := range cat.Items {
			if item.Name != "" {
				names = append(names, item.Name)
			}
		}
	}
	return names
}

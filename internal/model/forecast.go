package model

// TrendStable is the default trend tag when the model omits one.
const TrendStable = "stable"

// MarketForecast is one country's demand outlook. The four scores are
// normalized to the 0-100 range; missing scores default to 50.
type MarketForecast struct {
	Country       string  `json:"country"`
	City          *string `json:"city,omitempty"`
	Demand        float64 `json:"demand"`
	Competition   float64 `json:"competition"`
	Price         float64 `json:"price"`
	Growth        float64 `json:"growth"`
	MarketSize    string  `json:"marketSize,omitempty"`
	AvgPrice      string  `json:"avgPrice,omitempty"`
	GrowthPercent string  `json:"growthPercent,omitempty"`
	Trend         string  `json:"trend"`
}

// MarketForecastResult is the market forecast stage output.
type MarketForecastResult struct {
	Forecasts []MarketForecast `json:"forecasts"`
}

// PricePoint is one week of a material price forecast.
type PricePoint struct {
	Week  int     `json:"week"`
	Price float64 `json:"price"`
}

// PriceForecastResult is the price forecast stage output.
type PriceForecastResult struct {
	Material  string       `json:"material,omitempty"`
	Unit      string       `json:"unit,omitempty"`
	Currency  string       `json:"currency,omitempty"`
	Forecasts []PricePoint `json:"forecasts"`
}

// MonthProjection is one month of a revenue projection.
type MonthProjection struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Cost     float64 `json:"cost"`
	Profit   float64 `json:"profit"`
	Units    int     `json:"units"`
	AvgPrice float64 `json:"avgPrice"`
}

// RevenueProjectionResult is the revenue projection stage output.
type RevenueProjectionResult struct {
	Projections []MonthProjection `json:"projections"`
}

// ProductSummary identifies one product for the performance stage.
type ProductSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProductPerformance is one product's synthesized performance metrics.
type ProductPerformance struct {
	Product string  `json:"product"`
	Sales   float64 `json:"sales"`
	Revenue float64 `json:"revenue"`
	Margin  float64 `json:"margin"`
}

// PerformanceResult is the product performance stage output.
type PerformanceResult struct {
	Performance []ProductPerformance `json:"performance"`
}

// Campaign is one recommended marketing campaign.
type Campaign struct {
	Platform   string `json:"platform"`
	Name       string `json:"name"`
	Budget     string `json:"budget"`
	Reach      string `json:"reach"`
	Engagement string `json:"engagement"`
	ROI        string `json:"roi"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
}

// CampaignsResult is the marketing campaigns stage output.
type CampaignsResult struct {
	Campaigns []Campaign `json:"campaigns"`
}

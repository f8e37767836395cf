package model

// ClusterLabel is one of the four semantic country groups derived from
// k-means centroids each run.
type ClusterLabel string

const (
	ClusterJusticePriority    ClusterLabel = "Climate Justice Priorities"
	ClusterHighResponsibility ClusterLabel = "High-Responsibility Economies"
	ClusterTransitional       ClusterLabel = "Transitional Economies"
	ClusterOutlier            ClusterLabel = "Outliers/Special Cases"
)

// CountryRecord is the single working entity of the pipeline: one row per
// country surviving the inner join, enriched in place by each stage.
type CountryRecord struct {
	Country       string  `json:"country"`
	CO2PerCapita  float64 `json:"co2_per_capita"`
	PovertyPct    float64 `json:"poverty_pct"`
	RevenueGapPct float64 `json:"revenue_gap_pct"`

	FertilityRate    float64 `json:"fertility_rate,omitempty"`
	HasFertilityRate bool    `json:"has_fertility_rate,omitempty"`

	// Min-Max scaled values over the surviving row set.
	CO2MinMax     float64 `json:"co2_mm"`
	PovertyMinMax float64 `json:"poverty_mm"`
	RevenueMinMax float64 `json:"revenue_mm"`

	// Z-score values, the clustering feature space.
	CO2Z     float64 `json:"co2_z"`
	PovertyZ float64 `json:"poverty_z"`
	RevenueZ float64 `json:"revenue_z"`

	// CFIDefined is false when the denominator (co2 per-capita) is zero or
	// negative; such rows carry no score, rank, or decile but are never
	// dropped from exports.
	CFIDefined bool    `json:"cfi_defined"`
	CFIScore   float64 `json:"cfi_score,omitempty"`
	CFIRank    int     `json:"cfi_rank,omitempty"`
	CFIDecile  int     `json:"cfi_decile,omitempty"`

	Cluster      int          `json:"cluster"`
	ClusterLabel ClusterLabel `json:"cluster_label,omitempty"`

	// GeoMapped reports whether the choropleth found boundary geometry for
	// this country; unmapped countries render as no-data.
	GeoMapped bool `json:"geo_mapped"`
}

// Features returns the z-score vector used for clustering.
func (r *CountryRecord) Features() []float64 {
	return []float64{r.CO2Z, r.PovertyZ, r.RevenueZ}
}

// Package normalize adds Min-Max and Z-score columns to the working table.
// Originals are kept untouched: the index stage runs on raw values, the
// cluster stage on the Z-scores produced here.
package normalize

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/openclimate/cfi-cli/internal/model"
)

// Result reports what the normalizer observed about the columns.
type Result struct {
	DegenerateColumns int
}

// column binds a raw field to its two normalized destinations.
type column struct {
	name   string
	raw    func(*model.CountryRecord) float64
	minmax func(*model.CountryRecord, float64)
	zscore func(*model.CountryRecord, float64)
}

var columns = []column{
	{
		name:   "co2_per_capita",
		raw:    func(r *model.CountryRecord) float64 { return r.CO2PerCapita },
		minmax: func(r *model.CountryRecord, v float64) { r.CO2MinMax = v },
		zscore: func(r *model.CountryRecord, v float64) { r.CO2Z = v },
	},
	{
		name:   "poverty_pct",
		raw:    func(r *model.CountryRecord) float64 { return r.PovertyPct },
		minmax: func(r *model.CountryRecord, v float64) { r.PovertyMinMax = v },
		zscore: func(r *model.CountryRecord, v float64) { r.PovertyZ = v },
	},
	{
		name:   "revenue_gap_pct",
		raw:    func(r *model.CountryRecord) float64 { return r.RevenueGapPct },
		minmax: func(r *model.CountryRecord, v float64) { r.RevenueMinMax = v },
		zscore: func(r *model.CountryRecord, v float64) { r.RevenueZ = v },
	},
}

// Apply computes Min-Max and Z-score values for each configured column over
// the surviving row set, in place. A degenerate column (max=min or σ=0)
// normalizes to 0 for every row rather than dividing by zero.
func Apply(records []model.CountryRecord) Result {
	var res Result
	if len(records) == 0 {
		return res
	}

	xs := make([]float64, len(records))
	for _, col := range columns {
		for i := range records {
			xs[i] = col.raw(&records[i])
		}

		minV := floats.Min(xs)
		maxV := floats.Max(xs)
		mean, std := stat.MeanStdDev(xs, nil)

		mmDegen := maxV == minV
		zDegen := std == 0 || len(records) < 2
		if mmDegen || zDegen {
			res.DegenerateColumns++
			zap.L().Warn("degenerate column, normalizing to zero",
				zap.String("column", col.name),
			)
		}

		for i := range records {
			r := &records[i]
			if mmDegen {
				col.minmax(r, 0)
			} else {
				col.minmax(r, (xs[i]-minV)/(maxV-minV))
			}
			if zDegen {
				col.zscore(r, 0)
			} else {
				col.zscore(r, (xs[i]-mean)/std)
			}
		}
	}

	return res
}

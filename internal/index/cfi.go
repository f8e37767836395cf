// Package index computes the Climate Fairness Index, its ranking, and the
// decile bucketing over the working table.
package index

import (
	"sort"

	"go.uber.org/zap"

	"github.com/openclimate/cfi-cli/internal/model"
)

// Result reports ranking coverage for the run report.
type Result struct {
	Ranked    int // rows with a defined CFI, 1..Ranked is the rank range
	Undefined int // rows excluded for a zero or negative denominator
}

// Compute derives CFI = (poverty% × revenue_gap%) / co2_per_capita on raw
// values, ranks defined rows descending (ties broken by country name
// ascending), and assigns deciles. Rows with co2_per_capita ≤ 0 have no
// defined ratio: they are flagged, skipped by rank and decile, and kept in
// the table.
func Compute(records []model.CountryRecord) Result {
	var res Result

	defined := make([]*model.CountryRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		if r.CO2PerCapita <= 0 {
			r.CFIDefined = false
			r.CFIScore = 0
			r.CFIRank = 0
			r.CFIDecile = 0
			res.Undefined++
			continue
		}
		r.CFIDefined = true
		r.CFIScore = (r.PovertyPct * r.RevenueGapPct) / r.CO2PerCapita
		defined = append(defined, r)
	}

	sort.Slice(defined, func(i, j int) bool {
		if defined[i].CFIScore != defined[j].CFIScore {
			return defined[i].CFIScore > defined[j].CFIScore
		}
		return defined[i].Country < defined[j].Country
	})

	bucket := len(defined) / 10
	if bucket < 1 {
		bucket = 1
	}
	for i, r := range defined {
		r.CFIRank = i + 1
		decile := i/bucket + 1
		if decile > 10 {
			// Last bucket absorbs the remainder.
			decile = 10
		}
		r.CFIDecile = decile
	}

	res.Ranked = len(defined)

	if res.Undefined > 0 {
		zap.L().Warn("rows with undefined index excluded from ranking",
			zap.Int("count", res.Undefined),
		)
	}
	zap.L().Info("computed fairness index",
		zap.Int("ranked", res.Ranked),
		zap.Int("undefined", res.Undefined),
	)

	return res
}

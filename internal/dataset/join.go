package dataset

import (
	"sort"

	"go.uber.org/zap"

	"github.com/openclimate/cfi-cli/internal/model"
)

// Years fixes the cross-section year per indicator. The sources are
// multi-year panels; each one is sliced at its own target year before the
// join.
type Years struct {
	CO2       int
	Poverty   int
	Revenue   int
	Fertility int
}

// JoinResult is the working table produced by the inner join, plus the
// bookkeeping the run report needs.
type JoinResult struct {
	Records    []model.CountryRecord
	Year       int // headline year (the emissions cross-section)
	Dropped    int // countries missing from at least one required source
	Unresolved int // source names that matched no canonical country
}

// SelectYear implements the year policy: a configured target year wins;
// zero selects the latest year present in every required source, which is
// the minimum across sources of each source's maximum year.
func SelectYear(target int, required ...*Series) int {
	if target != 0 {
		return target
	}
	year := 0
	for i, s := range required {
		if i == 0 || s.MaxYear < year {
			year = s.MaxYear
		}
	}
	return year
}

// Join inner-joins the three required indicators at their chosen years and
// attaches fertility where available. A country appears in the result only
// if all three required values are present; every exclusion is counted.
// Records are sorted by country name so downstream output is deterministic.
func Join(co2, poverty, revenue, fertility *Series, years Years) JoinResult {
	co2Y := co2.YearSlice(years.CO2)
	povY := poverty.YearSlice(years.Poverty)
	revY := revenue.YearSlice(years.Revenue)

	var fertY map[string]float64
	if fertility != nil {
		fertY = fertility.YearSlice(years.Fertility)
	}

	// Union of countries across required sources, to count drops.
	union := make(map[string]struct{})
	for c := range co2Y {
		union[c] = struct{}{}
	}
	for c := range povY {
		union[c] = struct{}{}
	}
	for c := range revY {
		union[c] = struct{}{}
	}

	result := JoinResult{
		Year:       years.CO2,
		Unresolved: co2.Unresolved + poverty.Unresolved + revenue.Unresolved,
	}
	if fertility != nil {
		result.Unresolved += fertility.Unresolved
	}

	for country := range union {
		co2v, ok1 := co2Y[country]
		povv, ok2 := povY[country]
		revv, ok3 := revY[country]
		if !ok1 || !ok2 || !ok3 {
			result.Dropped++
			continue
		}
		rec := model.CountryRecord{
			Country:       country,
			CO2PerCapita:  co2v,
			PovertyPct:    povv,
			RevenueGapPct: revv,
		}
		if fertY != nil {
			if fv, ok := fertY[country]; ok {
				rec.FertilityRate = fv
				rec.HasFertilityRate = true
			}
		}
		result.Records = append(result.Records, rec)
	}

	sort.Slice(result.Records, func(i, j int) bool {
		return result.Records[i].Country < result.Records[j].Country
	})

	zap.L().Info("joined indicators",
		zap.Int("year", years.CO2),
		zap.Int("countries", len(result.Records)),
		zap.Int("dropped", result.Dropped),
		zap.Int("unresolved_names", result.Unresolved),
	)

	return result
}

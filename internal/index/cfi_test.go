package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/cfi-cli/internal/model"
)

func TestCompute_Formula(t *testing.T) {
	records := []model.CountryRecord{
		{Country: "A", CO2PerCapita: 20, PovertyPct: 5, RevenueGapPct: 10},
		{Country: "B", CO2PerCapita: 0.1, PovertyPct: 50, RevenueGapPct: 40},
		{Country: "C", CO2PerCapita: 5, PovertyPct: 20, RevenueGapPct: 20},
	}

	res := Compute(records)
	require.Equal(t, 3, res.Ranked)
	require.Equal(t, 0, res.Undefined)

	byName := map[string]model.CountryRecord{}
	for _, r := range records {
		byName[r.Country] = r
	}

	assert.InDelta(t, 2.5, byName["A"].CFIScore, 1e-9)
	assert.InDelta(t, 20000.0, byName["B"].CFIScore, 1e-9)
	assert.InDelta(t, 80.0, byName["C"].CFIScore, 1e-9)

	// Descending CFI: B, C, A.
	assert.Equal(t, 1, byName["B"].CFIRank)
	assert.Equal(t, 2, byName["C"].CFIRank)
	assert.Equal(t, 3, byName["A"].CFIRank)
}

func TestCompute_RankIsPermutation(t *testing.T) {
	var records []model.CountryRecord
	for i := 0; i < 37; i++ {
		records = append(records, model.CountryRecord{
			Country:       fmt.Sprintf("Country-%02d", i),
			CO2PerCapita:  float64(i%7) + 0.5,
			PovertyPct:    float64((i * 13) % 50),
			RevenueGapPct: float64((i * 7) % 30),
		})
	}

	res := Compute(records)
	require.Equal(t, len(records), res.Ranked)

	seen := make(map[int]bool)
	for _, r := range records {
		require.True(t, r.CFIDefined)
		require.False(t, seen[r.CFIRank], "duplicate rank %d", r.CFIRank)
		seen[r.CFIRank] = true
		assert.GreaterOrEqual(t, r.CFIRank, 1)
		assert.LessOrEqual(t, r.CFIRank, res.Ranked)
		assert.GreaterOrEqual(t, r.CFIDecile, 1)
		assert.LessOrEqual(t, r.CFIDecile, 10)
	}
}

func TestCompute_TiesBrokenByName(t *testing.T) {
	records := []model.CountryRecord{
		{Country: "Zed", CO2PerCapita: 2, PovertyPct: 10, RevenueGapPct: 2},
		{Country: "Abel", CO2PerCapita: 2, PovertyPct: 10, RevenueGapPct: 2},
	}

	Compute(records)

	byName := map[string]model.CountryRecord{}
	for _, r := range records {
		byName[r.Country] = r
	}
	assert.Equal(t, 1, byName["Abel"].CFIRank)
	assert.Equal(t, 2, byName["Zed"].CFIRank)
}

func TestCompute_ZeroDenominatorFlaggedNotDropped(t *testing.T) {
	records := []model.CountryRecord{
		{Country: "A", CO2PerCapita: 0, PovertyPct: 10, RevenueGapPct: 5},
		{Country: "B", CO2PerCapita: -1, PovertyPct: 10, RevenueGapPct: 5},
		{Country: "C", CO2PerCapita: 2, PovertyPct: 10, RevenueGapPct: 5},
	}

	res := Compute(records)
	assert.Equal(t, 1, res.Ranked)
	assert.Equal(t, 2, res.Undefined)

	for _, r := range records[:2] {
		assert.False(t, r.CFIDefined)
		assert.Equal(t, 0, r.CFIRank)
		assert.Equal(t, 0, r.CFIDecile)
	}
	assert.True(t, records[2].CFIDefined)
	assert.Equal(t, 1, records[2].CFIRank)
}

func TestCompute_DecileBuckets(t *testing.T) {
	// 23 rows: bucket size 2, ranks 21-23 all absorbed into decile 10.
	var records []model.CountryRecord
	for i := 0; i < 23; i++ {
		records = append(records, model.CountryRecord{
			Country:       fmt.Sprintf("Country-%02d", i),
			CO2PerCapita:  1,
			PovertyPct:    float64(100 - i),
			RevenueGapPct: 1,
		})
	}

	Compute(records)

	decileOf := make(map[int]int) // rank → decile
	for _, r := range records {
		decileOf[r.CFIRank] = r.CFIDecile
	}

	assert.Equal(t, 1, decileOf[1])
	assert.Equal(t, 1, decileOf[2])
	assert.Equal(t, 2, decileOf[3])
	assert.Equal(t, 10, decileOf[20])
	assert.Equal(t, 10, decileOf[21])
	assert.Equal(t, 10, decileOf[23])
}

func TestCompute_Decile1HasHighestCFI(t *testing.T) {
	var records []model.CountryRecord
	for i := 0; i < 30; i++ {
		records = append(records, model.CountryRecord{
			Country:       fmt.Sprintf("Country-%02d", i),
			CO2PerCapita:  1,
			PovertyPct:    float64(i + 1),
			RevenueGapPct: 1,
		})
	}

	Compute(records)

	var maxScore float64
	for _, r := range records {
		if r.CFIScore > maxScore {
			maxScore = r.CFIScore
		}
	}
	for _, r := range records {
		if r.CFIDecile == 1 {
			assert.GreaterOrEqual(t, r.CFIScore, maxScore-3)
		}
	}
	for _, r := range records {
		if r.CFIScore == maxScore {
			assert.Equal(t, 1, r.CFIDecile)
		}
	}
}

package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/cfi-cli/internal/model"
)

func TestFit_SeparatedGroups(t *testing.T) {
	points := [][]float64{
		{0, 0, 0}, {0.1, 0, 0}, {0, 0.1, 0},
		{10, 10, 10}, {10.1, 10, 10}, {10, 10.1, 10},
	}

	assign, centroids := KMeans{K: 2, Seed: 42, MaxIterations: 100}.Fit(points)
	require.Len(t, assign, 6)
	require.Len(t, centroids, 2)

	// The two tight groups end up in distinct clusters.
	assert.Equal(t, assign[0], assign[1])
	assert.Equal(t, assign[0], assign[2])
	assert.Equal(t, assign[3], assign[4])
	assert.Equal(t, assign[3], assign[5])
	assert.NotEqual(t, assign[0], assign[3])
}

func TestFit_DeterministicWithSeed(t *testing.T) {
	points := [][]float64{
		{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {1, 0, 1},
		{9, 9, 0}, {2, 2, 2}, {5, 1, 5}, {0, 8, 3},
	}

	km := KMeans{K: 3, Seed: 42, MaxIterations: 100}
	a1, c1 := km.Fit(points)
	a2, c2 := km.Fit(points)

	assert.Equal(t, a1, a2)
	assert.Equal(t, c1, c2)
}

func TestFit_KLargerThanPoints(t *testing.T) {
	points := [][]float64{{1, 1, 1}, {2, 2, 2}}

	assign, centroids := KMeans{K: 4, Seed: 42}.Fit(points)
	require.Len(t, assign, 2)
	assert.Len(t, centroids, 2)
}

func TestFit_Empty(t *testing.T) {
	assign, centroids := KMeans{K: 4, Seed: 42}.Fit(nil)
	assert.Nil(t, assign)
	assert.Nil(t, centroids)
}

func TestAssign_LabelsRecords(t *testing.T) {
	records := []model.CountryRecord{
		{Country: "A", CO2Z: -1, PovertyZ: 2, RevenueZ: 2},
		{Country: "B", CO2Z: -0.9, PovertyZ: 1.9, RevenueZ: 2.1},
		{Country: "C", CO2Z: 2, PovertyZ: -1, RevenueZ: -1},
		{Country: "D", CO2Z: 2.1, PovertyZ: -0.9, RevenueZ: -1.1},
	}

	Assign(records, KMeans{K: 2, Seed: 42, MaxIterations: 100})

	// High-need countries take the justice label, high-emitters the
	// responsibility label.
	assert.Equal(t, model.ClusterJusticePriority, records[0].ClusterLabel)
	assert.Equal(t, model.ClusterJusticePriority, records[1].ClusterLabel)
	assert.Equal(t, model.ClusterHighResponsibility, records[2].ClusterLabel)
	assert.Equal(t, model.ClusterHighResponsibility, records[3].ClusterLabel)
}

func TestAssign_DeterministicAcrossRuns(t *testing.T) {
	build := func() []model.CountryRecord {
		return []model.CountryRecord{
			{Country: "A", CO2Z: -1.2, PovertyZ: 1.8, RevenueZ: 1.1},
			{Country: "B", CO2Z: 0.4, PovertyZ: -0.2, RevenueZ: 0.3},
			{Country: "C", CO2Z: 1.9, PovertyZ: -1.4, RevenueZ: -0.8},
			{Country: "D", CO2Z: -0.3, PovertyZ: 0.1, RevenueZ: -0.5},
			{Country: "E", CO2Z: 0.9, PovertyZ: 2.2, RevenueZ: 1.9},
		}
	}

	km := KMeans{K: 4, Seed: 7, MaxIterations: 100}
	r1, r2 := build(), build()
	Assign(r1, km)
	Assign(r2, km)

	for i := range r1 {
		assert.Equal(t, r1[i].Cluster, r2[i].Cluster)
		assert.Equal(t, r1[i].ClusterLabel, r2[i].ClusterLabel)
	}
}

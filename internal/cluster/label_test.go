package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclimate/cfi-cli/internal/model"
)

func TestLabelCentroids_FourNames(t *testing.T) {
	centroids := [][]float64{
		{1.8, -1.2, -0.9}, // high emissions, low need
		{-1.1, 1.9, 1.5},  // low emissions, high need
		{0.1, 0.2, -0.1},  // near the origin
		{-0.5, 2.8, -2.9}, // extreme mixed profile, far from origin
	}

	labels := LabelCentroids(centroids)
	require.Len(t, labels, 4)

	assert.Equal(t, model.ClusterHighResponsibility, labels[0])
	assert.Equal(t, model.ClusterJusticePriority, labels[1])
	assert.Equal(t, model.ClusterTransitional, labels[2])
	assert.Equal(t, model.ClusterOutlier, labels[3])

	// Every semantic name assigned exactly once.
	seen := map[model.ClusterLabel]int{}
	for _, l := range labels {
		seen[l]++
	}
	assert.Len(t, seen, 4)
}

func TestLabelCentroids_SmallK(t *testing.T) {
	labels := LabelCentroids([][]float64{{0, 0, 0}})
	assert.Equal(t, []model.ClusterLabel{model.ClusterTransitional}, labels)

	labels = LabelCentroids([][]float64{{-1, 1, 1}, {1, -1, -1}})
	assert.Equal(t, model.ClusterJusticePriority, labels[0])
	assert.Equal(t, model.ClusterHighResponsibility, labels[1])

	labels = LabelCentroids([][]float64{{-1, 1, 1}, {0, 0, 0}, {1, -1, -1}})
	assert.Equal(t, model.ClusterJusticePriority, labels[0])
	assert.Equal(t, model.ClusterOutlier, labels[1])
	assert.Equal(t, model.ClusterHighResponsibility, labels[2])
}

func TestLabelCentroids_Empty(t *testing.T) {
	assert.Empty(t, LabelCentroids(nil))
}

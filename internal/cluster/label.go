package cluster

import (
	"math"
	"sort"

	"github.com/openclimate/cfi-cli/internal/model"
)

// Feature order within centroids, matching model.CountryRecord.Features.
const (
	featCO2 = iota
	featPoverty
	featRevenue
)

// LabelCentroids maps raw cluster IDs to the four semantic group names.
// Raw IDs are not stable across runs, so the mapping is re-derived from the
// centroids each time: centroids are ordered by a need score
// (poverty_z + revenue_z − co2_z); the highest-need centroid is the justice
// priority group and the lowest-need the high-responsibility group. Of the
// remaining centroids the one farthest from the origin is the outlier
// group, the rest are transitional.
func LabelCentroids(centroids [][]float64) []model.ClusterLabel {
	k := len(centroids)
	labels := make([]model.ClusterLabel, k)
	if k == 0 {
		return labels
	}
	if k == 1 {
		labels[0] = model.ClusterTransitional
		return labels
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		na, nb := needScore(centroids[order[a]]), needScore(centroids[order[b]])
		if na != nb {
			return na > nb
		}
		return order[a] < order[b]
	})

	labels[order[0]] = model.ClusterJusticePriority
	labels[order[k-1]] = model.ClusterHighResponsibility

	middle := order[1 : k-1]
	if len(middle) == 0 {
		return labels
	}

	outlier := middle[0]
	for _, c := range middle[1:] {
		if norm(centroids[c]) > norm(centroids[outlier]) {
			outlier = c
		}
	}
	for _, c := range middle {
		if c == outlier {
			labels[c] = model.ClusterOutlier
		} else {
			labels[c] = model.ClusterTransitional
		}
	}

	return labels
}

func needScore(centroid []float64) float64 {
	return centroid[featPoverty] + centroid[featRevenue] - centroid[featCO2]
}

func norm(centroid []float64) float64 {
	var sum float64
	for _, v := range centroid {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Package cluster groups countries by their normalized indicator profile
// using seeded k-means, then names each cluster from its centroid.
package cluster

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/openclimate/cfi-cli/internal/model"
)

// KMeans is Lloyd's algorithm with deterministic seeding. With a fixed
// Seed, identical inputs produce identical assignments, which the
// byte-identical-export guarantee depends on. Raw cluster IDs still carry
// no meaning across runs; only the derived labels do.
type KMeans struct {
	K             int
	Seed          int64
	MaxIterations int
}

// Fit clusters the points and returns per-point assignments and the final
// centroids. Ties in distance resolve to the lowest cluster index, and an
// emptied cluster is reseeded to the point farthest from its centroid, so
// the whole procedure is deterministic given the seed.
func (km KMeans) Fit(points [][]float64) ([]int, [][]float64) {
	n := len(points)
	if n == 0 {
		return nil, nil
	}

	k := km.K
	if k < 1 {
		k = 1
	}
	if k > n {
		zap.L().Warn("fewer points than clusters, reducing k",
			zap.Int("k", km.K),
			zap.Int("points", n),
		)
		k = n
	}

	maxIter := km.MaxIterations
	if maxIter < 1 {
		maxIter = 100
	}

	rng := rand.New(rand.NewSource(km.Seed))

	dims := len(points[0])
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = append([]float64(nil), points[idx]...)
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		// Recompute centroids as cluster means.
		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := assign[i]
			counts[c]++
			for d, v := range p {
				next[c][d] += v
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// Reseed an emptied cluster to the farthest point.
				next[c] = append([]float64(nil), points[farthestPoint(points, assign, centroids)]...)
				continue
			}
			for d := range next[c] {
				next[c][d] /= float64(counts[c])
			}
		}
		centroids = next
	}

	return assign, centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func farthestPoint(points [][]float64, assign []int, centroids [][]float64) int {
	best := 0
	bestDist := -1.0
	for i, p := range points {
		if d := sqDist(p, centroids[assign[i]]); d > bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Assign clusters the records in place over their z-score features and
// applies the centroid-derived semantic labels.
func Assign(records []model.CountryRecord, km KMeans) {
	if len(records) == 0 {
		return
	}

	points := make([][]float64, len(records))
	for i := range records {
		points[i] = records[i].Features()
	}

	assign, centroids := km.Fit(points)
	labels := LabelCentroids(centroids)

	for i := range records {
		records[i].Cluster = assign[i]
		records[i].ClusterLabel = labels[assign[i]]
	}

	zap.L().Info("clustered countries",
		zap.Int("k", len(centroids)),
		zap.Int64("seed", km.Seed),
		zap.Int("countries", len(records)),
	)
}

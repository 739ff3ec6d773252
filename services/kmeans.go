package services

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const kMeansMaxIter = 100

// kMeans partitions the rows of data into k clusters: kmeans++ seeding
// followed by Lloyd iterations, all randomness drawn from the given seed so
// the assignment is reproducible. Labels are arbitrary ids in [0, k).
// Callers must guarantee len(data) >= k.
func kMeans(data [][]float64, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	dims := len(data[0])

	centroids := initialCentroids(data, k, rng)
	labels := make([]int, len(data))

	for iter := 0; iter < kMeansMaxIter; iter++ {
		changed := false
		for i, row := range data {
			best := nearestCentroid(row, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids; a cluster that lost all its points keeps its
		// previous centroid.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, row := range data {
			floats.Add(sums[labels[i]], row)
			counts[labels[i]]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	return labels
}

// initialCentroids is kmeans++: the first centroid uniform at random, each
// next one weighted by squared distance to the nearest chosen centroid.
func initialCentroids(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := append([]float64{}, data[rng.Intn(len(data))]...)
	centroids = append(centroids, first)

	dist2 := make([]float64, len(data))
	for len(centroids) < k {
		var total float64
		for i, row := range data {
			d := floats.Distance(row, centroids[len(centroids)-1], 2)
			d2 := d * d
			if len(centroids) == 1 || d2 < dist2[i] {
				dist2[i] = d2
			}
			total += dist2[i]
		}

		next := len(data) - 1
		if total > 0 {
			r := rng.Float64() * total
			for i, d2 := range dist2 {
				r -= d2
				if r <= 0 {
					next = i
					break
				}
			}
		} else {
			// All remaining points coincide with a centroid.
			next = rng.Intn(len(data))
		}
		centroids = append(centroids, append([]float64{}, data[next]...))
	}
	return centroids
}

func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(row, centroid, 2); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

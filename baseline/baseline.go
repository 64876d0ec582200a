// Package baseline provides simple episode-consuming classifiers: a
// nearest-centroid model (the prototypical-network baseline without a
// learned embedding) and a k-nearest-neighbour model. Both satisfy
// eval.Classifier, so they slot straight into the episodic evaluator and
// give a floor any learned meta-learner should beat.
package baseline

import (
	"fmt"

	"github.com/G-Wang/learn2learn/fewshot"
)

// NearestCentroid classifies a feature vector by the nearest per-class mean
// of the support episode.
type NearestCentroid[L comparable] struct {
	centroids [][]float32
	dim       int
}

// NewNearestCentroid creates an unfitted nearest-centroid classifier.
func NewNearestCentroid[L comparable]() *NearestCentroid[L] {
	return &NearestCentroid[L]{}
}

// Fit computes one centroid per dense label of the support episode.
func (c *NearestCentroid[L]) Fit(support *fewshot.Episode[[]float32, L]) error {
	if support == nil || support.Len() == 0 {
		return fmt.Errorf("support episode is empty")
	}
	dim := len(support.Data[0])
	ways := support.Ways()

	sums := make([][]float64, ways)
	counts := make([]int, ways)
	for i := range sums {
		sums[i] = make([]float64, dim)
	}

	for i := range support.Len() {
		features, label, err := support.Example(i)
		if err != nil {
			return fmt.Errorf("failed to read support example %d: %w", i, err)
		}
		if len(features) != dim {
			return fmt.Errorf("inconsistent feature dimensions at example %d: expected %d, got %d",
				i, dim, len(features))
		}
		if label < 0 || label >= ways {
			return fmt.Errorf("dense label %d outside 0..%d at example %d", label, ways-1, i)
		}
		for j, v := range features {
			sums[label][j] += float64(v)
		}
		counts[label]++
	}

	centroids := make([][]float32, ways)
	for label := range ways {
		if counts[label] == 0 {
			return fmt.Errorf("dense label %d has no support examples", label)
		}
		centroids[label] = make([]float32, dim)
		for j := range dim {
			centroids[label][j] = float32(sums[label][j] / float64(counts[label]))
		}
	}

	c.centroids = centroids
	c.dim = dim
	return nil
}

// Predict returns the dense label of the centroid nearest to features.
func (c *NearestCentroid[L]) Predict(features []float32) (int, error) {
	if c.centroids == nil {
		return 0, fmt.Errorf("classifier has not been fitted")
	}
	if len(features) != c.dim {
		return 0, fmt.Errorf("feature dimension %d does not match fitted dimension %d", len(features), c.dim)
	}

	best := 0
	bestDist := squaredDistance(features, c.centroids[0])
	for label := 1; label < len(c.centroids); label++ {
		if d := squaredDistance(features, c.centroids[label]); d < bestDist {
			best = label
			bestDist = d
		}
	}
	return best, nil
}

// KNN classifies a feature vector by majority vote among its K nearest
// support examples, breaking ties toward the closer neighbour.
type KNN[L comparable] struct {
	// K is the neighbourhood size (default 1 if left zero at Fit time).
	K int

	points [][]float32
	labels []int
	dim    int
}

// NewKNN creates an unfitted k-nearest-neighbour classifier.
func NewKNN[L comparable](k int) (*KNN[L], error) {
	if k < 0 {
		return nil, fmt.Errorf("k must be >= 0, got %d", k)
	}
	return &KNN[L]{K: k}, nil
}

// Fit stores the support episode as the neighbour pool.
func (c *KNN[L]) Fit(support *fewshot.Episode[[]float32, L]) error {
	if support == nil || support.Len() == 0 {
		return fmt.Errorf("support episode is empty")
	}
	dim := len(support.Data[0])

	points := make([][]float32, support.Len())
	labels := make([]int, support.Len())
	for i := range support.Len() {
		features, label, err := support.Example(i)
		if err != nil {
			return fmt.Errorf("failed to read support example %d: %w", i, err)
		}
		if len(features) != dim {
			return fmt.Errorf("inconsistent feature dimensions at example %d: expected %d, got %d",
				i, dim, len(features))
		}
		points[i] = features
		labels[i] = label
	}

	c.points = points
	c.labels = labels
	c.dim = dim
	return nil
}

// Predict votes among the K nearest stored support examples.
func (c *KNN[L]) Predict(features []float32) (int, error) {
	if c.points == nil {
		return 0, fmt.Errorf("classifier has not been fitted")
	}
	if len(features) != c.dim {
		return 0, fmt.Errorf("feature dimension %d does not match fitted dimension %d", len(features), c.dim)
	}

	k := c.K
	if k == 0 {
		k = 1
	}
	if k > len(c.points) {
		k = len(c.points)
	}

	type neighbour struct {
		dist  float64
		label int
	}
	// Support pools are ways*shots points, small enough that a partial
	// selection pass beats maintaining a heap.
	nearest := make([]neighbour, 0, k)
	for i, p := range c.points {
		d := squaredDistance(features, p)
		if len(nearest) < k {
			nearest = append(nearest, neighbour{d, c.labels[i]})
			continue
		}
		worst := 0
		for j := 1; j < len(nearest); j++ {
			if nearest[j].dist > nearest[worst].dist {
				worst = j
			}
		}
		if d < nearest[worst].dist {
			nearest[worst] = neighbour{d, c.labels[i]}
		}
	}

	votes := make(map[int]int)
	closest := make(map[int]float64)
	for _, n := range nearest {
		votes[n.label]++
		if cur, ok := closest[n.label]; !ok || n.dist < cur {
			closest[n.label] = n.dist
		}
	}

	best := nearest[0].label
	for label, count := range votes {
		switch {
		case count > votes[best]:
			best = label
		case count == votes[best] && closest[label] < closest[best]:
			best = label
		}
	}
	return best, nil
}

func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return sum
}

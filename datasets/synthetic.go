package datasets

import (
	"fmt"
	"math/rand"

	"github.com/G-Wang/learn2learn/fewshot"
)

// BlobsDataset is an in-memory classification dataset of Gaussian clusters,
// one cluster per class. Class k's points are drawn around a centroid
// placed at (k*Separation, k*Separation, ...), with per-coordinate Gaussian
// noise of standard deviation Spread, so classes stay separable for
// reasonable Separation/Spread ratios.
type BlobsDataset struct {
	features  [][]float32
	labels    []int
	centroids [][]float32
	dim       int
}

var _ fewshot.Labeled[[]float32, int] = (*BlobsDataset)(nil)

// BlobsConfig holds tunables for NewBlobsDataset. Zero values get sensible
// defaults.
type BlobsConfig struct {
	// Classes is the number of clusters (default 5).
	Classes int

	// PerClass is the number of points per cluster (default 20).
	PerClass int

	// Dim is the feature dimensionality (default 2).
	Dim int

	// Separation is the distance between adjacent centroids along every
	// axis (default 10).
	Separation float64

	// Spread is the per-coordinate Gaussian standard deviation (default 1).
	Spread float64

	// Seed for the generating RNG. Zero means a fixed default seed, so two
	// zero-config datasets are identical.
	Seed int64
}

// NewBlobsDataset generates a BlobsDataset from cfg.
func NewBlobsDataset(cfg BlobsConfig) (*BlobsDataset, error) {
	if cfg.Classes == 0 {
		cfg.Classes = 5
	}
	if cfg.PerClass == 0 {
		cfg.PerClass = 20
	}
	if cfg.Dim == 0 {
		cfg.Dim = 2
	}
	if cfg.Separation == 0 {
		cfg.Separation = 10
	}
	if cfg.Spread == 0 {
		cfg.Spread = 1
	}
	if cfg.Classes < 1 || cfg.PerClass < 1 || cfg.Dim < 1 {
		return nil, fmt.Errorf("classes, per-class count and dim must be >= 1")
	}

	rng := rand.New(rand.NewSource(cfg.Seed + 1))

	d := &BlobsDataset{
		features:  make([][]float32, 0, cfg.Classes*cfg.PerClass),
		labels:    make([]int, 0, cfg.Classes*cfg.PerClass),
		centroids: make([][]float32, cfg.Classes),
		dim:       cfg.Dim,
	}
	for class := range cfg.Classes {
		centroid := make([]float32, cfg.Dim)
		for j := range centroid {
			centroid[j] = float32(float64(class) * cfg.Separation)
		}
		d.centroids[class] = centroid

		for range cfg.PerClass {
			point := make([]float32, cfg.Dim)
			for j := range point {
				point[j] = centroid[j] + float32(rng.NormFloat64()*cfg.Spread)
			}
			d.features = append(d.features, point)
			d.labels = append(d.labels, class)
		}
	}
	return d, nil
}

// Len returns the number of generated points.
func (d *BlobsDataset) Len() int { return len(d.features) }

// Example returns the point and class label at position i.
func (d *BlobsDataset) Example(i int) ([]float32, int, error) {
	if i < 0 || i >= len(d.features) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", i, len(d.features))
	}
	return d.features[i], d.labels[i], nil
}

// NumFeatures returns the dimensionality of the points.
func (d *BlobsDataset) NumFeatures() int { return d.dim }

// Centroid returns the true centroid of the given class.
func (d *BlobsDataset) Centroid(class int) ([]float32, error) {
	if class < 0 || class >= len(d.centroids) {
		return nil, fmt.Errorf("class %d out of range [0, %d)", class, len(d.centroids))
	}
	return d.centroids[class], nil
}

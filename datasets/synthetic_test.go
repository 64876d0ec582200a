package datasets

import (
	"math"
	"testing"

	"github.com/G-Wang/learn2learn/fewshot"
)

// TestBlobsDatasetShape verifies the generated point counts, labels and
// dimensionality.
func TestBlobsDatasetShape(t *testing.T) {
	ds, err := NewBlobsDataset(BlobsConfig{Classes: 3, PerClass: 10, Dim: 4})
	if err != nil {
		t.Fatalf("NewBlobsDataset failed: %v", err)
	}
	if ds.Len() != 30 {
		t.Fatalf("Len() = %d, want 30", ds.Len())
	}
	if ds.NumFeatures() != 4 {
		t.Fatalf("NumFeatures() = %d, want 4", ds.NumFeatures())
	}

	counts := make(map[int]int)
	for i := range ds.Len() {
		point, label, err := ds.Example(i)
		if err != nil {
			t.Fatalf("Example(%d) error: %v", i, err)
		}
		if len(point) != 4 {
			t.Fatalf("point %d has %d coordinates, want 4", i, len(point))
		}
		counts[label]++
	}
	for class := range 3 {
		if counts[class] != 10 {
			t.Fatalf("class %d holds %d points, want 10", class, counts[class])
		}
	}
}

// TestBlobsDatasetSeparation verifies points stay near their class centroid
// for a default separation/spread ratio.
func TestBlobsDatasetSeparation(t *testing.T) {
	ds, err := NewBlobsDataset(BlobsConfig{Classes: 4, PerClass: 25, Seed: 3})
	if err != nil {
		t.Fatalf("NewBlobsDataset failed: %v", err)
	}

	for i := range ds.Len() {
		point, label, err := ds.Example(i)
		if err != nil {
			t.Fatalf("Example(%d) error: %v", i, err)
		}
		centroid, err := ds.Centroid(label)
		if err != nil {
			t.Fatalf("Centroid(%d) error: %v", label, err)
		}
		var dist float64
		for j := range point {
			d := float64(point[j] - centroid[j])
			dist += d * d
		}
		// 5 sigma per coordinate is far beyond plausible for spread 1.
		if math.Sqrt(dist) > 5*math.Sqrt(float64(len(point))) {
			t.Fatalf("point %d strayed %.2f from its centroid", i, math.Sqrt(dist))
		}
	}
}

// TestBlobsDatasetDeterministic verifies two datasets built from the same
// config are identical.
func TestBlobsDatasetDeterministic(t *testing.T) {
	a, err := NewBlobsDataset(BlobsConfig{Seed: 7})
	if err != nil {
		t.Fatalf("NewBlobsDataset failed: %v", err)
	}
	b, err := NewBlobsDataset(BlobsConfig{Seed: 7})
	if err != nil {
		t.Fatalf("NewBlobsDataset failed: %v", err)
	}
	for i := range a.Len() {
		pa, la, _ := a.Example(i)
		pb, lb, _ := b.Example(i)
		if la != lb {
			t.Fatalf("labels diverge at point %d", i)
		}
		for j := range pa {
			if pa[j] != pb[j] {
				t.Fatalf("points diverge at %d under the same seed", i)
			}
		}
	}
}

func TestBlobsDatasetWithSampler(t *testing.T) {
	ds, err := NewBlobsDataset(BlobsConfig{Classes: 6, PerClass: 8, Seed: 5})
	if err != nil {
		t.Fatalf("NewBlobsDataset failed: %v", err)
	}
	idx, err := fewshot.NewIndexedDataset[[]float32, int](ds)
	if err != nil {
		t.Fatalf("NewIndexedDataset failed: %v", err)
	}
	gen, err := fewshot.NewTaskGenerator(idx, nil, 5)
	if err != nil {
		t.Fatalf("NewTaskGenerator failed: %v", err)
	}
	episode, err := gen.Sample(4)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if episode.Len() != 20 {
		t.Fatalf("episode length = %d, want 20", episode.Len())
	}
}

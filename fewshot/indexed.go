package fewshot

import "fmt"

// IndexedDataset wraps a Labeled dataset with a map from label to the
// positions carrying that label. Building the index costs one full scan of
// the wrapped dataset; after that, looking up the candidate positions for a
// class is a map access.
//
// The index is built once at construction and never refreshed. Mutating the
// wrapped dataset afterwards leaves the index stale; behavior is then
// undefined.
type IndexedDataset[T any, L comparable] struct {
	src Labeled[T, L]

	// labelToIndices maps each label to the ordered positions (dataset scan
	// order) that carry it. Together the value lists partition 0..Len()-1.
	labelToIndices map[L][]int

	// labels holds the distinct labels in first-seen scan order.
	labels []L
}

// NewIndexedDataset scans src once and builds the label index. Runs in O(n)
// time and O(n) auxiliary space. Errors from src.Example abort the scan.
func NewIndexedDataset[T any, L comparable](src Labeled[T, L]) (*IndexedDataset[T, L], error) {
	if src == nil {
		return nil, fmt.Errorf("source dataset cannot be nil")
	}
	d := &IndexedDataset[T, L]{
		src:            src,
		labelToIndices: make(map[L][]int),
	}
	n := src.Len()
	for i := 0; i < n; i++ {
		_, label, err := src.Example(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read example %d while indexing: %w", i, err)
		}
		if _, seen := d.labelToIndices[label]; !seen {
			d.labels = append(d.labels, label)
		}
		d.labelToIndices[label] = append(d.labelToIndices[label], i)
	}
	return d, nil
}

// Len returns the length of the wrapped dataset.
func (d *IndexedDataset[T, L]) Len() int { return d.src.Len() }

// Example delegates to the wrapped dataset.
func (d *IndexedDataset[T, L]) Example(i int) (T, L, error) {
	return d.src.Example(i)
}

// Labels returns the distinct labels of the wrapped dataset in first-seen
// order. The returned slice is owned by the dataset; callers must not
// modify it.
func (d *IndexedDataset[T, L]) Labels() []L { return d.labels }

// NumClasses returns the number of distinct labels.
func (d *IndexedDataset[T, L]) NumClasses() int { return len(d.labels) }

// Contains reports whether label occurs in the wrapped dataset.
func (d *IndexedDataset[T, L]) Contains(label L) bool {
	_, ok := d.labelToIndices[label]
	return ok
}

// Indices returns the positions carrying the given label, in dataset scan
// order, or nil for an unknown label. The returned slice is owned by the
// dataset; callers must not modify it.
func (d *IndexedDataset[T, L]) Indices(label L) []int {
	return d.labelToIndices[label]
}

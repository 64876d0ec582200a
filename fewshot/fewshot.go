// Package fewshot samples N-way K-shot episodes from a labeled dataset for
// meta-learning pipelines.
//
// The package is built around three pieces, in dependency order:
//
//   - IndexedDataset wraps any Labeled collection and builds a map from label
//     to the positions carrying that label, so examples of one class can be
//     drawn cheaply.
//   - LabelEncoder maps a list of sampled classes to dense 0-based indices,
//     which downstream loss functions expect.
//   - TaskGenerator combines the two: each Sample call picks `ways` classes,
//     draws `shots` examples per class without replacement, and returns the
//     result as an Episode.
//
// Episodes themselves implement Labeled, so they can be wrapped, re-indexed
// or fed to anything that consumes the same two-method dataset contract.
package fewshot

import "fmt"

// Labeled is the minimal contract this package requires from an underlying
// dataset: a known finite length and positional access to (data, label)
// pairs. The label type must be comparable so it can key the class index.
type Labeled[T any, L comparable] interface {
	// Len returns the number of examples in the dataset.
	Len() int

	// Example returns the data payload and label stored at position i.
	Example(i int) (data T, label L, err error)
}

var (
	_ Labeled[int, string] = (*SliceDataset[int, string])(nil)
	_ Labeled[int, string] = (*IndexedDataset[int, string])(nil)
	_ Labeled[int, int]    = (*Episode[int, string])(nil)
)

// SliceDataset is an in-memory Labeled backed by two parallel slices.
type SliceDataset[T any, L comparable] struct {
	data   []T
	labels []L
}

// NewSliceDataset builds a SliceDataset from parallel data and label slices.
// The slices must have equal length; they are referenced, not copied.
func NewSliceDataset[T any, L comparable](data []T, labels []L) (*SliceDataset[T, L], error) {
	if len(data) != len(labels) {
		return nil, fmt.Errorf("data and label lengths don't match: %d != %d", len(data), len(labels))
	}
	return &SliceDataset[T, L]{data: data, labels: labels}, nil
}

// Len returns the number of examples.
func (d *SliceDataset[T, L]) Len() int { return len(d.data) }

// Example returns the (data, label) pair at position i.
func (d *SliceDataset[T, L]) Example(i int) (T, L, error) {
	if i < 0 || i >= len(d.data) {
		var zeroT T
		var zeroL L
		return zeroT, zeroL, fmt.Errorf("example %d of %d: %w", i, len(d.data), ErrOutOfRange)
	}
	return d.data[i], d.labels[i], nil
}

package fewshot

import (
	"errors"
	"fmt"
	"testing"
)

// newTestDataset builds a small in-memory dataset where the data payload at
// position i is simply i, with the given labels.
func newTestDataset(t *testing.T, labels []int) *SliceDataset[int, int] {
	t.Helper()
	data := make([]int, len(labels))
	for i := range data {
		data[i] = i
	}
	ds, err := NewSliceDataset(data, labels)
	if err != nil {
		t.Fatalf("NewSliceDataset failed: %v", err)
	}
	return ds
}

// TestIndexedDatasetPartition verifies that the per-label index lists,
// taken together, cover every position exactly once.
func TestIndexedDatasetPartition(t *testing.T) {
	labels := []int{0, 0, 0, 1, 1, 1, 2, 2, 2, 2}
	idx, err := NewIndexedDataset[int, int](newTestDataset(t, labels))
	if err != nil {
		t.Fatalf("NewIndexedDataset failed: %v", err)
	}

	if idx.Len() != len(labels) {
		t.Fatalf("Len() = %d, want %d", idx.Len(), len(labels))
	}
	if idx.NumClasses() != 3 {
		t.Fatalf("NumClasses() = %d, want 3", idx.NumClasses())
	}

	seen := make(map[int]bool)
	for _, label := range idx.Labels() {
		for _, pos := range idx.Indices(label) {
			if seen[pos] {
				t.Fatalf("position %d appears under more than one label", pos)
			}
			seen[pos] = true
			if labels[pos] != label {
				t.Fatalf("position %d indexed under label %d, dataset says %d", pos, label, labels[pos])
			}
		}
	}
	for i := range labels {
		if !seen[i] {
			t.Fatalf("position %d missing from the label index", i)
		}
	}
}

// TestIndexedDatasetLabelOrder verifies labels come back in first-seen scan
// order, not sorted or map order.
func TestIndexedDatasetLabelOrder(t *testing.T) {
	idx, err := NewIndexedDataset[int, int](newTestDataset(t, []int{9, 3, 9, 7, 3}))
	if err != nil {
		t.Fatalf("NewIndexedDataset failed: %v", err)
	}
	want := []int{9, 3, 7}
	got := idx.Labels()
	if len(got) != len(want) {
		t.Fatalf("Labels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Labels() = %v, want %v", got, want)
		}
	}
}

func TestIndexedDatasetDelegates(t *testing.T) {
	idx, err := NewIndexedDataset[int, int](newTestDataset(t, []int{5, 5, 6}))
	if err != nil {
		t.Fatalf("NewIndexedDataset failed: %v", err)
	}
	data, label, err := idx.Example(2)
	if err != nil {
		t.Fatalf("Example(2) error: %v", err)
	}
	if data != 2 || label != 6 {
		t.Fatalf("Example(2) = (%d, %d), want (2, 6)", data, label)
	}
	if !idx.Contains(5) || idx.Contains(4) {
		t.Fatalf("Contains misreports membership")
	}
	if idx.Indices(4) != nil {
		t.Fatalf("Indices of an unknown label should be nil")
	}
}

// failingDataset reports a fixed length but errors on every access.
type failingDataset struct{}

func (failingDataset) Len() int { return 3 }

func (failingDataset) Example(i int) (int, int, error) {
	return 0, 0, fmt.Errorf("backing store unavailable")
}

func TestIndexedDatasetPropagatesSourceErrors(t *testing.T) {
	_, err := NewIndexedDataset[int, int](failingDataset{})
	if err == nil {
		t.Fatalf("expected indexing to fail when the source errors")
	}
}

func TestSliceDatasetLengthMismatch(t *testing.T) {
	if _, err := NewSliceDataset([]int{1, 2}, []int{1}); err == nil {
		t.Fatalf("expected error for mismatched slice lengths")
	}
}

func TestSliceDatasetOutOfRange(t *testing.T) {
	ds := newTestDataset(t, []int{0, 1})
	if _, _, err := ds.Example(2); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

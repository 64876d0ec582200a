package datasets

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/gomlx/gomlx/pkg/ml/train"

	"github.com/G-Wang/learn2learn/fewshot"
)

func newTestStreamGenerator(t *testing.T, ways int) *fewshot.TaskGenerator[[]float32, int] {
	t.Helper()
	ds, err := NewBlobsDataset(BlobsConfig{Classes: 4, PerClass: 6, Dim: 3, Seed: 11})
	if err != nil {
		t.Fatalf("NewBlobsDataset failed: %v", err)
	}
	idx, err := fewshot.NewIndexedDataset[[]float32, int](ds)
	if err != nil {
		t.Fatalf("NewIndexedDataset failed: %v", err)
	}
	gen, err := fewshot.NewTaskGenerator(idx, nil, ways)
	if err != nil {
		t.Fatalf("NewTaskGenerator failed: %v", err)
	}
	gen.SetRand(rand.New(rand.NewSource(1)))
	return gen
}

// TestTaskStreamYield verifies one yielded episode comes back as tensors of
// the expected shapes, with the sampled classes as the spec value.
func TestTaskStreamYield(t *testing.T) {
	stream, err := NewTaskStream(newTestStreamGenerator(t, 2), 3, 0)
	if err != nil {
		t.Fatalf("NewTaskStream failed: %v", err)
	}

	spec, inputs, labels, err := stream.Yield()
	if err != nil {
		t.Fatalf("Yield failed: %v", err)
	}
	if len(inputs) != 1 || len(labels) != 1 {
		t.Fatalf("expected one input and one label tensor, got %d and %d", len(inputs), len(labels))
	}

	inShape := inputs[0].Shape()
	if inShape.Rank() != 2 || inShape.Dimensions[0] != 6 || inShape.Dimensions[1] != 3 {
		t.Fatalf("input tensor shape = %v, want [6 3]", inShape.Dimensions)
	}
	laShape := labels[0].Shape()
	if laShape.Rank() != 1 || laShape.Dimensions[0] != 6 {
		t.Fatalf("label tensor shape = %v, want [6]", laShape.Dimensions)
	}

	classes, ok := spec.([]int)
	if !ok {
		t.Fatalf("spec should carry the episode classes, got %T", spec)
	}
	if len(classes) != 2 {
		t.Fatalf("spec classes = %v, want 2 of them", classes)
	}
}

// TestTaskStreamBoundedEpoch verifies a bounded stream yields exactly Tasks
// episodes, then io.EOF, and starts over after Reset.
func TestTaskStreamBoundedEpoch(t *testing.T) {
	stream, err := NewTaskStream(newTestStreamGenerator(t, 2), 1, 3)
	if err != nil {
		t.Fatalf("NewTaskStream failed: %v", err)
	}

	for i := range 3 {
		if _, _, _, err := stream.Yield(); err != nil {
			t.Fatalf("Yield %d failed: %v", i, err)
		}
	}
	if _, _, _, err := stream.Yield(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after the epoch, got %v", err)
	}

	stream.Reset()
	if _, _, _, err := stream.Yield(); err != nil {
		t.Fatalf("Yield after Reset failed: %v", err)
	}
}

// TestTaskStreamAsTrainDataset drives a TaskStream purely through gomlx's
// train.Dataset interface, the way a training loop consumes it.
func TestTaskStreamAsTrainDataset(t *testing.T) {
	stream, err := NewTaskStream(newTestStreamGenerator(t, 2), 2, 2)
	if err != nil {
		t.Fatalf("NewTaskStream failed: %v", err)
	}

	var ds train.Dataset = stream
	if ds.Name() == "" {
		t.Fatalf("train.Dataset name should not be empty")
	}
	epochs := 0
	for epochs < 2 {
		_, inputs, labels, err := ds.Yield()
		if errors.Is(err, io.EOF) {
			epochs++
			ds.Reset()
			continue
		}
		if err != nil {
			t.Fatalf("Yield failed: %v", err)
		}
		if len(inputs) != 1 || len(labels) != 1 {
			t.Fatalf("expected one input and one label tensor, got %d and %d", len(inputs), len(labels))
		}
	}
}

// TestTaskStreamPropagatesSampleErrors verifies a sampling failure aborts
// the Yield instead of returning a partial batch.
func TestTaskStreamPropagatesSampleErrors(t *testing.T) {
	// Each class only holds 6 points, so 7 shots cannot be drawn.
	stream, err := NewTaskStream(newTestStreamGenerator(t, 2), 7, 0)
	if err != nil {
		t.Fatalf("NewTaskStream failed: %v", err)
	}
	if _, _, _, err := stream.Yield(); !errors.Is(err, fewshot.ErrInsufficientShots) {
		t.Fatalf("expected ErrInsufficientShots, got %v", err)
	}
}

// TestMakeEpisodeBatchFlat verifies the flattening layout.
func TestMakeEpisodeBatchFlat(t *testing.T) {
	episode := &fewshot.Episode[[]float32, int]{
		Data:    [][]float32{{1, 2}, {3, 4}, {5, 6}, {7, 8}},
		Labels:  []int{0, 0, 1, 1},
		Classes: []int{3, 1},
	}
	flat, err := MakeEpisodeBatchFlat(episode)
	if err != nil {
		t.Fatalf("MakeEpisodeBatchFlat failed: %v", err)
	}
	if flat.BatchSize != 4 || flat.InputDim != 2 {
		t.Fatalf("flat batch is [%d, %d], want [4, 2]", flat.BatchSize, flat.InputDim)
	}
	wantInputs := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	for i, want := range wantInputs {
		if flat.Inputs[i] != want {
			t.Fatalf("flat inputs = %v, want %v", flat.Inputs, wantInputs)
		}
	}
	wantLabels := []int32{0, 0, 1, 1}
	for i, want := range wantLabels {
		if flat.Labels[i] != want {
			t.Fatalf("flat labels = %v, want %v", flat.Labels, wantLabels)
		}
	}

	// Ragged payloads must be rejected.
	episode.Data[2] = []float32{5}
	if _, err := MakeEpisodeBatchFlat(episode); err == nil {
		t.Fatalf("expected error for ragged payload dimensions")
	}
}

package main

// Example command that demonstrates the episodic sampling pipeline end to
// end on a synthetic dataset: generate Gaussian blobs, build the label
// index, sample an episode, and stream episodes as gomlx tensors through
// TaskStream.
//
// Usage:
//   go run ./example

import (
	"fmt"
	"log"

	"github.com/G-Wang/learn2learn/datasets"
	"github.com/G-Wang/learn2learn/fewshot"
)

func main() {
	// Synthetic dataset: 6 classes, 15 points each, in 3 dimensions.
	ds, err := datasets.NewBlobsDataset(datasets.BlobsConfig{
		Classes:  6,
		PerClass: 15,
		Dim:      3,
	})
	if err != nil {
		log.Fatalf("failed to generate blobs dataset: %v", err)
	}
	fmt.Printf("Generated %d examples over %d features\n", ds.Len(), ds.NumFeatures())

	// Index by label once; sampling reuses the index on every call.
	indexed, err := fewshot.NewIndexedDataset[[]float32, int](ds)
	if err != nil {
		log.Fatalf("failed to index dataset: %v", err)
	}
	fmt.Printf("Indexed %d classes: %v\n", indexed.NumClasses(), indexed.Labels())

	gen, err := fewshot.NewTaskGenerator(indexed, nil, 3)
	if err != nil {
		log.Fatalf("failed to create task generator: %v", err)
	}

	// One 3-way 2-shot episode.
	episode, err := gen.Sample(2)
	if err != nil {
		log.Fatalf("failed to sample episode: %v", err)
	}
	fmt.Printf("Sampled episode of %d items from classes %v\n", episode.Len(), episode.Classes)
	for i := range episode.Len() {
		data, label, err := episode.Example(i)
		if err != nil {
			log.Fatalf("failed to read episode example %d: %v", i, err)
		}
		fmt.Printf("  item %d: dense label=%d original class=%d features=%v\n",
			i, label, episode.Classes[label], data)
	}

	// Stream two episodes as gomlx tensors, the shape a training loop sees.
	stream, err := datasets.NewTaskStream(gen, 2, 2)
	if err != nil {
		log.Fatalf("failed to create task stream: %v", err)
	}
	for {
		spec, inputs, labels, err := stream.Yield()
		if err != nil {
			break
		}
		fmt.Printf("Yielded episode from classes %v: inputs %v labels %v\n",
			spec, inputs[0].Shape().Dimensions, labels[0].Shape().Dimensions)
	}

	fmt.Println("\nExample completed successfully!")
}

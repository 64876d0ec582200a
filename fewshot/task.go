package fewshot

import (
	"fmt"
	"math/rand"
	"time"
)

// TaskGenerator draws N-way K-shot episodes from an IndexedDataset.
//
// A generator is configured with a class universe (defaults to every label
// of the wrapped dataset) and a way count. Each Sample call draws `ways`
// distinct classes from the universe, then `shots` distinct examples per
// class, and remaps the drawn classes to dense labels 0..ways-1 in draw
// order.
//
// Sample mutates no generator or dataset state beyond advancing the random
// source, so a generator can sit in front of a training loop and be called
// repeatedly. The generator takes no locks: callers sharing one generator
// across goroutines own the thread-safety of its random source.
type TaskGenerator[T any, L comparable] struct {
	ds   *IndexedDataset[T, L]
	ways int

	// Classes is the universe Sample draws classes from. It is re-validated
	// against the dataset's labels on every Sample call, so external
	// mutation is tolerated (though not encouraged).
	Classes []L

	// rng is the random source for class and shot draws.
	rng *rand.Rand
}

// NewTaskGenerator creates a TaskGenerator over ds drawing ways classes per
// episode. classes restricts the universe drawn from; nil means all labels
// of ds. Every class must be a label of ds, and there must be at least ways
// of them.
func NewTaskGenerator[T any, L comparable](ds *IndexedDataset[T, L], classes []L, ways int) (*TaskGenerator[T, L], error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset cannot be nil")
	}
	if ways < 1 {
		return nil, fmt.Errorf("ways must be >= 1, got %d", ways)
	}
	if classes == nil {
		// Copied so callers mutating Classes can't reach into the index.
		classes = append([]L(nil), ds.Labels()...)
	}
	g := &TaskGenerator[T, L]{
		ds:      ds,
		ways:    ways,
		Classes: classes,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if len(classes) < ways {
		return nil, fmt.Errorf("%d classes configured but %d ways requested: %w",
			len(classes), ways, ErrInsufficientClasses)
	}
	if err := g.checkClasses(classes); err != nil {
		return nil, err
	}
	return g, nil
}

// SetRand replaces the generator's random source, e.g. with a fixed-seed
// source for reproducible episodes.
func (g *TaskGenerator[T, L]) SetRand(rng *rand.Rand) { g.rng = rng }

// Ways returns the configured number of classes per episode.
func (g *TaskGenerator[T, L]) Ways() int { return g.ways }

// Dataset returns the wrapped IndexedDataset.
func (g *TaskGenerator[T, L]) Dataset() *IndexedDataset[T, L] { return g.ds }

// Sample draws one episode: ways distinct classes uniformly at random from
// the configured universe, then shots distinct examples per class.
//
// The configured class universe is checked against the dataset's labels on
// every call, so a Classes slice mutated to contain an unknown label fails
// with ErrUnknownClass rather than sampling garbage. A class with fewer
// than shots examples fails the whole call with ErrInsufficientShots; no
// partial episode is returned.
func (g *TaskGenerator[T, L]) Sample(shots int) (*Episode[T, L], error) {
	if err := g.checkClasses(g.Classes); err != nil {
		return nil, err
	}
	if len(g.Classes) < g.ways {
		return nil, fmt.Errorf("%d classes configured but %d ways requested: %w",
			len(g.Classes), g.ways, ErrInsufficientClasses)
	}
	classes, err := sampleWithoutReplacement(g.rng, g.Classes, g.ways)
	if err != nil {
		return nil, err
	}
	return g.sample(classes, shots)
}

// SampleClasses draws one episode over exactly the given classes, in the
// given order, skipping the random class draw. The list may have any size;
// the ways configured at construction does not apply. Remapped labels
// follow list order: classes[k] becomes dense label k.
func (g *TaskGenerator[T, L]) SampleClasses(classes []L, shots int) (*Episode[T, L], error) {
	if err := g.checkClasses(classes); err != nil {
		return nil, err
	}
	// Copy so later mutation of the caller's slice can't alias the episode.
	return g.sample(append([]L(nil), classes...), shots)
}

// sample draws shots examples for each class in order and materializes the
// episode. The classes slice is owned by the callee from here on.
func (g *TaskGenerator[T, L]) sample(classes []L, shots int) (*Episode[T, L], error) {
	if shots < 1 {
		return nil, fmt.Errorf("shots must be >= 1, got %d", shots)
	}
	encoder, err := NewLabelEncoder(classes)
	if err != nil {
		return nil, err
	}

	data := make([]T, 0, len(classes)*shots)
	labels := make([]int, 0, len(classes)*shots)
	for _, class := range classes {
		picked, err := sampleWithoutReplacement(g.rng, g.ds.Indices(class), shots)
		if err != nil {
			return nil, fmt.Errorf("class %v: %w", class, err)
		}
		dense, err := encoder.Index(class)
		if err != nil {
			return nil, err
		}
		for _, position := range picked {
			item, _, err := g.ds.Example(position)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch example %d: %w", position, err)
			}
			data = append(data, item)
			labels = append(labels, dense)
		}
	}

	return &Episode[T, L]{Data: data, Labels: labels, Classes: classes}, nil
}

// checkClasses verifies every class is a label of the wrapped dataset.
func (g *TaskGenerator[T, L]) checkClasses(classes []L) error {
	for _, class := range classes {
		if !g.ds.Contains(class) {
			return fmt.Errorf("class %v is not a label of the dataset: %w", class, ErrUnknownClass)
		}
	}
	return nil
}

// sampleWithoutReplacement draws k distinct elements from pool uniformly at
// random via a partial Fisher-Yates shuffle over a scratch copy. The pool
// itself is left untouched.
func sampleWithoutReplacement[E any](rng *rand.Rand, pool []E, k int) ([]E, error) {
	if k > len(pool) {
		return nil, fmt.Errorf("cannot draw %d of %d candidates without replacement: %w",
			k, len(pool), ErrInsufficientShots)
	}
	scratch := make([]E, len(pool))
	copy(scratch, pool)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(scratch)-i)
		scratch[i], scratch[j] = scratch[j], scratch[i]
	}
	return scratch[:k:k], nil
}

package fewshot

import "fmt"

// Episode is one sampled N-way K-shot mini-dataset. It holds the drawn data
// payloads, a parallel slice of dense remapped labels, and the original
// class labels the episode was drawn from, in draw order.
//
// All shots of one class are contiguous: positions [k*shots, (k+1)*shots)
// carry remapped label k. An Episode implements Labeled[T, int], so it can
// be consumed, wrapped or re-indexed like any other dataset.
//
// Episodes are constructed fresh per sample call and keep no reference to
// the generator or the wrapped dataset.
type Episode[T any, L comparable] struct {
	// Data holds the sampled payloads, ways*shots of them.
	Data []T

	// Labels holds the dense remapped label for each entry of Data.
	Labels []int

	// Classes are the original class labels of this episode in draw order;
	// Classes[k] is the class remapped to dense label k.
	Classes []L
}

// Len returns the number of sampled examples (ways * shots).
func (e *Episode[T, L]) Len() int { return len(e.Data) }

// Example returns the (data, remapped label) pair at position i.
func (e *Episode[T, L]) Example(i int) (T, int, error) {
	if i < 0 || i >= len(e.Data) {
		var zero T
		return zero, 0, fmt.Errorf("example %d of %d: %w", i, len(e.Data), ErrOutOfRange)
	}
	return e.Data[i], e.Labels[i], nil
}

// Ways returns the number of distinct classes in the episode.
func (e *Episode[T, L]) Ways() int { return len(e.Classes) }

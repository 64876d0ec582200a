package fewshot

import "fmt"

// LabelEncoder maps a fixed list of classes to dense 0-based indices and
// back. The dense index of a class is its position in the list the encoder
// was built from, which keeps the remapping deterministic for a fixed
// class-selection order.
type LabelEncoder[L comparable] struct {
	classToIndex map[L]int
	indexToClass []L
}

// NewLabelEncoder builds an encoder over the given classes. The list must
// contain no duplicates; the remapping has to be a bijection.
func NewLabelEncoder[L comparable](classes []L) (*LabelEncoder[L], error) {
	e := &LabelEncoder[L]{
		classToIndex: make(map[L]int, len(classes)),
		indexToClass: make([]L, len(classes)),
	}
	for i, class := range classes {
		if _, dup := e.classToIndex[class]; dup {
			return nil, fmt.Errorf("class %v appears more than once: %w", class, ErrDuplicateClass)
		}
		e.classToIndex[class] = i
		e.indexToClass[i] = class
	}
	return e, nil
}

// Len returns the number of encoded classes.
func (e *LabelEncoder[L]) Len() int { return len(e.indexToClass) }

// Index returns the dense index assigned to class.
func (e *LabelEncoder[L]) Index(class L) (int, error) {
	idx, ok := e.classToIndex[class]
	if !ok {
		return 0, fmt.Errorf("class %v was not encoded: %w", class, ErrUnknownClass)
	}
	return idx, nil
}

// Class returns the original class assigned the given dense index.
func (e *LabelEncoder[L]) Class(index int) (L, error) {
	if index < 0 || index >= len(e.indexToClass) {
		var zero L
		return zero, fmt.Errorf("index %d of %d encoded classes: %w", index, len(e.indexToClass), ErrUnknownClassIndex)
	}
	return e.indexToClass[index], nil
}

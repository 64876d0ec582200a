package fewshot

import "errors"

// Sentinel errors returned by this package. Failure sites wrap them with
// context via fmt.Errorf("...: %w", ...); match with errors.Is.
var (
	// ErrDuplicateClass reports a class list with repeated values; the
	// label remapping must be a bijection.
	ErrDuplicateClass = errors.New("fewshot: duplicate class")

	// ErrInsufficientClasses reports fewer configured classes than ways.
	ErrInsufficientClasses = errors.New("fewshot: not enough classes for the requested ways")

	// ErrUnknownClass reports a class that is not a label of the wrapped
	// dataset, or a label the encoder was not built with.
	ErrUnknownClass = errors.New("fewshot: unknown class")

	// ErrUnknownClassIndex reports a dense index outside the encoder's range.
	ErrUnknownClassIndex = errors.New("fewshot: unknown class index")

	// ErrInsufficientShots reports a class with fewer available examples
	// than the requested shots.
	ErrInsufficientShots = errors.New("fewshot: not enough examples for the requested shots")

	// ErrOutOfRange reports a positional access outside a dataset's bounds.
	ErrOutOfRange = errors.New("fewshot: index out of range")
)

// Package eval measures few-shot classifiers the way meta-learning papers
// report them: accuracy averaged over many randomly drawn episodes, with a
// confidence interval.
//
// Each evaluation task draws a support episode, fits the classifier on it,
// then draws a query episode over the same classes (through the sampler's
// explicit-class path, so the dense label encoding matches) and scores the
// classifier's predictions on it.
package eval

import (
	"errors"
	"fmt"
	"math"

	"github.com/G-Wang/learn2learn/fewshot"
)

// Classifier is a model that can be fit on one support episode and then
// predict dense episode labels for individual feature vectors.
type Classifier[L comparable] interface {
	// Fit trains the classifier on the support episode. Any state from a
	// previous Fit is discarded.
	Fit(support *fewshot.Episode[[]float32, L]) error

	// Predict returns the dense label (0..ways-1 of the fitted episode)
	// for the given feature vector.
	Predict(features []float32) (int, error)
}

// TaskResult holds the score of one evaluation task.
type TaskResult[L comparable] struct {
	// Classes are the original class labels of the task, in draw order.
	Classes []L

	// Correct counts query examples the classifier labeled correctly.
	Correct int

	// Total counts query examples scored.
	Total int
}

// Accuracy returns the fraction of correctly labeled query examples.
func (r TaskResult[L]) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Evaluator runs a classifier over many random episodes drawn from one
// generator.
//
// Support and query episodes are drawn independently from the same class
// index lists, so a support example can reappear in the query set. Keeping
// a held-out dataset behind a separate generator avoids that when it
// matters.
type Evaluator[L comparable] struct {
	gen   *fewshot.TaskGenerator[[]float32, L]
	model Classifier[L]

	// Tunables (exported so callers can set them)
	Tasks      int // number of episodes to evaluate
	Shots      int // support examples per class
	QueryShots int // query examples per class; 0 means same as Shots
}

// NewEvaluator creates an Evaluator scoring model over tasks episodes of
// shots support examples per class drawn from gen.
func NewEvaluator[L comparable](gen *fewshot.TaskGenerator[[]float32, L], model Classifier[L], tasks, shots int) (*Evaluator[L], error) {
	if gen == nil {
		return nil, errors.New("task generator cannot be nil")
	}
	if model == nil {
		return nil, errors.New("classifier cannot be nil")
	}
	if tasks < 1 {
		return nil, fmt.Errorf("tasks must be >= 1, got %d", tasks)
	}
	if shots < 1 {
		return nil, fmt.Errorf("shots must be >= 1, got %d", shots)
	}
	return &Evaluator[L]{gen: gen, model: model, Tasks: tasks, Shots: shots}, nil
}

// Run draws and scores Tasks episodes. A sampling or fitting failure aborts
// the run; results up to that point are discarded.
func (e *Evaluator[L]) Run() ([]TaskResult[L], error) {
	queryShots := e.QueryShots
	if queryShots == 0 {
		queryShots = e.Shots
	}

	results := make([]TaskResult[L], 0, e.Tasks)
	for task := 0; task < e.Tasks; task++ {
		support, err := e.gen.Sample(e.Shots)
		if err != nil {
			return nil, fmt.Errorf("task %d: failed to draw support episode: %w", task, err)
		}
		// Same classes in the same order, so query episodes share the
		// support episode's dense label encoding.
		query, err := e.gen.SampleClasses(support.Classes, queryShots)
		if err != nil {
			return nil, fmt.Errorf("task %d: failed to draw query episode: %w", task, err)
		}

		if err := e.model.Fit(support); err != nil {
			return nil, fmt.Errorf("task %d: failed to fit classifier: %w", task, err)
		}

		result := TaskResult[L]{Classes: support.Classes, Total: query.Len()}
		for i := range query.Len() {
			features, want, err := query.Example(i)
			if err != nil {
				return nil, fmt.Errorf("task %d: failed to read query example %d: %w", task, i, err)
			}
			got, err := e.model.Predict(features)
			if err != nil {
				return nil, fmt.Errorf("task %d: prediction failed on query example %d: %w", task, i, err)
			}
			if got == want {
				result.Correct++
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// Summary aggregates per-task accuracies.
type Summary struct {
	Tasks int

	// Mean is the average per-task accuracy.
	Mean float64

	// Std is the sample standard deviation of per-task accuracies.
	Std float64

	// CI95 is the 95% confidence half-width around Mean (1.96 * Std/sqrt(n)).
	CI95 float64
}

// Summarize reduces task results to mean accuracy with a 95% confidence
// half-width, the usual few-shot reporting format.
func Summarize[L comparable](results []TaskResult[L]) Summary {
	s := Summary{Tasks: len(results)}
	if len(results) == 0 {
		return s
	}

	for _, r := range results {
		s.Mean += r.Accuracy()
	}
	s.Mean /= float64(len(results))

	if len(results) > 1 {
		var ss float64
		for _, r := range results {
			d := r.Accuracy() - s.Mean
			ss += d * d
		}
		s.Std = math.Sqrt(ss / float64(len(results)-1))
		s.CI95 = 1.96 * s.Std / math.Sqrt(float64(len(results)))
	}
	return s
}

package datasets

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"

	"github.com/G-Wang/learn2learn/fewshot"
)

// TaskStream adapts a fewshot.TaskGenerator to gomlx's train.Dataset
// interface. Every Yield samples one fresh episode and returns it as a pair
// of gomlx tensors: inputs shaped [ways*shots, dim] float32 and labels
// shaped [ways*shots] int32. The spec value is the episode's original class
// list, so training loops that care which classes a task was built from can
// recover them.
//
// A stream with Tasks > 0 yields that many episodes per epoch and then
// io.EOF until Reset; Tasks == 0 streams episodes forever.
type TaskStream[L comparable] struct {
	gen   *fewshot.TaskGenerator[[]float32, L]
	shots int

	// Tasks bounds the number of episodes per epoch; 0 means unbounded.
	Tasks int

	count int
}

var _ train.Dataset = (*TaskStream[int])(nil)

// NewTaskStream creates a TaskStream drawing shots examples per class from
// gen. tasks bounds the episodes yielded per epoch; 0 means stream forever.
func NewTaskStream[L comparable](gen *fewshot.TaskGenerator[[]float32, L], shots, tasks int) (*TaskStream[L], error) {
	if gen == nil {
		return nil, fmt.Errorf("task generator cannot be nil")
	}
	if shots < 1 {
		return nil, fmt.Errorf("shots must be >= 1, got %d", shots)
	}
	if tasks < 0 {
		return nil, fmt.Errorf("tasks must be >= 0, got %d", tasks)
	}
	return &TaskStream[L]{gen: gen, shots: shots, Tasks: tasks}, nil
}

// Name returns the name of the dataset
func (s *TaskStream[L]) Name() string {
	return fmt.Sprintf("TaskStream[%d-way %d-shot]", s.gen.Ways(), s.shots)
}

// Reset restarts the epoch so a bounded stream yields episodes again.
func (s *TaskStream[L]) Reset() {
	s.count = 0
}

// Yield samples the next episode and returns it as gomlx tensors. After
// Tasks episodes (when bounded) it returns io.EOF.
func (s *TaskStream[L]) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if s.Tasks > 0 && s.count >= s.Tasks {
		return nil, nil, nil, io.EOF
	}
	episode, err := s.gen.Sample(s.shots)
	if err != nil {
		return nil, nil, nil, err
	}
	s.count++

	flat, err := MakeEpisodeBatchFlat(episode)
	if err != nil {
		return nil, nil, nil, err
	}
	in, la, err := flat.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return episode.Classes, []*tensors.Tensor{in}, []*tensors.Tensor{la}, nil
}

// EpisodeBatchFlat stores one episode in flat contiguous buffers.
type EpisodeBatchFlat struct {
	Inputs    []float32
	Labels    []int32
	BatchSize int
	InputDim  int
}

// MakeEpisodeBatchFlat flattens an episode's float-vector payloads and dense
// labels into contiguous buffers.
func MakeEpisodeBatchFlat[L comparable](episode *fewshot.Episode[[]float32, L]) (*EpisodeBatchFlat, error) {
	if episode.Len() == 0 {
		return &EpisodeBatchFlat{BatchSize: 0, InputDim: 0}, nil
	}

	batchSize := episode.Len()
	inputDim := len(episode.Data[0])

	flatInputs := make([]float32, batchSize*inputDim)
	flatLabels := make([]int32, batchSize)

	for i := range batchSize {
		if len(episode.Data[i]) != inputDim {
			return nil, fmt.Errorf("inconsistent input dimensions at example %d: expected %d, got %d",
				i, inputDim, len(episode.Data[i]))
		}
		copy(flatInputs[i*inputDim:], episode.Data[i])
		flatLabels[i] = int32(episode.Labels[i])
	}

	return &EpisodeBatchFlat{
		Inputs:    flatInputs,
		Labels:    flatLabels,
		BatchSize: batchSize,
		InputDim:  inputDim,
	}, nil
}

// ToGomlxTensors converts EpisodeBatchFlat to gomlx tensors
func (b *EpisodeBatchFlat) ToGomlxTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	// handle empty batch gracefully
	if b.BatchSize == 0 || b.InputDim == 0 {
		inT := tensors.FromAnyValue(make([][]float32, 0))
		labT := tensors.FromAnyValue(make([]int32, 0))
		return inT, labT, nil
	}
	// Reshape flat inputs into a 2D slice
	inputs := make([][]float32, b.BatchSize)
	for i := range b.BatchSize {
		inputs[i] = b.Inputs[i*b.InputDim : (i+1)*b.InputDim]
	}
	inT := tensors.FromAnyValue(inputs)
	labT := tensors.FromAnyValue(b.Labels)
	return inT, labT, nil
}

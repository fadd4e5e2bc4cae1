package conjugate

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"gobayes/domain/core"
	"gobayes/domain/suffstats"
)

// Operator combines two stages' draws elementwise
type Operator int

const (
	Multiply Operator = iota
	Divide
)

func (o Operator) String() string {
	switch o {
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	default:
		return "unknown"
	}
}

// Apply returns a op b elementwise without modifying either input
func (o Operator) Apply(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, core.NewShapeMismatchError("operator operands", len(a), len(b))
	}
	dst := make([]float64, len(a))
	switch o {
	case Multiply:
		floats.MulTo(dst, a, b)
	case Divide:
		floats.DivTo(dst, a, b)
	default:
		return nil, core.NewConfigurationError(fmt.Sprintf("unknown operator %d", int(o)))
	}
	return dst, nil
}

// ChainedModel multiplies (or divides) the draws of consecutive stages,
// e.g. conversion rate times revenue per conversion. Stages are updated
// independently and only coupled when sampling.
type ChainedModel struct {
	stages    []Model
	operators []Operator
}

// NewChainedModel takes ownership of the stages. A nil operators slice
// means Multiply between every pair of stages.
func NewChainedModel(stages []Model, operators []Operator) (*ChainedModel, error) {
	if len(stages) == 0 {
		return nil, core.NewConfigurationError("chained model needs at least one stage")
	}
	for i, s := range stages {
		if s == nil {
			return nil, core.NewConfigurationError(fmt.Sprintf("stage %d is nil", i))
		}
	}
	if operators == nil {
		operators = make([]Operator, len(stages)-1)
	}
	if len(operators) != len(stages)-1 {
		return nil, core.NewShapeMismatchError("chained operators", len(stages)-1, len(operators))
	}
	for _, op := range operators {
		if op != Multiply && op != Divide {
			return nil, core.NewConfigurationError(fmt.Sprintf("unknown operator %d", int(op)))
		}
	}

	return &ChainedModel{
		stages:    append([]Model(nil), stages...),
		operators: append([]Operator(nil), operators...),
	}, nil
}

func (m *ChainedModel) Kind() Kind { return KindChained }

// NumStages returns the number of chained stages
func (m *ChainedModel) NumStages() int { return len(m.stages) }

// Stage returns stage i; callers must not update it directly
func (m *ChainedModel) Stage(i int) Model { return m.stages[i] }

// Update needs a suffstats.Staged with one entry per stage in stage order.
// Either every stage takes its update or none does.
func (m *ChainedModel) Update(s suffstats.Statistics) error {
	staged, ok := s.(suffstats.Staged)
	if !ok {
		return wrongFamily(m.Kind(), s)
	}
	if staged.Len() != len(m.stages) {
		return core.NewShapeMismatchError("stage statistics", len(m.stages), staged.Len())
	}

	next := make([]Model, len(m.stages))
	for i, stage := range m.stages {
		next[i] = stage.Clone()
		if err := next[i].Update(staged.Stage(i)); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}
	m.stages = next
	return nil
}

// Sample draws every stage with the same count and folds them left to right
func (m *ChainedModel) Sample(numSamples int, src rand.Source) (Draws, error) {
	if err := checkNumSamples(numSamples); err != nil {
		return Draws{}, err
	}

	first, err := m.stages[0].Sample(numSamples, src)
	if err != nil {
		return Draws{}, fmt.Errorf("stage 0: %w", err)
	}
	acc := first.Mean
	for i, op := range m.operators {
		next, err := m.stages[i+1].Sample(numSamples, src)
		if err != nil {
			return Draws{}, fmt.Errorf("stage %d: %w", i+1, err)
		}
		acc, err = op.Apply(acc, next.Mean)
		if err != nil {
			return Draws{}, fmt.Errorf("stage %d: %w", i+1, err)
		}
	}
	return Draws{Mean: acc}, nil
}

func (m *ChainedModel) Clone() Model {
	stages := make([]Model, len(m.stages))
	for i, s := range m.stages {
		stages[i] = s.Clone()
	}
	return &ChainedModel{
		stages:    stages,
		operators: append([]Operator(nil), m.operators...),
	}
}

func (*ChainedModel) isModel() {}

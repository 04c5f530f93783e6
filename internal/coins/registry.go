package coins

import (
	"fmt"
	"strings"
)

// Algorithm names a registered solver.
type Algorithm string

const (
	BranchAndBound     Algorithm = "branch-and-bound"
	DynamicProgramming Algorithm = "dynamic-programming"
	DynamicTable       Algorithm = "dynamic-programming-table"
	Backtracking       Algorithm = "backtracking"
	Greedy             Algorithm = "greedy"
)

var aliases = map[string]Algorithm{
	"bnb": BranchAndBound,
	"bb":  BranchAndBound,
	"dp":  DynamicProgramming,
	"dpt": DynamicTable,
	"bt":  Backtracking,
}

// Algorithms returns every registered algorithm, core solver first.
func Algorithms() []Algorithm {
	return []Algorithm{BranchAndBound, DynamicProgramming, DynamicTable, Backtracking, Greedy}
}

// ParseAlgorithm resolves a name or short alias, case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alg, ok := aliases[key]; ok {
		return alg, nil
	}
	for _, alg := range Algorithms() {
		if string(alg) == key {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// NewSolver constructs the solver registered under alg.
func NewSolver(alg Algorithm, opts ...Option) (Solver, error) {
	switch alg {
	case BranchAndBound:
		return NewBranchAndBound(opts...), nil
	case DynamicProgramming:
		return NewDynamicProgramming(), nil
	case DynamicTable:
		return NewDynamicProgrammingTable(), nil
	case Backtracking:
		return NewBacktracking(opts...), nil
	case Greedy:
		return NewGreedy(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

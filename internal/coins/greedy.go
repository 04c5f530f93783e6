package coins

import "context"

type greedy struct{}

// NewGreedy creates a Solver that repeatedly takes as many of the largest
// coin as still fit. Results are only reported as optimal for canonical
// chains; see IsCanonicalChain.
func NewGreedy() Solver {
	return &greedy{}
}

func (g *greedy) MinCoins(_ context.Context, amount int, denominations []int) (Result, error) {
	denoms, err := validateInput(amount, denominations)
	if err != nil {
		return Result{}, err
	}

	counts := make([]int, len(denoms))
	remaining := amount
	for i := len(denoms) - 1; i >= 0 && remaining > 0; i-- {
		counts[i] = remaining / denoms[i]
		remaining %= denoms[i]
	}
	if remaining != 0 {
		return Result{}, ErrNoSolution
	}

	res := newResult(denoms, counts)
	res.Optimal = IsCanonicalChain(denoms)
	return res, nil
}

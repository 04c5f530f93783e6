package coins

import (
	"context"
	"fmt"
)

// MaxTableAmount is the largest amount the dynamic programming solver builds
// a table for. Each table entry costs two machine words.
const MaxTableAmount = 10_000_000

type dynamicProgramming struct{}

// NewDynamicProgramming creates a Solver based on dynamic programming over
// every amount up to the target. It does not need the unit coin.
func NewDynamicProgramming() Solver {
	return &dynamicProgramming{}
}

func (c *dynamicProgramming) MinCoins(ctx context.Context, amount int, denominations []int) (Result, error) {
	denoms, err := validateInput(amount, denominations)
	if err != nil {
		return Result{}, err
	}
	if amount == 0 {
		return Result{Coins: map[int]int{}, Optimal: true}, nil
	}
	if amount > MaxTableAmount {
		return Result{}, ErrAmountTooLarge
	}
	if amount < denoms[0] {
		return Result{}, ErrNoSolution
	}

	dp := make([]int, amount+1)
	choice := make([]int, amount+1)
	inf := amount + 1

	for i := 1; i <= amount; i++ {
		dp[i] = inf
		choice[i] = -1
	}

	for idx, coin := range denoms {
		for value := coin; value <= amount; value++ {
			if (value-coin)%defaultCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return Result{}, fmt.Errorf("%w: %w", ErrSearchInterrupted, err)
				}
			}
			prev := value - coin
			if dp[prev]+1 < dp[value] {
				dp[value] = dp[prev] + 1
				choice[value] = idx
			}
		}
	}

	if choice[amount] == -1 {
		return Result{}, ErrNoSolution
	}

	counts := make([]int, len(denoms))
	for remaining := amount; remaining > 0; {
		idx := choice[remaining]
		if idx < 0 {
			return Result{}, ErrNoSolution
		}
		counts[idx]++
		remaining -= denoms[idx]
	}

	res := newResult(denoms, counts)
	res.Optimal = true
	return res, nil
}

package coins

import (
	"context"
	"fmt"
	"math"
)

// maxTableCells bounds the denominations-by-amount table built by
// NewDynamicProgrammingTable.
const maxTableCells = 20_000_000

type dynamicProgrammingTable struct{}

// NewDynamicProgrammingTable creates a Solver that fills a table indexed by
// the number of usable denominations and the amount, then walks it back to
// recover the breakdown. It trades memory for a reconstruction that needs no
// extra bookkeeping.
func NewDynamicProgrammingTable() Solver {
	return &dynamicProgrammingTable{}
}

func (c *dynamicProgrammingTable) MinCoins(ctx context.Context, amount int, denominations []int) (Result, error) {
	denoms, err := validateInput(amount, denominations)
	if err != nil {
		return Result{}, err
	}
	if amount == 0 {
		return Result{Coins: map[int]int{}, Optimal: true}, nil
	}
	if amount > MaxTableAmount || amount+1 > maxTableCells/(len(denoms)+1) {
		return Result{}, ErrAmountTooLarge
	}

	const unreachable = math.MaxInt
	n := len(denoms)

	// table[i][j] is the fewest coins paying j with the first i denominations.
	table := make([][]int, n+1)
	table[0] = make([]int, amount+1)
	for j := 1; j <= amount; j++ {
		table[0][j] = unreachable
	}

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrSearchInterrupted, err)
		}
		coin := denoms[i-1]
		row, above := make([]int, amount+1), table[i-1]
		for j := 1; j <= amount; j++ {
			row[j] = above[j]
			if coin <= j && row[j-coin] != unreachable {
				row[j] = min(row[j], row[j-coin]+1)
			}
		}
		table[i] = row
	}

	if table[n][amount] == unreachable {
		return Result{}, ErrNoSolution
	}

	counts := make([]int, n)
	for i, j := n, amount; j > 0; {
		coin := denoms[i-1]
		if coin <= j && table[i][j] != table[i-1][j] {
			counts[i-1]++
			j -= coin
			continue
		}
		i--
	}

	res := newResult(denoms, counts)
	res.Optimal = true
	return res, nil
}

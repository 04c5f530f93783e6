package coins

import "context"

// Result describes how an amount is paid.
// Coins only carries denominations with a non-zero count.
type Result struct {
	Coins        map[int]int
	TotalCoins   int
	TotalAmount  int
	FrontierPeak int
	Optimal      bool
}

// Solver describes the behaviour required from a coin change solver.
type Solver interface {
	MinCoins(ctx context.Context, amount int, denominations []int) (Result, error)
}

func newResult(denominations, counts []int) Result {
	res := Result{Coins: make(map[int]int, len(denominations))}
	for i, count := range counts {
		if count == 0 {
			continue
		}
		res.Coins[denominations[i]] = count
		res.TotalCoins += count
		res.TotalAmount += count * denominations[i]
	}
	return res
}

package coins

import (
	"context"
	"fmt"
	"slices"
)

const defaultCheckInterval = 4096

// Option configures a search-based solver.
type Option func(*searchOptions)

type searchOptions struct {
	checkInterval int
}

// WithCheckInterval sets how many units of search work (node expansions and
// generated children) happen between context checks. Values below 1 are
// ignored.
func WithCheckInterval(n int) Option {
	return func(o *searchOptions) {
		if n >= 1 {
			o.checkInterval = n
		}
	}
}

func applyOptions(opts []Option) searchOptions {
	o := searchOptions{checkInterval: defaultCheckInterval}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type branchAndBound struct {
	opts searchOptions
}

// NewBranchAndBound creates a Solver running a best-first branch-and-bound
// search. The denominations must include the unit coin.
func NewBranchAndBound(opts ...Option) Solver {
	return &branchAndBound{opts: applyOptions(opts)}
}

// Solve pays amount with the fewest coins using branch-and-bound.
func Solve(denominations []int, amount int) (Result, error) {
	return NewBranchAndBound().MinCoins(context.Background(), amount, denominations)
}

func (s *branchAndBound) MinCoins(ctx context.Context, amount int, denominations []int) (Result, error) {
	denoms, err := validateInput(amount, denominations)
	if err != nil {
		return Result{}, err
	}
	if denoms[0] != 1 {
		return Result{}, ErrMissingUnitCoin
	}
	return s.search(ctx, denoms, amount)
}

func (s *branchAndBound) search(ctx context.Context, denoms []int, amount int) (Result, error) {
	if amount == 0 {
		return Result{Coins: map[int]int{}, Optimal: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return interrupted(denoms, nil, 0, err)
	}

	top := len(denoms) - 1
	best := pessimisticBound(amount, 0, 0)

	var bestCounts []int
	root := node{
		counts:   make([]int, len(denoms)),
		level:    top,
		estimate: optimisticBound(amount, 0, 0, denoms[top]),
	}

	queue := &frontier{}
	queue.push(root)
	peak := 0
	poll := checkpoint{ctx: ctx, every: s.opts.checkInterval}

	for queue.Len() > 0 && queue.peek().estimate <= best {
		if err := poll.step(); err != nil {
			return interrupted(denoms, bestCounts, peak, err)
		}
		peak = max(peak, queue.Len())

		parent := queue.pop()
		level := parent.level
		coin := denoms[level]

		// Take none of this coin and reconsider one level down.
		if level > 0 {
			skip := parent
			skip.level = level - 1
			skip.estimate = optimisticBound(amount, parent.covered, parent.used, denoms[level-1])
			if skip.estimate <= best {
				queue.push(skip)
			}
		}

		for quantity := 1; quantity <= (amount-parent.covered)/coin; quantity++ {
			if err := poll.step(); err != nil {
				return interrupted(denoms, bestCounts, peak, err)
			}
			covered := parent.covered + quantity*coin
			used := parent.used + quantity
			estimate := optimisticBound(amount, covered, used, coin)
			if estimate > best {
				break
			}

			counts := slices.Clone(parent.counts)
			counts[level] = quantity

			if covered == amount {
				best = used
				bestCounts = counts
				break
			}

			best = min(best, pessimisticBound(amount, covered, used))
			if level == 0 {
				continue
			}
			queue.push(node{
				counts:   counts,
				level:    level - 1,
				covered:  covered,
				used:     used,
				estimate: estimate,
			})
		}
	}

	if bestCounts == nil {
		return Result{FrontierPeak: peak}, ErrNoSolution
	}

	res := newResult(denoms, bestCounts)
	res.FrontierPeak = peak
	res.Optimal = true
	return res, nil
}

// checkpoint polls the context once every few units of work. Both node
// expansions and generated children count as work, so a single wide node
// cannot run past a deadline.
type checkpoint struct {
	ctx   context.Context
	every int
	steps int
}

func (c *checkpoint) step() error {
	c.steps++
	if c.steps%c.every != 0 {
		return nil
	}
	return c.ctx.Err()
}

func interrupted(denoms, bestCounts []int, peak int, cause error) (Result, error) {
	res := Result{FrontierPeak: peak}
	if bestCounts != nil {
		res = newResult(denoms, bestCounts)
		res.FrontierPeak = peak
	}
	return res, fmt.Errorf("%w: %w", ErrSearchInterrupted, cause)
}

package coins

import (
	"context"
	"fmt"
	"slices"
)

type backtracking struct {
	opts searchOptions
}

// NewBacktracking creates a Solver that enumerates every combination
// depth-first from the largest coin down. It is exact and exponential.
func NewBacktracking(opts ...Option) Solver {
	return &backtracking{opts: applyOptions(opts)}
}

func (b *backtracking) MinCoins(ctx context.Context, amount int, denominations []int) (Result, error) {
	denoms, err := validateInput(amount, denominations)
	if err != nil {
		return Result{}, err
	}

	w := &walker{
		ctx:      ctx,
		interval: b.opts.checkInterval,
		denoms:   denoms,
		counts:   make([]int, len(denoms)),
	}
	w.visit(len(denoms)-1, amount, 0)

	if w.err != nil {
		res := Result{}
		if w.bestCounts != nil {
			res = newResult(denoms, w.bestCounts)
		}
		return res, fmt.Errorf("%w: %w", ErrSearchInterrupted, w.err)
	}
	if w.bestCounts == nil {
		return Result{}, ErrNoSolution
	}

	res := newResult(denoms, w.bestCounts)
	res.Optimal = true
	return res, nil
}

type walker struct {
	ctx      context.Context
	interval int
	steps    int
	err      error

	denoms     []int
	counts     []int
	best       int
	bestCounts []int
}

func (w *walker) visit(level, remaining, used int) {
	if w.err != nil {
		return
	}
	if w.steps%w.interval == 0 {
		if err := w.ctx.Err(); err != nil {
			w.err = err
			return
		}
	}
	w.steps++

	if remaining == 0 {
		if w.bestCounts == nil || used < w.best {
			w.best = used
			w.bestCounts = slices.Clone(w.counts)
		}
		return
	}
	if level < 0 {
		return
	}

	coin := w.denoms[level]
	for quantity := remaining / coin; quantity >= 0; quantity-- {
		w.counts[level] = quantity
		w.visit(level-1, remaining-quantity*coin, used+quantity)
	}
	w.counts[level] = 0
}

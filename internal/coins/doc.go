// Package coins computes the minimum number of coins needed to pay an amount
// from an arbitrary set of denominations available in unlimited supply.
//
// The main solver is a best-first branch-and-bound search. Nodes assign coin
// counts from the largest denomination downwards and are ordered by an
// optimistic bound (the remainder paid entirely with the largest coin still
// under consideration). A pessimistic bound (the remainder paid with unit
// coins) tightens the best known cost before any exact solution is found, so
// branch-and-bound requires the unit coin to be present.
//
// Dynamic programming, plain backtracking and greedy solvers implement the
// same Solver interface and serve as references for comparison.
package coins

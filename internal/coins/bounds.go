package coins

// pessimisticBound assumes whatever is still missing gets paid with unit
// coins. It is achievable whenever the unit coin exists, so it is an upper
// bound on the optimum.
func pessimisticBound(amount, covered, used int) int {
	return (amount - covered) + used
}

// optimisticBound assumes whatever is still missing gets paid with the
// largest coin still under consideration. No completion can do better.
func optimisticBound(amount, covered, used, largest int) int {
	return (amount-covered)/largest + used
}

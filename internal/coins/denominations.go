package coins

import "sort"

// NormalizeDenominations returns the distinct values of denominations in
// ascending order. Every value must be positive and at least one is required.
func NormalizeDenominations(denominations []int) ([]int, error) {
	if len(denominations) == 0 {
		return nil, ErrInvalidDenominations
	}

	unique := make(map[int]struct{}, len(denominations))
	for _, value := range denominations {
		if value <= 0 {
			return nil, ErrInvalidDenominations
		}
		unique[value] = struct{}{}
	}

	normalized := make([]int, 0, len(unique))
	for value := range unique {
		normalized = append(normalized, value)
	}
	sort.Ints(normalized)

	return normalized, nil
}

// IsCanonicalChain reports whether every denomination is a multiple of the
// next smaller one and the smallest is the unit coin. Greedy change-making is
// optimal on such systems.
func IsCanonicalChain(denominations []int) bool {
	normalized, err := NormalizeDenominations(denominations)
	if err != nil || normalized[0] != 1 {
		return false
	}
	for i := 1; i < len(normalized); i++ {
		if normalized[i]%normalized[i-1] != 0 {
			return false
		}
	}
	return true
}

func validateInput(amount int, denominations []int) ([]int, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	return NormalizeDenominations(denominations)
}

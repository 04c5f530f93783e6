package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/eugenenazirov/coin-change/internal/coins"
)

// MaxDenominations caps the number of distinct coin values the service keeps
// active. The solvers themselves accept any number.
const MaxDenominations = 16

// ErrInvalidDenominations indicates the provided denominations violate validation rules.
var ErrInvalidDenominations = coins.ErrInvalidDenominations

var defaultDenominations = []int{1, 2, 5, 10, 20, 50, 100, 200}

// Storage provides access to the denominations used by the solvers.
type Storage interface {
	GetDenominations() ([]int, error)
	SetDenominations(values []int) error
}

// MemoryStorage keeps denominations in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu            sync.RWMutex
	denominations []int
}

// NewMemoryStorage initialises storage with a copy of the default denominations.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		denominations: cloneAndSort(defaultDenominations),
	}
}

// DefaultDenominations returns a copy of the default denominations slice.
func DefaultDenominations() []int {
	return cloneAndSort(defaultDenominations)
}

// GetDenominations returns a copy of the currently configured denominations.
func (s *MemoryStorage) GetDenominations() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAndSort(s.denominations), nil
}

// SetDenominations validates, normalises, and stores the provided denominations.
func (s *MemoryStorage) SetDenominations(values []int) error {
	normalized, err := ValidateDenominations(values)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.denominations = normalized
	s.mu.Unlock()

	return nil
}

func cloneAndSort(src []int) []int {
	if len(src) == 0 {
		return []int{}
	}

	out := make([]int, len(src))
	copy(out, src)
	sort.Ints(out)
	return out
}

// ValidateDenominations normalises values and enforces MaxDenominations.
func ValidateDenominations(values []int) ([]int, error) {
	normalized, err := coins.NormalizeDenominations(values)
	if err != nil {
		return nil, err
	}
	if len(normalized) > MaxDenominations {
		return nil, fmt.Errorf("%w: got %d distinct values, at most %d allowed", ErrInvalidDenominations, len(normalized), MaxDenominations)
	}
	return normalized, nil
}

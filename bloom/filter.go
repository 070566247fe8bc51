// Package bloom provides race identifier membership tests using Bloom filters.
package bloom

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/keiba"
)

// Filter wraps a Bloom filter of race identifiers.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected identifiers
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

func key(id keiba.RaceID) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id.ID()))
}

// Add adds an identifier to the filter.
func (f *Filter) Add(id keiba.RaceID) {
	f.f.Add(key(id))
}

// Test returns true if the identifier might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(id keiba.RaceID) bool {
	return f.f.Test(key(id))
}

// TestAndAdd reports whether the identifier might already be in the filter
// and adds it.
func (f *Filter) TestAndAdd(id keiba.RaceID) bool {
	return f.f.TestAndAdd(key(id))
}

// EstimatedCount returns the approximate number of identifiers in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

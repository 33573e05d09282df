package lsm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBloomFilterNoFalseNegatives(t *testing.T) {
	bf := NewBloomFilter(1000, 0.01)

	keys := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		keys = append(keys, fmt.Sprintf("key-%d", i))
	}
	for _, k := range keys {
		bf.Add(k)
	}

	for _, k := range keys {
		require.True(t, bf.MightContain(k), "bloom filter must never false-negative on an added key")
	}
}

func TestBloomFilterDefinitelyAbsentKeysAreUsuallyCorrect(t *testing.T) {
	bf := NewBloomFilter(100, 0.01)
	for i := 0; i < 50; i++ {
		bf.Add(fmt.Sprintf("present-%d", i))
	}

	falsePositives := 0
	for i := 0; i < 50; i++ {
		if bf.MightContain(fmt.Sprintf("absent-%d", i)) {
			falsePositives++
		}
	}

	require.Less(t, falsePositives, 50, "false positive rate should be well under 100%")
}

func TestBloomFilterHandlesDegenerateSizing(t *testing.T) {
	bf := NewBloomFilter(0, 0)
	bf.Add("k")
	require.True(t, bf.MightContain("k"))
}

func TestBloomFilterExceededReportsOnceOverCapacity(t *testing.T) {
	bf := NewBloomFilter(2, 0.01)
	require.False(t, bf.Exceeded())

	bf.Add("a")
	bf.Add("b")
	require.False(t, bf.Exceeded())

	bf.Add("c")
	require.True(t, bf.Exceeded())
}

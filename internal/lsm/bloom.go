package lsm

import (
	"math"

	"github.com/zeebo/xxh3"
)

// BloomFilter is a fixed-size probabilistic membership structure with
// one-sided error (no false negatives), sized once per datastore from
// (falsePositiveRate, capacity) per spec.md §3/§4.5. It is populated on every
// memtable Put and consulted on Get before any segment is probed.
//
// Bit indices are derived from a single xxh3.Hash128 call per key via
// Kirsch-Mitzenmacher double hashing (h1 + i*h2 mod m), avoiding k separate
// hash computations per operation while reusing the same checksum library
// internal/record already depends on for frame integrity.
type BloomFilter struct {
	bits     []byte
	m        uint64
	k        int
	capacity uint64
	count    uint64
}

// NewBloomFilter sizes a filter for capacity distinct keys at the given
// target false-positive rate, using the standard optimal-parameter formulas
// m = ceil(-n*ln(p) / ln(2)^2), k = round((m/n) * ln(2)).
func NewBloomFilter(capacity uint64, falsePositiveRate float64) *BloomFilter {
	if capacity == 0 {
		capacity = 1
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = 0.01
	}

	n := float64(capacity)
	ln2 := math.Ln2

	m := uint64(math.Ceil(-n * math.Log(falsePositiveRate) / (ln2 * ln2)))
	if m == 0 {
		m = 1
	}

	k := int(math.Round((float64(m) / n) * ln2))
	if k < 1 {
		k = 1
	}

	return &BloomFilter{bits: make([]byte, (m+7)/8), m: m, k: k, capacity: capacity}
}

func (bf *BloomFilter) hashes(key string) (h1, h2 uint64) {
	sum := xxh3.Hash128([]byte(key))
	return sum.Hi, sum.Lo
}

// Add records key's membership.
func (bf *BloomFilter) Add(key string) {
	h1, h2 := bf.hashes(key)
	for i := 0; i < bf.k; i++ {
		idx := (h1 + uint64(i)*h2) % bf.m
		bf.bits[idx/8] |= 1 << (idx % 8)
	}
	bf.count++
}

// Exceeded reports whether more distinct keys have been added than the
// filter was sized for, meaning its effective false-positive rate has
// climbed above the configured target (spec.md §4.5's sizing formula assumes
// count <= capacity).
func (bf *BloomFilter) Exceeded() bool {
	return bf.count > bf.capacity
}

// MightContain reports whether key may be present. A false result is
// definitive ("definitely not"); a true result requires confirmation against
// the memtable/segments because of the filter's one-sided error.
func (bf *BloomFilter) MightContain(key string) bool {
	h1, h2 := bf.hashes(key)
	for i := 0; i < bf.k; i++ {
		idx := (h1 + uint64(i)*h2) % bf.m
		if bf.bits[idx/8]&(1<<(idx%8)) == 0 {
			return false
		}
	}
	return true
}

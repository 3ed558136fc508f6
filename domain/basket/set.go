package basket

import (
	"encoding/binary"
	"math/bits"
)

// ProductSet is a bitset over a fitted product domain. Bit i corresponds to
// the product at column i of the matrix the set was created against, so set
// membership and subset checks are word-level operations regardless of how
// many products an itemset holds.
type ProductSet struct {
	words []uint64
}

// NewProductSet creates an empty set sized for a product domain of n columns.
func NewProductSet(n int) ProductSet {
	return ProductSet{words: make([]uint64, (n+63)/64)}
}

// Clone returns an independent copy of the set.
func (s ProductSet) Clone() ProductSet {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return ProductSet{words: words}
}

// Add sets bit i.
func (s ProductSet) Add(i int) {
	s.words[i/64] |= 1 << uint(i%64)
}

// With returns a copy of the set with bit i added.
func (s ProductSet) With(i int) ProductSet {
	out := s.Clone()
	out.Add(i)
	return out
}

// Without returns a copy of the set with bit i cleared.
func (s ProductSet) Without(i int) ProductSet {
	out := s.Clone()
	out.words[i/64] &^= 1 << uint(i%64)
	return out
}

// Contains reports whether bit i is set.
func (s ProductSet) Contains(i int) bool {
	w := i / 64
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<uint(i%64)) != 0
}

// ContainsAll reports whether other is a subset of s.
func (s ProductSet) ContainsAll(other ProductSet) bool {
	for w, word := range other.words {
		if word == 0 {
			continue
		}
		if w >= len(s.words) || s.words[w]&word != word {
			return false
		}
	}
	return true
}

// Union returns the union of s and other.
func (s ProductSet) Union(other ProductSet) ProductSet {
	out := s.Clone()
	for w, word := range other.words {
		out.words[w] |= word
	}
	return out
}

// Count returns the number of set bits.
func (s ProductSet) Count() int {
	n := 0
	for _, word := range s.words {
		n += bits.OnesCount64(word)
	}
	return n
}

// Members returns the set bits in ascending column order. Ascending order is
// what keeps itemset rendering deterministic across runs.
func (s ProductSet) Members() []int {
	out := make([]int, 0, s.Count())
	for w, word := range s.words {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			out = append(out, w*64+bit)
			word &^= 1 << uint(bit)
		}
	}
	return out
}

// Equal reports whether two sets hold the same members.
func (s ProductSet) Equal(other ProductSet) bool {
	longer, shorter := s.words, other.words
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	for w := range shorter {
		if longer[w] != shorter[w] {
			return false
		}
	}
	for w := len(shorter); w < len(longer); w++ {
		if longer[w] != 0 {
			return false
		}
	}
	return true
}

// Key returns a stable map key for the set. Trailing zero words are dropped
// so sets from differently sized domains compare consistently.
func (s ProductSet) Key() string {
	end := len(s.words)
	for end > 0 && s.words[end-1] == 0 {
		end--
	}
	buf := make([]byte, end*8)
	for w := 0; w < end; w++ {
		binary.LittleEndian.PutUint64(buf[w*8:], s.words[w])
	}
	return string(buf)
}

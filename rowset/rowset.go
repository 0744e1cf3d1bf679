// Package rowset provides a fixed-length boolean row vector backed by a
// Roaring Bitmap. A Set is the unit of membership in catbits: one Set per
// catalog entry (the entry's indicator column) and one Set per query result.
package rowset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a boolean vector over rows [0, Len()). Unlike a raw bitmap it
// carries its universe length, so an all-false vector over 10 rows and one
// over 20 rows are distinct values.
//
// The zero value is not usable; construct with New, FromIndices or FromBools.
type Set struct {
	rb *roaring.Bitmap
	n  int
}

// New creates an all-false Set over n rows.
func New(n int) *Set {
	return &Set{rb: roaring.New(), n: n}
}

// Full creates an all-true Set over n rows.
func Full(n int) *Set {
	s := New(n)
	if n > 0 {
		s.rb.AddRange(0, uint64(n))
	}
	return s
}

// FromIndices creates a Set over n rows with the given row indices set.
// Indices outside [0, n) are ignored.
func FromIndices(n int, rows []uint32) *Set {
	s := New(n)
	for _, r := range rows {
		if int(r) < n {
			s.rb.Add(r)
		}
	}
	return s
}

// FromBools creates a Set whose length and bits mirror the given slice.
func FromBools(v []bool) *Set {
	s := New(len(v))
	for i, b := range v {
		if b {
			s.rb.Add(uint32(i))
		}
	}
	return s
}

// Len returns the number of rows the Set ranges over.
func (s *Set) Len() int {
	return s.n
}

// Count returns the number of true rows.
func (s *Set) Count() int {
	return int(s.rb.GetCardinality())
}

// IsEmpty returns true if no row is set.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// IsFull returns true if every row is set.
func (s *Set) IsFull() bool {
	return s.Count() == s.n
}

// Contains reports whether row i is set.
func (s *Set) Contains(i uint32) bool {
	return int(i) < s.n && s.rb.Contains(i)
}

// Add sets row i. Rows outside [0, Len()) are ignored.
func (s *Set) Add(i uint32) {
	if int(i) < s.n {
		s.rb.Add(i)
	}
}

// Remove clears row i.
func (s *Set) Remove(i uint32) {
	s.rb.Remove(i)
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{rb: s.rb.Clone(), n: s.n}
}

// And intersects s with other in place.
func (s *Set) And(other *Set) {
	s.rb.And(other.rb)
}

// Or unions other into s in place.
func (s *Set) Or(other *Set) {
	s.rb.Or(other.rb)
}

// AndNot clears every row of s that is set in other.
func (s *Set) AndNot(other *Set) {
	s.rb.AndNot(other.rb)
}

// Complement returns a new Set with every row flipped.
func (s *Set) Complement() *Set {
	out := s.Clone()
	out.rb.Flip(0, uint64(s.n))
	return out
}

// Equal reports whether both sets range over the same rows and agree
// bit-for-bit.
func (s *Set) Equal(other *Set) bool {
	if s.n != other.n {
		return false
	}
	c := s.rb.GetCardinality()
	return c == other.rb.GetCardinality() && s.rb.AndCardinality(other.rb) == c
}

// Slice returns the set rows in ascending order.
func (s *Set) Slice() []uint32 {
	return s.rb.ToArray()
}

// Bools renders the Set as a plain boolean slice of length Len().
func (s *Set) Bools() []bool {
	out := make([]bool, s.n)
	s.rb.Iterate(func(i uint32) bool {
		out[i] = true
		return true
	})
	return out
}

// ForEach calls fn for each set row in ascending order until fn returns
// false.
func (s *Set) ForEach(fn func(i uint32) bool) {
	s.rb.Iterate(fn)
}

// Rank returns the number of set rows in [0, i], i.e. the 1-based position
// of row i among the set rows when i itself is set.
func (s *Set) Rank(i uint32) int {
	return int(s.rb.Rank(i))
}

// CompactBy projects s onto the rows set in keep: the result ranges over
// [0, keep.Count()) and row r of s maps to its rank among the kept rows.
// Rows of s not present in keep are dropped.
func (s *Set) CompactBy(keep *Set) *Set {
	out := New(keep.Count())
	inter := roaring.And(s.rb, keep.rb)
	inter.Iterate(func(i uint32) bool {
		out.rb.Add(uint32(keep.rb.Rank(i) - 1))
		return true
	})
	return out
}

// Shifted returns a copy of s over newLen rows with every set row moved by
// delta.
func (s *Set) Shifted(delta int, newLen int) *Set {
	return &Set{rb: roaring.AddOffset64(s.rb, int64(delta)), n: newLen}
}

// Extended returns a copy of s ranging over newLen rows, bits unchanged.
func (s *Set) Extended(newLen int) *Set {
	if newLen < s.n {
		newLen = s.n
	}
	return &Set{rb: s.rb.Clone(), n: newLen}
}

// Union returns the union of the given sets. All sets must share the same
// length; Union panics otherwise, since mixing universes is a programming
// error. At least one set is required.
func Union(sets ...*Set) *Set {
	if len(sets) == 0 {
		panic("rowset: Union of no sets")
	}
	if len(sets) == 1 {
		return sets[0].Clone()
	}
	n := sets[0].n
	rbs := make([]*roaring.Bitmap, len(sets))
	for i, s := range sets {
		if s.n != n {
			panic(fmt.Sprintf("rowset: Union length mismatch: %d vs %d", s.n, n))
		}
		rbs[i] = s.rb
	}
	return &Set{rb: roaring.FastOr(rbs...), n: n}
}

// Intersect returns the intersection of the given sets. Same length rules
// as Union.
func Intersect(sets ...*Set) *Set {
	if len(sets) == 0 {
		panic("rowset: Intersect of no sets")
	}
	if len(sets) == 1 {
		return sets[0].Clone()
	}
	n := sets[0].n
	rbs := make([]*roaring.Bitmap, len(sets))
	for i, s := range sets {
		if s.n != n {
			panic(fmt.Sprintf("rowset: Intersect length mismatch: %d vs %d", s.n, n))
		}
		rbs[i] = s.rb
	}
	return &Set{rb: roaring.FastAnd(rbs...), n: n}
}

// Bytes returns the portable roaring serialization of the bitmap. The
// universe length is not included; callers persist it separately.
func (s *Set) Bytes() ([]byte, error) {
	return s.rb.ToBytes()
}

// FromBytes reconstructs a Set over n rows from Bytes output. Bits beyond
// the universe are dropped, so a hostile payload cannot produce an
// inconsistent Set.
func FromBytes(n int, data []byte) (*Set, error) {
	rb := roaring.New()
	if _, err := rb.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("rowset: decode bitmap: %w", err)
	}
	if !rb.IsEmpty() && int(rb.Maximum()) >= n {
		rb.RemoveRange(uint64(n), uint64(rb.Maximum())+1)
	}
	return &Set{rb: rb, n: n}, nil
}

// setJSON is the wire form of a Set: universe length plus the set rows.
type setJSON struct {
	Rows int      `json:"rows"`
	IDs  []uint32 `json:"ids"`
}

// MarshalJSON implements json.Marshaler.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(setJSON{Rows: s.n, IDs: s.Slice()})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Set) UnmarshalJSON(data []byte) error {
	var w setJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.rb = roaring.New()
	s.n = w.Rows
	for _, id := range w.IDs {
		if int(id) < s.n {
			s.rb.Add(id)
		}
	}
	return nil
}

// String renders the Set for debugging, e.g. "3/10{0,4,7}".
func (s *Set) String() string {
	return fmt.Sprintf("%d/%d%v", s.Count(), s.n, s.rb.ToArray())
}

package grid

import "iter"

// SharedStrings is a workbook-wide append-only string table. Identical
// text always maps to one index; comparison is byte equality.
type SharedStrings struct {
	items []string
	index map[string]int
}

// NewSharedStrings returns an empty table.
func NewSharedStrings() *SharedStrings {
	return &SharedStrings{index: make(map[string]int)}
}

// Intern returns the index of text, appending it on first use.
func (s *SharedStrings) Intern(text string) int {
	if i, ok := s.index[text]; ok {
		return i
	}
	return s.Add(text)
}

// Add appends text unconditionally, keeping file order when loading a
// table that already contains duplicates. The first occurrence stays the
// one Intern returns.
func (s *SharedStrings) Add(text string) int {
	i := len(s.items)
	s.items = append(s.items, text)
	if _, ok := s.index[text]; !ok {
		s.index[text] = i
	}
	return i
}

// At returns the text stored at index i.
func (s *SharedStrings) At(i int) (string, bool) {
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i], true
}

// Len returns the number of entries.
func (s *SharedStrings) Len() int { return len(s.items) }

// All yields entries in index order.
func (s *SharedStrings) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, v := range s.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

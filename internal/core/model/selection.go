package model

import (
	"maps"
	"slices"

	"github.com/pkg/errors"
)

var ErrInvalidRange = errors.New("invalid range")

// Selection is the set of pages currently chosen over a document of a known
// page count. Every member is always lower than the page count.
type Selection struct {
	pageCount int
	pages     map[PageIndex]struct{}
}

func (s *Selection) PageCount() int {
	return s.pageCount
}

// Reset empties the selection and binds it to a new page count.
func (s *Selection) Reset(pageCount int) {
	s.pageCount = max(pageCount, 0)
	s.pages = make(map[PageIndex]struct{})
}

func (s *Selection) Len() int {
	return len(s.pages)
}

func (s *Selection) Contains(idx PageIndex) bool {
	_, exists := s.pages[idx]
	return exists
}

// Pages returns the selected indexes in ascending order.
func (s *Selection) Pages() []PageIndex {
	pages := slices.Collect(maps.Keys(s.pages))
	slices.Sort(pages)
	return pages
}

// Add selects the given page. Out of bounds indexes are ignored.
func (s *Selection) Add(idx PageIndex) {
	if !idx.In(s.pageCount) {
		return
	}

	s.pages[idx] = struct{}{}
}

func (s *Selection) Remove(idx PageIndex) {
	delete(s.pages, idx)
}

// Toggle flips the membership of a page and returns whether it is now selected.
func (s *Selection) Toggle(idx PageIndex) bool {
	if s.Contains(idx) {
		s.Remove(idx)
		return false
	}

	s.Add(idx)

	return s.Contains(idx)
}

func (s *Selection) SelectAll() {
	s.fill(func(PageIndex) bool { return true })
}

func (s *Selection) SelectNone() {
	s.pages = make(map[PageIndex]struct{})
}

// SelectOdd selects one-based odd pages (indexes 0, 2, 4...).
func (s *Selection) SelectOdd() {
	s.fill(isOddPage)
}

// SelectEven selects one-based even pages (indexes 1, 3, 5...).
func (s *Selection) SelectEven() {
	s.fill(isEvenPage)
}

// Invert replaces the selection by its complement in [0, pageCount).
func (s *Selection) Invert() {
	current := s.pages
	s.fill(func(idx PageIndex) bool {
		_, selected := current[idx]
		return !selected
	})
}

// AddRange unions the inclusive one-based span [start, end] into the selection.
// It returns ErrInvalidRange, leaving the selection untouched, unless
// 1 <= start <= end <= pageCount.
func (s *Selection) AddRange(start, end int) error {
	if start < 1 || start > end || end > s.pageCount {
		return errors.Wrapf(ErrInvalidRange, "%d-%d is not within 1-%d", start, end, s.pageCount)
	}

	for n := start; n <= end; n++ {
		s.pages[PageIndexFromNumber(n)] = struct{}{}
	}

	return nil
}

// AddRanges unions every group of a range expression into the selection and
// returns the rejected tokens.
func (s *Selection) AddRanges(expr string) []string {
	spec, rejected := ParseRanges(expr, s.pageCount)
	for _, group := range spec {
		for _, idx := range group {
			s.pages[idx] = struct{}{}
		}
	}

	return rejected
}

func (s *Selection) IsAllSelected() bool {
	return s.pageCount > 0 && len(s.pages) == s.pageCount
}

func (s *Selection) IsNoneSelected() bool {
	return len(s.pages) == 0
}

func (s *Selection) IsOddSelected() bool {
	return s.matches(isOddPage)
}

func (s *Selection) IsEvenSelected() bool {
	return s.matches(isEvenPage)
}

// Clone returns an independent copy of the selection.
func (s *Selection) Clone() *Selection {
	return &Selection{
		pageCount: s.pageCount,
		pages:     maps.Clone(s.pages),
	}
}

func (s *Selection) fill(keep func(idx PageIndex) bool) {
	pages := make(map[PageIndex]struct{})
	for i := range s.pageCount {
		if idx := PageIndex(i); keep(idx) {
			pages[idx] = struct{}{}
		}
	}
	s.pages = pages
}

// matches reports whether the selection is exactly the non-empty canonical set
// described by the predicate.
func (s *Selection) matches(member func(idx PageIndex) bool) bool {
	expected := 0
	for i := range s.pageCount {
		if member(PageIndex(i)) {
			expected++
		}
	}

	if expected == 0 || len(s.pages) != expected {
		return false
	}

	for idx := range s.pages {
		if !member(idx) {
			return false
		}
	}

	return true
}

func isOddPage(idx PageIndex) bool {
	return idx.Number()%2 == 1
}

func isEvenPage(idx PageIndex) bool {
	return idx.Number()%2 == 0
}

func NewSelection(pageCount int) *Selection {
	s := &Selection{}
	s.Reset(pageCount)
	return s
}

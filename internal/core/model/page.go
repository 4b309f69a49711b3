package model

import "slices"

// PageIndex is the zero-based position of a page inside a Document.
//
// Every user facing value (flags, API payloads, output names) is a one-based
// page number. Conversions between both representations must go through
// PageIndexFromNumber and PageIndex.Number.
type PageIndex int

// Number returns the one-based page number of the index.
func (i PageIndex) Number() int {
	return int(i) + 1
}

// In reports whether the index addresses a page of a document with pageCount pages.
func (i PageIndex) In(pageCount int) bool {
	return i >= 0 && int(i) < pageCount
}

// PageIndexFromNumber converts a one-based page number to its PageIndex.
func PageIndexFromNumber(number int) PageIndex {
	return PageIndex(number - 1)
}

// PageNumbers converts the given indexes to one-based page numbers, preserving order.
func PageNumbers(indexes []PageIndex) []int {
	numbers := make([]int, len(indexes))
	for i, idx := range indexes {
		numbers[i] = idx.Number()
	}
	return numbers
}

func sortedIndexes(indexes []PageIndex) []PageIndex {
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)
	return sorted
}

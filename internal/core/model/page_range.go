package model

import (
	"strconv"
	"strings"
)

// PageGroup is an ascending run of contiguous page indexes (or a single page).
type PageGroup []PageIndex

// First returns the lowest index of the group.
func (g PageGroup) First() PageIndex {
	return g[0]
}

// Last returns the highest index of the group.
func (g PageGroup) Last() PageIndex {
	return g[len(g)-1]
}

// RangeSpec is the ordered list of groups parsed from a range expression.
// Groups may overlap; no merge nor deduplication is performed.
type RangeSpec []PageGroup

func (s RangeSpec) Empty() bool {
	return len(s) == 0
}

// ParseRanges parses a comma separated expression of one-based pages ("5")
// and inclusive spans ("1-3") against a document of pageCount pages.
//
// Tokens are evaluated left to right. A token that is not made of decimal
// integers, whose span is reversed or that falls outside [1, pageCount] is
// skipped and reported in the returned rejected list. Blank tokens (as
// produced by a trailing comma) are ignored without being reported.
func ParseRanges(expr string, pageCount int) (RangeSpec, []string) {
	spec := make(RangeSpec, 0)
	rejected := make([]string, 0)

	for _, raw := range strings.Split(expr, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}

		start, end, ok := parseRangeToken(token)
		if !ok || start > end || start < 1 || end > pageCount {
			rejected = append(rejected, token)
			continue
		}

		group := make(PageGroup, 0, end-start+1)
		for n := start; n <= end; n++ {
			group = append(group, PageIndexFromNumber(n))
		}

		spec = append(spec, group)
	}

	return spec, rejected
}

func parseRangeToken(token string) (int, int, bool) {
	rawStart, rawEnd, isSpan := strings.Cut(token, "-")
	if !isSpan {
		n, ok := parsePageNumber(token)
		return n, n, ok
	}

	start, ok := parsePageNumber(strings.TrimSpace(rawStart))
	if !ok {
		return 0, 0, false
	}

	end, ok := parsePageNumber(strings.TrimSpace(rawEnd))
	if !ok {
		return 0, 0, false
	}

	return start, end, true
}

// parsePageNumber only accepts plain decimal digits, so signs, spaces inside
// the number and non numeric input are all rejected.
func parsePageNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return n, true
}

// FormatRanges renders sorted indexes back into a compact one-based expression ("1-3,5").
func FormatRanges(indexes []PageIndex) string {
	sorted := sortedIndexes(indexes)

	var sb strings.Builder

	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] <= sorted[j]+1 {
			j++
		}

		if sb.Len() > 0 {
			sb.WriteString(",")
		}

		sb.WriteString(strconv.Itoa(sorted[i].Number()))
		if sorted[j] != sorted[i] {
			sb.WriteString("-")
			sb.WriteString(strconv.Itoa(sorted[j].Number()))
		}

		i = j + 1
	}

	return sb.String()
}

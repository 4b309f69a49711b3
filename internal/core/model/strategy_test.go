package model

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

type expectedPartition struct {
	Name  string
	Pages []int
}

func partitionsOf(m *Manifest) []expectedPartition {
	partitions := make([]expectedPartition, 0, m.Len())
	for _, p := range m.Partitions {
		partitions = append(partitions, expectedPartition{Name: p.Name, Pages: PageNumbers(p.Pages)})
	}
	return partitions
}

func TestPlan(t *testing.T) {
	type testCase struct {
		Name      string
		PageCount int
		Selected  []int
		Params    SplitParams
		Expected  []expectedPartition
	}

	testCases := []testCase{
		{
			Name:      "individual",
			PageCount: 5,
			Selected:  []int{4, 2},
			Params:    SplitParams{Mode: SplitModeIndividual, Prefix: "doc"},
			Expected: []expectedPartition{
				{Name: "doc-2.pdf", Pages: []int{2}},
				{Name: "doc-4.pdf", Pages: []int{4}},
			},
		},
		{
			Name:      "ranges with duplicates",
			PageCount: 10,
			Params:    SplitParams{Mode: SplitModeRanges, RangeExpression: "1-3,5,1-3,zz"},
			Expected: []expectedPartition{
				{Name: "split-1-3.pdf", Pages: []int{1, 2, 3}},
				{Name: "split-5.pdf", Pages: []int{5}},
				{Name: "split-1-3_2.pdf", Pages: []int{1, 2, 3}},
			},
		},
		{
			Name:      "equal parts",
			PageCount: 10,
			Params:    SplitParams{Mode: SplitModeEqualParts, EqualParts: 3, Prefix: "report.pdf"},
			Expected: []expectedPartition{
				{Name: "report-part-1.pdf", Pages: []int{1, 2, 3, 4}},
				{Name: "report-part-2.pdf", Pages: []int{5, 6, 7, 8}},
				{Name: "report-part-3.pdf", Pages: []int{9, 10}},
			},
		},
		{
			Name:      "equal parts with empty tail",
			PageCount: 4,
			Params:    SplitParams{Mode: SplitModeEqualParts, EqualParts: 3},
			Expected: []expectedPartition{
				{Name: "split-part-1.pdf", Pages: []int{1, 2}},
				{Name: "split-part-2.pdf", Pages: []int{3, 4}},
			},
		},
		{
			Name:      "extract single",
			PageCount: 6,
			Selected:  []int{6, 1, 3},
			Params:    SplitParams{Mode: SplitModeExtractSingle, Prefix: "  my  doc "},
			Expected: []expectedPartition{
				{Name: "my_doc-extract.pdf", Pages: []int{1, 3, 6}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			selection := NewSelection(tc.PageCount)
			for _, n := range tc.Selected {
				selection.Add(PageIndexFromNumber(n))
			}

			manifest, err := Plan(StrategyInput{
				PageCount: tc.PageCount,
				Selection: selection,
				Params:    tc.Params,
			})
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.Params.Mode, manifest.Mode; e != g {
				t.Errorf("expected mode '%s', got '%s'", e, g)
			}

			if e, g := tc.Expected, partitionsOf(manifest); !reflect.DeepEqual(e, g) {
				t.Errorf("expected %+v, got %+v", e, g)
			}
		})
	}
}

func TestCheckSplit(t *testing.T) {
	type testCase struct {
		Name      string
		PageCount int
		Selected  []int
		Params    SplitParams
		Expected  PreconditionReason
	}

	testCases := []testCase{
		{
			Name:      "individual without selection",
			PageCount: 3,
			Params:    SplitParams{Mode: SplitModeIndividual},
			Expected:  ReasonEmptySelection,
		},
		{
			Name:      "extract without selection",
			PageCount: 3,
			Params:    SplitParams{Mode: SplitModeExtractSingle},
			Expected:  ReasonEmptySelection,
		},
		{
			Name:      "ranges without valid token",
			PageCount: 3,
			Params:    SplitParams{Mode: SplitModeRanges, RangeExpression: "4-5,a"},
			Expected:  ReasonEmptyRanges,
		},
		{
			Name:      "blank ranges",
			PageCount: 3,
			Params:    SplitParams{Mode: SplitModeRanges, RangeExpression: " , "},
			Expected:  ReasonEmptyRanges,
		},
		{
			Name:      "too many parts",
			PageCount: 3,
			Params:    SplitParams{Mode: SplitModeEqualParts, EqualParts: 4},
			Expected:  ReasonPartsOutOfBounds,
		},
		{
			Name:      "zero parts",
			PageCount: 3,
			Params:    SplitParams{Mode: SplitModeEqualParts, EqualParts: 0},
			Expected:  ReasonPartsOutOfBounds,
		},
		{
			Name:      "unknown mode",
			PageCount: 3,
			Params:    SplitParams{Mode: SplitMode("shuffle")},
			Expected:  ReasonUnknownMode,
		},
		{
			Name:      "valid individual",
			PageCount: 3,
			Selected:  []int{2},
			Params:    SplitParams{Mode: SplitModeIndividual},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			selection := NewSelection(tc.PageCount)
			for _, n := range tc.Selected {
				selection.Add(PageIndexFromNumber(n))
			}

			err := CheckSplit(StrategyInput{PageCount: tc.PageCount, Selection: selection, Params: tc.Params})

			if tc.Expected == "" {
				if err != nil {
					t.Fatalf("%+v", errors.WithStack(err))
				}
				return
			}

			var precondition *PreconditionError
			if !errors.As(err, &precondition) {
				t.Fatalf("expected a precondition error, got %v", err)
			}

			if e, g := tc.Expected, precondition.Reason; e != g {
				t.Errorf("expected reason '%s', got '%s'", e, g)
			}
		})
	}
}

func TestSanitizedPrefix(t *testing.T) {
	testCases := map[string]string{
		"":                 DefaultPrefix,
		"   ":              DefaultPrefix,
		"invoice.pdf":      "invoice",
		"../../etc/passwd": "passwd",
		`C:\docs\scan`:     "scan",
		"annual report":    "annual_report",
	}

	for prefix, expected := range testCases {
		t.Run(prefix, func(t *testing.T) {
			if g := (SplitParams{Prefix: prefix}).SanitizedPrefix(); g != expected {
				t.Errorf("expected '%s', got '%s'", expected, g)
			}
		})
	}
}

func TestManifestValidate(t *testing.T) {
	m := &Manifest{Partitions: []Partition{{Name: "a.pdf", Pages: []PageIndex{0}}, {Name: "a.pdf", Pages: []PageIndex{1}}}}
	if err := m.Validate(); err == nil {
		t.Errorf("expected duplicate name error")
	}

	m = &Manifest{Partitions: []Partition{{Name: "a.pdf"}}}
	if err := m.Validate(); err == nil {
		t.Errorf("expected empty partition error")
	}
}

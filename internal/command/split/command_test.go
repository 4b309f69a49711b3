package split

import (
	"bytes"
	"slices"
	"testing"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func TestApplySelection(t *testing.T) {
	type testCase struct {
		Expr             string
		Invert           bool
		ExpectedPages    []int
		ExpectedRejected []string
	}

	testCases := []testCase{
		{Expr: "all", ExpectedPages: []int{1, 2, 3, 4, 5}},
		{Expr: "odd", ExpectedPages: []int{1, 3, 5}},
		{Expr: "even", ExpectedPages: []int{2, 4}},
		{Expr: "none", ExpectedPages: []int{}},
		{Expr: "none", Invert: true, ExpectedPages: []int{1, 2, 3, 4, 5}},
		{Expr: "1-2,5", ExpectedPages: []int{1, 2, 5}},
		{Expr: "1-2,x,9", ExpectedPages: []int{1, 2}, ExpectedRejected: []string{"x", "9"}},
		{Expr: "odd", Invert: true, ExpectedPages: []int{2, 4}},
	}

	for _, tc := range testCases {
		selection := model.NewSelection(5)

		update := func(fn func(selection *model.Selection) error) error {
			return fn(selection)
		}

		rejected, err := ApplySelection(update, tc.Expr, tc.Invert)
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		pages := model.PageNumbers(selection.Pages())
		if pages == nil {
			pages = []int{}
		}

		if !slices.Equal(tc.ExpectedPages, pages) {
			t.Errorf("'%s' (invert: %v): expected pages %v, got %v", tc.Expr, tc.Invert, tc.ExpectedPages, pages)
		}

		if !slices.Equal(tc.ExpectedRejected, rejected) {
			t.Errorf("'%s': expected rejected %s, got %s", tc.Expr, spew.Sdump(tc.ExpectedRejected), spew.Sdump(rejected))
		}
	}
}

func TestReportWriteText(t *testing.T) {
	report := Report{
		Document: DocumentReport{Name: "doc.pdf", PageCount: 3, Size: 2048},
		Mode:     model.SplitModeIndividual,
		Outputs: []OutputReport{
			{Name: "split-1.pdf", Pages: "1", Size: 1000},
		},
		Delivery: DeliveryReport{Kind: "single", Name: "split-1.pdf", Size: 1000},
		Handoff:  "split-1.pdf",
	}

	var buff bytes.Buffer
	if err := report.WriteText(&buff); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	expected := "doc.pdf: 3 pages, 2.0 kB\n  split-1.pdf\tpages 1\t1.0 kB\ndelivered split-1.pdf (single, 1.0 kB)\nhanded off split-1.pdf\n"

	if e, g := expected, buff.String(); e != g {
		t.Errorf("expected '%s', got '%s'", e, g)
	}
}

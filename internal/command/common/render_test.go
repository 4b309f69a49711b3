package common

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

type dummyReport struct {
	Name  string `json:"name" yaml:"name"`
	Pages int    `json:"pages" yaml:"pages"`
}

func TestRender(t *testing.T) {
	report := dummyReport{Name: "doc.pdf", Pages: 3}

	text := func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s: %d pages\n", report.Name, report.Pages)
		return err
	}

	type testCase struct {
		Format   Format
		Expected string
	}

	testCases := []testCase{
		{Format: FormatText, Expected: "doc.pdf: 3 pages\n"},
		{Format: FormatJSON, Expected: "{\n  \"name\": \"doc.pdf\",\n  \"pages\": 3\n}\n"},
		{Format: FormatYAML, Expected: "name: doc.pdf\npages: 3\n"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.Format), func(t *testing.T) {
			var buff bytes.Buffer

			if err := render(&buff, tc.Format, report, text); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.Expected, buff.String(); e != g {
				t.Errorf("expected '%s', got '%s'", e, g)
			}
		})
	}

	if err := render(io.Discard, "xml", report, text); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected an unknown format error, got %v", err)
	}
}

package model

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func numbersOf(s *Selection) []int {
	return PageNumbers(s.Pages())
}

func TestSelectionCanonicalSets(t *testing.T) {
	s := NewSelection(5)

	s.SelectOdd()
	if e, g := []int{1, 3, 5}, numbersOf(s); !reflect.DeepEqual(e, g) {
		t.Errorf("odd: expected %v, got %v", e, g)
	}
	if !s.IsOddSelected() || s.IsEvenSelected() || s.IsAllSelected() {
		t.Errorf("odd: unexpected predicates")
	}

	s.Invert()
	if e, g := []int{2, 4}, numbersOf(s); !reflect.DeepEqual(e, g) {
		t.Errorf("invert: expected %v, got %v", e, g)
	}
	if !s.IsEvenSelected() {
		t.Errorf("invert: expected even selection")
	}

	s.SelectAll()
	if !s.IsAllSelected() || s.Len() != 5 {
		t.Errorf("all: expected 5 selected pages, got %d", s.Len())
	}

	s.Invert()
	if !s.IsNoneSelected() {
		t.Errorf("invert all: expected empty selection, got %v", numbersOf(s))
	}
}

func TestSelectionSinglePageDocument(t *testing.T) {
	s := NewSelection(1)

	s.SelectEven()
	if !s.IsNoneSelected() {
		t.Errorf("expected no even page, got %v", numbersOf(s))
	}

	if s.IsEvenSelected() {
		t.Errorf("empty selection must not be reported as even")
	}

	s.SelectOdd()
	if !s.IsOddSelected() || !s.IsAllSelected() {
		t.Errorf("expected page 1 to be both odd and all")
	}
}

func TestSelectionToggleAndBounds(t *testing.T) {
	s := NewSelection(3)

	if !s.Toggle(1) {
		t.Errorf("expected page index 1 to be selected")
	}

	if s.Toggle(1) {
		t.Errorf("expected page index 1 to be unselected")
	}

	if s.Toggle(3) {
		t.Errorf("out of bounds index must not be selected")
	}

	s.Add(-1)
	if !s.IsNoneSelected() {
		t.Errorf("expected empty selection, got %v", numbersOf(s))
	}
}

func TestSelectionAddRange(t *testing.T) {
	s := NewSelection(10)
	s.Add(0)

	if err := s.AddRange(3, 5); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := []int{1, 3, 4, 5}, numbersOf(s); !reflect.DeepEqual(e, g) {
		t.Errorf("expected %v, got %v", e, g)
	}

	for _, r := range [][2]int{{0, 2}, {5, 3}, {9, 11}} {
		err := s.AddRange(r[0], r[1])
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%d-%d: expected ErrInvalidRange, got %v", r[0], r[1], err)
		}
	}

	if e, g := []int{1, 3, 4, 5}, numbersOf(s); !reflect.DeepEqual(e, g) {
		t.Errorf("invalid ranges must not modify the selection: expected %v, got %v", e, g)
	}
}

func TestSelectionAddRanges(t *testing.T) {
	s := NewSelection(6)

	rejected := s.AddRanges("1-2,x,5,9")

	if e, g := []int{1, 2, 5}, numbersOf(s); !reflect.DeepEqual(e, g) {
		t.Errorf("expected %v, got %v", e, g)
	}

	if e, g := []string{"x", "9"}, rejected; !reflect.DeepEqual(e, g) {
		t.Errorf("expected rejected %v, got %v", e, g)
	}
}

func TestSelectionResetAndClone(t *testing.T) {
	s := NewSelection(4)
	s.SelectAll()

	clone := s.Clone()
	s.Reset(2)

	if !s.IsNoneSelected() || s.PageCount() != 2 {
		t.Errorf("reset: expected empty selection over 2 pages")
	}

	if clone.Len() != 4 || clone.PageCount() != 4 {
		t.Errorf("clone must not be affected by reset")
	}
}

package model

import (
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"
)

type SplitMode string

const (
	SplitModeIndividual    SplitMode = "individual"
	SplitModeRanges        SplitMode = "ranges"
	SplitModeEqualParts    SplitMode = "equalParts"
	SplitModeExtractSingle SplitMode = "extractSingle"
)

var SplitModes = []SplitMode{
	SplitModeIndividual,
	SplitModeRanges,
	SplitModeEqualParts,
	SplitModeExtractSingle,
}

func ParseSplitMode(raw string) (SplitMode, error) {
	for _, m := range SplitModes {
		if strings.EqualFold(raw, string(m)) {
			return m, nil
		}
	}

	return "", errors.Errorf("unknown split mode '%s'", raw)
}

const DefaultPrefix = "split"

// SplitParams holds the user chosen strategy and its mode specific parameters.
type SplitParams struct {
	Mode            SplitMode
	RangeExpression string
	EqualParts      int
	Prefix          string
	ForceArchive    bool
}

// SanitizedPrefix returns a prefix usable as a file name stem.
func (p SplitParams) SanitizedPrefix() string {
	prefix := strings.TrimSpace(p.Prefix)
	prefix = strings.TrimSuffix(prefix, ".pdf")
	prefix = path.Base(strings.ReplaceAll(prefix, "\\", "/"))
	prefix = strings.Join(strings.Fields(prefix), "_")
	if prefix == "" || prefix == "." || prefix == "/" {
		return DefaultPrefix
	}

	return prefix
}

// StrategyInput is everything a strategy may look at to build a manifest.
type StrategyInput struct {
	PageCount int
	Selection *Selection
	Params    SplitParams
}

// Strategy turns a selection and its parameters into a partition manifest.
type Strategy interface {
	Mode() SplitMode
	// CanRun returns a *PreconditionError when the strategy cannot run.
	CanRun(in StrategyInput) error
	Partition(in StrategyInput) (*Manifest, error)
}

type PreconditionReason string

const (
	ReasonNoDocument       PreconditionReason = "no_document"
	ReasonEmptyDocument    PreconditionReason = "empty_document"
	ReasonEmptySelection   PreconditionReason = "empty_selection"
	ReasonEmptyRanges      PreconditionReason = "empty_ranges"
	ReasonPartsOutOfBounds PreconditionReason = "parts_out_of_bounds"
	ReasonUnknownMode      PreconditionReason = "unknown_mode"
)

// PreconditionError explains why a split cannot start.
type PreconditionError struct {
	Reason  PreconditionReason
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot split: %s", e.Message)
}

func (e *PreconditionError) UserMessage() string {
	return e.Message
}

func NewPreconditionError(reason PreconditionReason, format string, args ...any) *PreconditionError {
	return &PreconditionError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

var strategies = map[SplitMode]Strategy{
	SplitModeIndividual:    individualStrategy{},
	SplitModeRanges:        rangesStrategy{},
	SplitModeEqualParts:    equalPartsStrategy{},
	SplitModeExtractSingle: extractSingleStrategy{},
}

func StrategyFor(mode SplitMode) (Strategy, error) {
	strategy, exists := strategies[mode]
	if !exists {
		return nil, errors.WithStack(NewPreconditionError(ReasonUnknownMode, "unknown split mode '%s'", mode))
	}

	return strategy, nil
}

// CheckSplit evaluates the precondition of the strategy selected by the
// parameters. A nil error means a split can start.
func CheckSplit(in StrategyInput) error {
	strategy, err := StrategyFor(in.Params.Mode)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := strategy.CanRun(in); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Plan checks the precondition of the selected strategy then builds its manifest.
func Plan(in StrategyInput) (*Manifest, error) {
	strategy, err := StrategyFor(in.Params.Mode)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := strategy.CanRun(in); err != nil {
		return nil, errors.WithStack(err)
	}

	manifest, err := strategy.Partition(in)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := manifest.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	return manifest, nil
}

func requireSelection(in StrategyInput) error {
	if in.Selection == nil || in.Selection.IsNoneSelected() {
		return NewPreconditionError(ReasonEmptySelection, "select at least one page")
	}

	return nil
}

type individualStrategy struct{}

func (individualStrategy) Mode() SplitMode { return SplitModeIndividual }

func (individualStrategy) CanRun(in StrategyInput) error {
	return requireSelection(in)
}

func (s individualStrategy) Partition(in StrategyInput) (*Manifest, error) {
	prefix := in.Params.SanitizedPrefix()
	pages := in.Selection.Pages()

	manifest := &Manifest{Mode: s.Mode(), Partitions: make([]Partition, 0, len(pages))}
	for _, idx := range pages {
		manifest.Partitions = append(manifest.Partitions, Partition{
			Name:  fmt.Sprintf("%s-%d.pdf", prefix, idx.Number()),
			Pages: []PageIndex{idx},
		})
	}

	return manifest, nil
}

type rangesStrategy struct{}

func (rangesStrategy) Mode() SplitMode { return SplitModeRanges }

func (rangesStrategy) CanRun(in StrategyInput) error {
	spec, rejected := ParseRanges(in.Params.RangeExpression, in.PageCount)
	if spec.Empty() {
		if len(rejected) > 0 {
			return NewPreconditionError(ReasonEmptyRanges, "no valid range in '%s' (pages 1-%d)", in.Params.RangeExpression, in.PageCount)
		}
		return NewPreconditionError(ReasonEmptyRanges, "enter at least one page range")
	}

	return nil
}

func (s rangesStrategy) Partition(in StrategyInput) (*Manifest, error) {
	prefix := in.Params.SanitizedPrefix()
	spec, _ := ParseRanges(in.Params.RangeExpression, in.PageCount)

	names := newNameSet()
	manifest := &Manifest{Mode: s.Mode(), Partitions: make([]Partition, 0, len(spec))}
	for _, group := range spec {
		var stem string
		if len(group) == 1 {
			stem = fmt.Sprintf("%s-%d", prefix, group.First().Number())
		} else {
			stem = fmt.Sprintf("%s-%d-%d", prefix, group.First().Number(), group.Last().Number())
		}

		manifest.Partitions = append(manifest.Partitions, Partition{
			Name:  names.unique(stem, ".pdf"),
			Pages: []PageIndex(group),
		})
	}

	return manifest, nil
}

type equalPartsStrategy struct{}

func (equalPartsStrategy) Mode() SplitMode { return SplitModeEqualParts }

func (equalPartsStrategy) CanRun(in StrategyInput) error {
	if in.PageCount < 1 {
		return NewPreconditionError(ReasonEmptyDocument, "the document has no pages")
	}

	if in.Params.EqualParts < 1 || in.Params.EqualParts > in.PageCount {
		return NewPreconditionError(ReasonPartsOutOfBounds, "the number of parts must be between 1 and %d", in.PageCount)
	}

	return nil
}

func (s equalPartsStrategy) Partition(in StrategyInput) (*Manifest, error) {
	prefix := in.Params.SanitizedPrefix()
	parts := in.Params.EqualParts
	chunkSize := (in.PageCount + parts - 1) / parts

	manifest := &Manifest{Mode: s.Mode(), Partitions: make([]Partition, 0, parts)}
	for part := range parts {
		start := part * chunkSize
		if start >= in.PageCount {
			break
		}

		end := min(start+chunkSize, in.PageCount)

		pages := make([]PageIndex, 0, end-start)
		for i := start; i < end; i++ {
			pages = append(pages, PageIndex(i))
		}

		manifest.Partitions = append(manifest.Partitions, Partition{
			Name:  fmt.Sprintf("%s-part-%d.pdf", prefix, part+1),
			Pages: pages,
		})
	}

	return manifest, nil
}

type extractSingleStrategy struct{}

func (extractSingleStrategy) Mode() SplitMode { return SplitModeExtractSingle }

func (extractSingleStrategy) CanRun(in StrategyInput) error {
	return requireSelection(in)
}

func (s extractSingleStrategy) Partition(in StrategyInput) (*Manifest, error) {
	return &Manifest{
		Mode: s.Mode(),
		Partitions: []Partition{
			{
				Name:  fmt.Sprintf("%s-extract.pdf", in.Params.SanitizedPrefix()),
				Pages: in.Selection.Pages(),
			},
		},
	}, nil
}

type nameSet map[string]struct{}

func newNameSet() nameSet {
	return nameSet{}
}

// unique returns stem+ext, suffixed with _2, _3... when already taken.
func (s nameSet) unique(stem string, ext string) string {
	name := stem + ext
	for i := 2; ; i++ {
		if _, taken := s[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}

	s[name] = struct{}{}

	return name
}

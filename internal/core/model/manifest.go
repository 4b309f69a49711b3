package model

import (
	"github.com/pkg/errors"
)

const ContentTypePDF = "application/pdf"

// Partition is a named group of pages destined to become one output artifact.
// Its pages are always in ascending order.
type Partition struct {
	Name  string
	Pages []PageIndex
}

type Manifest struct {
	Mode       SplitMode
	Partitions []Partition
}

func (m *Manifest) Len() int {
	return len(m.Partitions)
}

// Validate checks that every partition holds pages and that names are unique.
func (m *Manifest) Validate() error {
	names := make(map[string]struct{}, len(m.Partitions))
	for i, p := range m.Partitions {
		if len(p.Pages) == 0 {
			return errors.Errorf("partition #%d '%s' has no pages", i, p.Name)
		}

		if _, exists := names[p.Name]; exists {
			return errors.Errorf("partition name '%s' is not unique", p.Name)
		}

		names[p.Name] = struct{}{}
	}

	return nil
}

// Artifact is the materialized output of a manifest partition.
type Artifact struct {
	Name  string
	Pages []PageIndex
	Data  []byte
}

func (a Artifact) Size() int {
	return len(a.Data)
}

// ChainPayload is an artifact packaged for consumption by another tool.
type ChainPayload struct {
	Name        string
	ContentType string
	Origin      string
	Data        []byte
}

type DeliveryKind string

const (
	DeliveryKindSingle  DeliveryKind = "single"
	DeliveryKindArchive DeliveryKind = "archive"
)

// Delivery is what is handed to the user once a split is downloaded: either a
// single artifact as-is or an archive bundling all of them.
type Delivery struct {
	Kind        DeliveryKind
	Name        string
	ContentType string
	Data        []byte
	// Names of the artifacts contained in the delivery
	Entries []string
}

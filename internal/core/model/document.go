package model

import (
	"bytes"
	"io"

	"github.com/rs/xid"
)

type DocumentID string

func NewDocumentID() DocumentID {
	return DocumentID(xid.New().String())
}

// Document is a loaded multi-page artifact. Its content is never modified
// after creation, which allows concurrent readers.
type Document struct {
	id        DocumentID
	name      string
	pageCount int
	data      []byte
}

func (d *Document) ID() DocumentID {
	return d.id
}

func (d *Document) Name() string {
	return d.name
}

func (d *Document) PageCount() int {
	return d.pageCount
}

func (d *Document) Size() int {
	return len(d.data)
}

// Reader returns a new independent reader over the document content.
func (d *Document) Reader() io.ReadSeeker {
	return bytes.NewReader(d.data)
}

func NewDocument(name string, pageCount int, data []byte) *Document {
	return &Document{
		id:        NewDocumentID(),
		name:      name,
		pageCount: pageCount,
		data:      bytes.Clone(data),
	}
}

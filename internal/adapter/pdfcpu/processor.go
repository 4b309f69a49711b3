package pdfcpu

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

func init() {
	api.DisableConfigDir()
}

// Processor loads and copies PDF documents with pdfcpu.
type Processor struct {
	userPassword  string
	ownerPassword string
	validate      bool
}

// Load implements [port.DocumentLoader].
func (p *Processor) Load(ctx context.Context, name string, data []byte) (*model.Document, error) {
	if mime := mimetype.Detect(data); !mime.Is(model.ContentTypePDF) {
		return nil, errors.Wrapf(port.ErrNotADocument, "'%s' is '%s'", name, mime.String())
	}

	pdfCtx, err := p.read(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return model.NewDocument(name, pdfCtx.PageCount, data), nil
}

// CopyPages implements [port.DocumentCopier].
//
// Each call reads its own context from the immutable document bytes, so
// concurrent copies never share pdfcpu state.
func (p *Processor) CopyPages(ctx context.Context, doc *model.Document, pages []model.PageIndex) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New("no pages to copy")
	}

	for _, idx := range pages {
		if !idx.In(doc.PageCount()) {
			return nil, errors.Errorf("page %d is out of range 1-%d", idx.Number(), doc.PageCount())
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	pdfCtx, err := p.read(doc.Reader())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	extracted, err := pdfcpu.ExtractPages(pdfCtx, model.PageNumbers(pages), false)
	if err != nil {
		return nil, errors.Wrap(err, "could not extract pages")
	}

	var buf bytes.Buffer
	if err := api.WriteContext(extracted, &buf); err != nil {
		return nil, errors.Wrap(err, "could not write document")
	}

	return buf.Bytes(), nil
}

func (p *Processor) read(rs io.ReadSeeker) (*pdfmodel.Context, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.UserPW = p.userPassword
	conf.OwnerPW = p.ownerPassword

	var (
		pdfCtx *pdfmodel.Context
		err    error
	)

	if p.validate {
		pdfCtx, err = api.ReadValidateAndOptimize(rs, conf)
	} else {
		pdfCtx, err = api.ReadContext(rs, conf)
		if err == nil {
			err = pdfCtx.EnsurePageCount()
		}
	}
	if err != nil {
		if isEncryptionError(err) {
			return nil, errors.Wrap(port.ErrEncrypted, err.Error())
		}

		return nil, errors.Wrap(port.ErrNotADocument, err.Error())
	}

	return pdfCtx, nil
}

func isEncryptionError(err error) bool {
	if errors.Is(err, pdfcpu.ErrWrongPassword) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}

type Option func(p *Processor)

func WithPasswords(user, owner string) Option {
	return func(p *Processor) {
		p.userPassword = user
		p.ownerPassword = owner
	}
}

func WithValidation(validate bool) Option {
	return func(p *Processor) {
		p.validate = validate
	}
}

func NewProcessor(options ...Option) *Processor {
	p := &Processor{
		validate: true,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

var _ port.DocumentProcessor = &Processor{}

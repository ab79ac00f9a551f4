package extract

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is one uploaded PDF, held in memory for the duration of a single
// conversion call. Every strategy attempt re-reads it from the start, so the
// converter calls Reset before each attempt.
type Document struct {
	name string
	data []byte
	r    *bytes.Reader
}

// NewDocument buffers the full stream. The name is used only for naming the
// serialized output, never for behavior.
func NewDocument(name string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return FromBytes(name, data), nil
}

// FromBytes wraps an already-buffered document.
func FromBytes(name string, data []byte) *Document {
	return &Document{name: name, data: data, r: bytes.NewReader(data)}
}

func (d *Document) Name() string { return d.name }

func (d *Document) Size() int64 { return int64(len(d.data)) }

// Reset repositions the document to its start.
func (d *Document) Reset() {
	_, _ = d.r.Seek(0, io.SeekStart)
}

// Info is the result of the pdfcpu preflight probe.
type Info struct {
	Pages int
}

// Inspect runs a structural read+validate pass over the document and reports
// its page count. A failure here does not stop the fallback chain; each
// strategy still raises its own ExtractionError on an unreadable file.
func (d *Document) Inspect() (Info, error) {
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(d.data), model.NewDefaultConfiguration())
	if err != nil {
		return Info{}, fmt.Errorf("pdfcpu read: %w", err)
	}
	return Info{Pages: pctx.PageCount}, nil
}

// reader opens the in-memory PDF for page-level access.
func (d *Document) reader() (*pdf.Reader, error) {
	return pdf.NewReader(bytes.NewReader(d.data), int64(len(d.data)))
}

// WithTempFile materializes the document as a scoped *.pdf copy under
// baseDir (empty means the system temp dir) and calls fn with its path. The
// copy is removed on every exit path; a cleanup failure is logged and never
// masks fn's outcome.
func (d *Document) WithTempFile(baseDir string, fn func(path string) error) error {
	dir, err := os.MkdirTemp(baseDir, "convertd-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			slog.Warn("temp cleanup failed", "dir", dir, "error", rmErr)
		}
	}()

	path := filepath.Join(dir, "doc-"+uuid.NewString()+".pdf")
	if err := os.WriteFile(path, d.data, 0o600); err != nil {
		return fmt.Errorf("write temp copy: %w", err)
	}
	return fn(path)
}

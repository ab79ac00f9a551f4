package extract

import (
	"context"
	"fmt"
)

// Strategy is one extraction technique. Extract reads the document from its
// start (the converter resets it before every attempt) and returns whatever
// raw shape the technique produces. An empty Output is a valid result; an
// error means the machinery could not open or parse the document at all.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, doc *Document) (Output, error)
}

// RawTable is one detected table on one page. Rows are ordered; the first
// row is the header candidate.
type RawTable struct {
	Page int
	Rows [][]string
}

// RawTextBlock is the line-oriented text of one page. Lines are trimmed and
// non-empty.
type RawTextBlock struct {
	Page  int
	Lines []string
}

// Output is the raw result of one strategy attempt. The structured strategy
// may populate both slices in the same attempt (text fallback is per page).
type Output struct {
	Tables     []RawTable
	TextBlocks []RawTextBlock
}

// Empty reports whether the attempt produced nothing at all.
func (o Output) Empty() bool {
	return len(o.Tables) == 0 && len(o.TextBlocks) == 0
}

// ExtractionError means a strategy's machinery failed outright on this
// document (corrupt file, encrypted content). The converter recovers from
// it by falling through to the next strategy.
type ExtractionError struct {
	Strategy string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Strategy, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func extractionError(strategy string, err error) *ExtractionError {
	return &ExtractionError{Strategy: strategy, Err: err}
}

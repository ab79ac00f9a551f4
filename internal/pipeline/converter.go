package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docparse/convertd/constants"
	"github.com/docparse/convertd/internal/extract"
)

// Converter resolves a requested method into an ordered attempt list, runs
// the attempts, and returns the first acceptable normalized result. One
// Converter serves all requests; it holds no per-request state.
type Converter struct {
	order  []extract.Strategy
	byName map[string]extract.Strategy
	log    *slog.Logger
}

// NewConverter builds a converter whose "auto" fallback walks order front
// to back.
func NewConverter(order []extract.Strategy, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	byName := make(map[string]extract.Strategy, len(order))
	for _, s := range order {
		byName[s.Name()] = s
	}
	return &Converter{order: order, byName: byName, log: log}
}

// Convert runs the fallback chain for doc. Success means a non-empty,
// non-sentinel rowset; the result records which strategy produced it.
// Extraction errors are retried via fallback and only surface inside
// AllStrategiesFailedError once every strategy is exhausted.
func (c *Converter) Convert(ctx context.Context, doc *extract.Document, method string) (*Result, error) {
	strategies, err := c.resolve(method)
	if err != nil {
		return nil, err
	}

	pages := 0
	if info, err := doc.Inspect(); err != nil {
		c.log.Warn("convert.inspect.failed", "doc", doc.Name(), "error", err)
	} else {
		pages = info.Pages
	}

	var attempted []string
	var lastErr error
	for _, s := range strategies {
		attempted = append(attempted, s.Name())
		rs, err := c.attempt(ctx, s, doc)
		if err != nil {
			c.log.Warn("convert.attempt.failed", "strategy", s.Name(), "doc", doc.Name(), "error", err)
			lastErr = err
			continue
		}
		if len(rs.Rows) == 0 || rs.IsSentinel() {
			// Not a hard failure, just nothing usable from this strategy.
			c.log.Debug("convert.attempt.empty", "strategy", s.Name(), "doc", doc.Name())
			continue
		}
		c.log.Info("convert.ok",
			"strategy", s.Name(),
			"doc", doc.Name(),
			"rows", len(rs.Rows),
			"columns", len(rs.Columns),
		)
		return &Result{
			Columns:  rs.Columns,
			Rows:     rs.Rows,
			Strategy: s.Name(),
			RowCount: len(rs.Rows),
			Pages:    pages,
		}, nil
	}
	return nil, &AllStrategiesFailedError{Attempted: attempted, LastErr: lastErr}
}

// attempt runs one strategy against a freshly repositioned document. PDF
// parsing machinery is known to panic on malformed files; a panic is demoted
// to an ExtractionError so the fallback chain keeps going.
func (c *Converter) attempt(ctx context.Context, s extract.Strategy, doc *extract.Document) (rs *Rowset, err error) {
	defer func() {
		if r := recover(); r != nil {
			rs = nil
			err = &extract.ExtractionError{Strategy: s.Name(), Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()
	doc.Reset()
	out, err := s.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	return Normalize(out), nil
}

func (c *Converter) resolve(method string) ([]extract.Strategy, error) {
	if method == "" || method == constants.MethodAuto {
		return c.order, nil
	}
	canonical, ok := constants.CanonicalStrategy(method)
	if !ok {
		return nil, &InvalidStrategyError{Method: method}
	}
	s, ok := c.byName[canonical]
	if !ok {
		return nil, &InvalidStrategyError{Method: method}
	}
	return []extract.Strategy{s}, nil
}

package extract

import (
	"context"
	"log/slog"

	"github.com/docparse/convertd/constants"
)

// structuredMinRowsPct is how often a vertical gap must recur on a page
// before it counts as a table column boundary.
const structuredMinRowsPct = 50

// Structured is the per-page table detector. Pages where no table structure
// is found fall back to that page's text lines, so one attempt may mix
// tables and text blocks.
type Structured struct {
	log *slog.Logger
}

func NewStructured(log *slog.Logger) *Structured {
	if log == nil {
		log = slog.Default()
	}
	return &Structured{log: log}
}

func (s *Structured) Name() string { return constants.StrategyStructured }

func (s *Structured) Extract(ctx context.Context, doc *Document) (Output, error) {
	r, err := doc.reader()
	if err != nil {
		return Output{}, extractionError(s.Name(), err)
	}

	var out Output
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Output{}, extractionError(s.Name(), err)
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows := groupRows(page.Content().Text)
		if len(rows) == 0 {
			continue
		}

		bounds := columnBoundaries(rows, structuredMinRowsPct)
		if len(bounds) > 0 && len(rows) >= 2 {
			table := RawTable{Page: i}
			for _, row := range rows {
				table.Rows = append(table.Rows, splitRow(row, bounds))
			}
			out.Tables = append(out.Tables, table)
			s.log.Debug("extract.structured.table", "page", i, "rows", len(table.Rows), "cols", len(bounds)+1)
			continue
		}

		// No table on this page; keep its text lines instead.
		block := RawTextBlock{Page: i}
		for _, row := range rows {
			if line := rowText(row); line != "" {
				block.Lines = append(block.Lines, line)
			}
		}
		if len(block.Lines) > 0 {
			out.TextBlocks = append(out.TextBlocks, block)
		}
	}
	return out, nil
}

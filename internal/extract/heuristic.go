package extract

import (
	"context"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/docparse/convertd/constants"
)

// heuristicMinRowsPct is lower than the structured threshold because the
// gap histogram here spans every row of the document, not one page.
const heuristicMinRowsPct = 25

// Heuristic detects tables over the whole document at once: one gap
// histogram across every text row decides the column boundaries, and every
// page is read against those shared boundaries. A page contributing no table
// rows contributes nothing, not even text. The underlying reader wants a
// file on local storage, so the attempt runs against a scoped temp copy.
type Heuristic struct {
	tempDir string
	log     *slog.Logger
}

func NewHeuristic(tempDir string, log *slog.Logger) *Heuristic {
	if log == nil {
		log = slog.Default()
	}
	return &Heuristic{tempDir: tempDir, log: log}
}

func (h *Heuristic) Name() string { return constants.StrategyHeuristic }

func (h *Heuristic) Extract(ctx context.Context, doc *Document) (Output, error) {
	var out Output
	err := doc.WithTempFile(h.tempDir, func(path string) error {
		f, r, err := pdf.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		type pageRows struct {
			page int
			rows [][]pdf.Text
		}
		var pages []pageRows
		var allRows [][]pdf.Text
		for i := 1; i <= r.NumPage(); i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			page := r.Page(i)
			if page.V.IsNull() {
				continue
			}
			rows := groupRows(page.Content().Text)
			if len(rows) == 0 {
				continue
			}
			pages = append(pages, pageRows{page: i, rows: rows})
			allRows = append(allRows, rows...)
		}

		bounds := columnBoundaries(allRows, heuristicMinRowsPct)
		if len(bounds) == 0 {
			// No recurring column structure anywhere: empty result,
			// the converter decides what happens next.
			h.log.Debug("extract.heuristic.no_columns", "rows", len(allRows))
			return nil
		}

		for _, pr := range pages {
			if len(pr.rows) < 2 {
				continue
			}
			table := RawTable{Page: pr.page}
			for _, row := range pr.rows {
				table.Rows = append(table.Rows, splitRow(row, bounds))
			}
			out.Tables = append(out.Tables, table)
		}
		return nil
	})
	if err != nil {
		return Output{}, extractionError(h.Name(), err)
	}
	return out, nil
}

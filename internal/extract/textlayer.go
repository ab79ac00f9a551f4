package extract

import (
	"context"
	"log/slog"

	"github.com/docparse/convertd/constants"
)

// TextLayer extracts plain text lines per page from the positioned text
// layer, reconstructing line breaks by Y clustering. It never produces
// tables and is the last-resort floor: any page with an extractable text
// layer yields rows here.
type TextLayer struct {
	log *slog.Logger
}

func NewTextLayer(log *slog.Logger) *TextLayer {
	if log == nil {
		log = slog.Default()
	}
	return &TextLayer{log: log}
}

func (t *TextLayer) Name() string { return constants.StrategyTextLayer }

func (t *TextLayer) Extract(ctx context.Context, doc *Document) (Output, error) {
	r, err := doc.reader()
	if err != nil {
		return Output{}, extractionError(t.Name(), err)
	}

	var out Output
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Output{}, extractionError(t.Name(), err)
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		block := RawTextBlock{Page: i}
		for _, row := range groupRows(page.Content().Text) {
			if line := rowText(row); line != "" {
				block.Lines = append(block.Lines, line)
			}
		}
		if len(block.Lines) > 0 {
			t.log.Debug("extract.textlayer.page", "page", i, "lines", len(block.Lines))
			out.TextBlocks = append(out.TextBlocks, block)
		}
	}
	return out, nil
}

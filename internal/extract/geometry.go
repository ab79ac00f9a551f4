package extract

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Tolerances for positioned-text analysis. Values are in PDF points and were
// tuned against common report-style documents.
const (
	rowTolerance        = 3.0  // max Y delta for words on the same visual row
	columnGapThreshold  = 14.0 // min horizontal gap treated as a column break
	gapBucketSize       = 18.0 // X bucketing for the gap histogram
	wordSpaceMultiplier = 0.3  // fraction of font size treated as a word break
	minWordGap          = 3.0  // word-break floor when font size is unknown
)

// groupRows clusters positioned text into visual rows (top to bottom), sorts
// each row left to right, and merges per-glyph elements into words. The
// reader reports one element per glyph; whitespace glyphs separate words and
// are consumed. PDF Y grows upward, so higher Y means earlier row.
func groupRows(texts []pdf.Text) [][]pdf.Text {
	kept := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Y != kept[j].Y {
			return kept[i].Y > kept[j].Y
		}
		return kept[i].X < kept[j].X
	})

	var rows [][]pdf.Text
	current := []pdf.Text{kept[0]}
	anchorY := kept[0].Y
	flush := func() {
		if row := mergeWords(sortRowByX(current)); len(row) > 0 {
			rows = append(rows, row)
		}
	}
	for _, t := range kept[1:] {
		if anchorY-t.Y <= rowTolerance {
			current = append(current, t)
			continue
		}
		flush()
		current = []pdf.Text{t}
		anchorY = t.Y
	}
	flush()
	return rows
}

func sortRowByX(row []pdf.Text) []pdf.Text {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	return row
}

// mergeWords joins adjacent glyphs of an X-sorted row into word-level
// elements. A whitespace glyph or a horizontal jump wider than the
// word-break threshold starts a new word.
func mergeWords(row []pdf.Text) []pdf.Text {
	var words []pdf.Text
	var cur *pdf.Text
	flush := func() {
		if cur != nil && strings.TrimSpace(cur.S) != "" {
			words = append(words, *cur)
		}
		cur = nil
	}
	for _, t := range row {
		if strings.TrimSpace(t.S) == "" {
			flush()
			continue
		}
		if cur == nil {
			w := t
			cur = &w
			continue
		}
		threshold := wordSpaceMultiplier * cur.FontSize
		if threshold < minWordGap {
			threshold = minWordGap
		}
		if t.X-(cur.X+cur.W) > threshold {
			flush()
			w := t
			cur = &w
			continue
		}
		cur.S += t.S
		if end := t.X + t.W; end > cur.X+cur.W {
			cur.W = end - cur.X
		}
	}
	flush()
	return words
}

// columnBoundaries builds a gap histogram across rows and returns the X
// positions of vertical gaps that recur in at least minRowsPct percent of
// the rows. A table needs at least one recurring boundary (two columns).
func columnBoundaries(rows [][]pdf.Text, minRowsPct int) []float64 {
	gapCounts := make(map[int]int)
	for _, row := range rows {
		for i := 0; i < len(row)-1; i++ {
			gapLeft := row[i].X + row[i].W
			gapRight := row[i+1].X
			if gapRight-gapLeft < columnGapThreshold {
				continue
			}
			bucket := int((gapLeft + gapRight) / 2 / gapBucketSize)
			gapCounts[bucket]++
		}
	}

	minRows := len(rows) * minRowsPct / 100
	if minRows < 2 {
		minRows = 2
	}
	var bounds []float64
	for bucket, count := range gapCounts {
		if count >= minRows {
			bounds = append(bounds, float64(bucket)*gapBucketSize+gapBucketSize/2)
		}
	}
	sort.Float64s(bounds)
	return bounds
}

// splitRow distributes a row's words over the columns delimited by bounds
// and joins words within a cell by single spaces.
func splitRow(row []pdf.Text, bounds []float64) []string {
	cells := make([]string, len(bounds)+1)
	for _, t := range row {
		col := sort.SearchFloat64s(bounds, t.X)
		if cells[col] != "" {
			cells[col] += " "
		}
		cells[col] += strings.TrimSpace(t.S)
	}
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// rowText flattens a visual row into one text line.
func rowText(row []pdf.Text) string {
	var b strings.Builder
	for _, t := range row {
		s := strings.TrimSpace(t.S)
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}

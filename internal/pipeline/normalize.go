package pipeline

import (
	"fmt"
	"strconv"

	"github.com/docparse/convertd/internal/extract"
)

// Metadata columns attached to every normalized row. ColTable is only
// present on table-derived rows.
const (
	ColPage    = "page"
	ColTable   = "table"
	ColContent = "content"
	ColMessage = "message"
)

// noContentMessage is the sentinel row value for an attempt that produced
// nothing. It is a safe terminal value for the normalizer, never a success:
// the converter treats a sentinel rowset as a failed attempt.
const noContentMessage = "No extractable content found in PDF"

// Row maps column name to cell value. Absent columns are absent keys, not
// empty strings; serialization decides how to render them.
type Row map[string]string

// Rowset is the uniform shape every strategy output normalizes into:
// ordered rows plus the unified column list in first-seen order.
type Rowset struct {
	Columns []string
	Rows    []Row
}

// IsSentinel reports whether the rowset is the "no content" placeholder.
func (rs *Rowset) IsSentinel() bool {
	return len(rs.Rows) == 1 && len(rs.Columns) == 1 &&
		rs.Columns[0] == ColMessage && rs.Rows[0][ColMessage] == noContentMessage
}

// Normalize converts one strategy attempt's raw output into a Rowset.
// Tables keep their own column names (header row, with Column_<i> synthesized
// for blank cells); text blocks contribute a single content column. Columns
// that only some tables have stay in the unified list as sparse columns;
// rows are never dropped for a column mismatch.
func Normalize(out extract.Output) *Rowset {
	rs := &Rowset{}
	seen := make(map[string]struct{})
	addColumn := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			rs.Columns = append(rs.Columns, name)
		}
	}

	tablePerPage := make(map[int]int)
	for _, t := range out.Tables {
		if len(t.Rows) == 0 {
			continue
		}
		tablePerPage[t.Page]++
		tableIdx := tablePerPage[t.Page]

		cols := headerColumns(t.Rows[0])
		for _, c := range cols {
			addColumn(c)
		}
		addColumn(ColPage)
		addColumn(ColTable)

		for _, raw := range t.Rows[1:] {
			row := Row{}
			for i, cell := range raw {
				if i >= len(cols) {
					break
				}
				row[cols[i]] = cell
			}
			row[ColPage] = strconv.Itoa(t.Page)
			row[ColTable] = strconv.Itoa(tableIdx)
			rs.Rows = append(rs.Rows, row)
		}
	}

	for _, b := range out.TextBlocks {
		if len(b.Lines) == 0 {
			continue
		}
		addColumn(ColContent)
		addColumn(ColPage)
		for _, line := range b.Lines {
			rs.Rows = append(rs.Rows, Row{
				ColContent: line,
				ColPage:    strconv.Itoa(b.Page),
			})
		}
	}

	if len(rs.Rows) == 0 {
		rs.Columns = []string{ColMessage}
		rs.Rows = []Row{{ColMessage: noContentMessage}}
	}
	return rs
}

// headerColumns turns a header candidate row into column names, synthesizing
// Column_<i> for blank cells.
func headerColumns(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		if h == "" {
			cols[i] = fmt.Sprintf("Column_%d", i)
			continue
		}
		cols[i] = h
	}
	return cols
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docparse/convertd/internal/extract"
)

func TestNormalizeTableWithHeader(t *testing.T) {
	rs := Normalize(extract.Output{Tables: []extract.RawTable{{
		Page: 2,
		Rows: [][]string{
			{"Name", "Amount"},
			{"Coffee", "4.50"},
			{"Bagel", "2.25"},
		},
	}}})

	assert.Equal(t, []string{"Name", "Amount", ColPage, ColTable}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, Row{"Name": "Coffee", "Amount": "4.50", ColPage: "2", ColTable: "1"}, rs.Rows[0])
	assert.Equal(t, Row{"Name": "Bagel", "Amount": "2.25", ColPage: "2", ColTable: "1"}, rs.Rows[1])
	assert.False(t, rs.IsSentinel())
}

func TestNormalizeSynthesizesColumnNames(t *testing.T) {
	rs := Normalize(extract.Output{Tables: []extract.RawTable{{
		Page: 1,
		Rows: [][]string{
			{"", "Amount", ""},
			{"Coffee", "4.50", "hot"},
		},
	}}})

	assert.Equal(t, []string{"Column_0", "Amount", "Column_2", ColPage, ColTable}, rs.Columns)
	assert.Equal(t, "Coffee", rs.Rows[0]["Column_0"])
	assert.Equal(t, "hot", rs.Rows[0]["Column_2"])
}

func TestNormalizeUnifiesDifferingColumnSets(t *testing.T) {
	rs := Normalize(extract.Output{Tables: []extract.RawTable{
		{
			Page: 1,
			Rows: [][]string{{"Name", "Amount"}, {"Coffee", "4.50"}},
		},
		{
			Page: 2,
			Rows: [][]string{{"Name", "Qty", "Unit"}, {"Beans", "3", "bag"}},
		},
	}})

	// First-seen order; differing columns preserved as sparse columns.
	assert.Equal(t, []string{"Name", "Amount", ColPage, ColTable, "Qty", "Unit"}, rs.Columns)
	require.Len(t, rs.Rows, 2)

	// Column-union law: at least as many columns as the widest table, and
	// every cell stays under its originating column, never shifted.
	assert.GreaterOrEqual(t, len(rs.Columns), 3)
	assert.Equal(t, "4.50", rs.Rows[0]["Amount"])
	_, hasQty := rs.Rows[0]["Qty"]
	assert.False(t, hasQty)
	assert.Equal(t, "3", rs.Rows[1]["Qty"])
	assert.Equal(t, "bag", rs.Rows[1]["Unit"])
	_, hasAmount := rs.Rows[1]["Amount"]
	assert.False(t, hasAmount)
}

func TestNormalizeCountsTablesPerPage(t *testing.T) {
	rs := Normalize(extract.Output{Tables: []extract.RawTable{
		{Page: 1, Rows: [][]string{{"A"}, {"x"}}},
		{Page: 1, Rows: [][]string{{"B"}, {"y"}}},
		{Page: 3, Rows: [][]string{{"C"}, {"z"}}},
	}})

	require.Len(t, rs.Rows, 3)
	assert.Equal(t, "1", rs.Rows[0][ColTable])
	assert.Equal(t, "2", rs.Rows[1][ColTable])
	assert.Equal(t, "1", rs.Rows[2][ColTable], "table index restarts per page")
	assert.Equal(t, "3", rs.Rows[2][ColPage])
}

func TestNormalizeTextBlocks(t *testing.T) {
	rs := Normalize(extract.Output{TextBlocks: []extract.RawTextBlock{
		{Page: 1, Lines: []string{"first line", "second line"}},
		{Page: 2, Lines: []string{"third line"}},
	}})

	assert.Equal(t, []string{ColContent, ColPage}, rs.Columns)
	require.Len(t, rs.Rows, 3)
	assert.Equal(t, Row{ColContent: "first line", ColPage: "1"}, rs.Rows[0])
	assert.Equal(t, Row{ColContent: "third line", ColPage: "2"}, rs.Rows[2])
	for _, row := range rs.Rows {
		_, hasTable := row[ColTable]
		assert.False(t, hasTable, "text rows carry no table field")
	}
}

func TestNormalizeMixedTablesAndText(t *testing.T) {
	rs := Normalize(extract.Output{
		Tables: []extract.RawTable{
			{Page: 1, Rows: [][]string{{"Name", "Amount"}, {"Coffee", "4.50"}}},
		},
		TextBlocks: []extract.RawTextBlock{
			{Page: 2, Lines: []string{"no table on this page"}},
		},
	})

	assert.Equal(t, []string{"Name", "Amount", ColPage, ColTable, ColContent}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, "no table on this page", rs.Rows[1][ColContent])
}

func TestNormalizeEmptyProducesSentinel(t *testing.T) {
	rs := Normalize(extract.Output{})

	assert.True(t, rs.IsSentinel())
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, []string{ColMessage}, rs.Columns)
	assert.Equal(t, noContentMessage, rs.Rows[0][ColMessage])
}

func TestNormalizeSkipsEmptyTablesAndBlocks(t *testing.T) {
	rs := Normalize(extract.Output{
		Tables:     []extract.RawTable{{Page: 1}},
		TextBlocks: []extract.RawTextBlock{{Page: 2}},
	})
	assert.True(t, rs.IsSentinel())
}

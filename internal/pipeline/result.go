package pipeline

// Result is the immutable output bundle handed to the serialization layer.
type Result struct {
	// Columns is the unified column list in first-seen order.
	Columns []string
	// Rows are the normalized rows; absent columns are absent keys.
	Rows []Row
	// Strategy is the canonical name of the strategy that produced the rows.
	Strategy string
	// RowCount equals len(Rows); kept as a field for serialization.
	RowCount int
	// Pages is the document page count from the preflight probe, 0 when the
	// probe failed.
	Pages int
}

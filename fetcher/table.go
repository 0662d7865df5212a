package fetcher

// Table is a raw CSV document: a header record followed by zero or more
// data records. Cells are kept as strings; interpretation belongs to the
// caller.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named header column
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

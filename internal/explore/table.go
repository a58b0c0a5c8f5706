package explore

// Table is a minimal labeled table: ordered columns and rows of string cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

func NewTable(columns ...string) *Table {
	t := &Table{
		columns: append([]string{}, columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	return t
}

func (t *Table) Columns() []string { return append([]string{}, t.columns...) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) Len() int { return len(t.rows) }

// Append adds a row. Missing trailing cells are left empty, extra cells are dropped.
func (t *Table) Append(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// AppendRecord adds a row from a column-keyed record; unknown keys are ignored.
func (t *Table) AppendRecord(rec map[string]string) {
	row := make([]string, len(t.columns))
	for k, v := range rec {
		if i, ok := t.index[k]; ok {
			row[i] = v
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Row(i int) []string { return append([]string{}, t.rows[i]...) }

func (t *Table) Value(row int, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	return t.rows[row][i], true
}

func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, true
}

// Each calls fn for every row in order and stops at the first error.
func (t *Table) Each(fn func(i int, row []string) error) error {
	for i, row := range t.rows {
		if err := fn(i, row); err != nil {
			return err
		}
	}
	return nil
}

// Drop returns a copy of the table without the named columns. Names that are not
// present are ignored.
func (t *Table) Drop(columns ...string) *Table {
	skip := map[string]struct{}{}
	for _, c := range columns {
		skip[c] = struct{}{}
	}
	keep := make([]int, 0, len(t.columns))
	names := make([]string, 0, len(t.columns))
	for i, c := range t.columns {
		if _, ok := skip[c]; ok {
			continue
		}
		keep = append(keep, i)
		names = append(names, c)
	}
	out := NewTable(names...)
	for _, row := range t.rows {
		nr := make([]string, len(keep))
		for j, i := range keep {
			nr[j] = row[i]
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

package datasource

// MaxRowsPerStatement caps multi-row insert statements.
const MaxRowsPerStatement = 200

// RowsPerStatement returns how many rows of width columns fit in one
// statement for d, honoring both MaxRowsPerStatement and the dialect's bind
// parameter limit.
func RowsPerStatement(d Dialect, columns int) int {
	if columns <= 0 {
		return MaxRowsPerStatement
	}
	n := MaxRowsPerStatement
	if byParams := d.MaxParams() / columns; byParams < n {
		n = byParams
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Chunk splits rows into consecutive slices of at most size rows.
func Chunk[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	chunks := make([][]T, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// NonKeyColumns returns the columns not listed in keys, in order.
func NonKeyColumns(columns, keys []string) []string {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !isKey[c] {
			out = append(out, c)
		}
	}
	return out
}

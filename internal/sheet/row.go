// Package sheet provides the loosely-typed row representation shared by all
// catalog transports, along with the parsers that produce it.
package sheet

import "strings"

// Row is a single spreadsheet row keyed by lower-cased, trimmed header names.
type Row map[string]string

// RowsFromValues converts a 2D array of string cells (as returned by the
// spreadsheet values endpoint) into header-keyed rows. The first row is
// treated as headers. Rows shorter than the header are padded with empty
// strings; surplus cells beyond the header are ignored.
func RowsFromValues(values [][]string) []Row {
	if len(values) < 2 {
		return []Row{}
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(values)-1)
	for _, cells := range values[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = strings.TrimSpace(cells[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

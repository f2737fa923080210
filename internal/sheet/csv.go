package sheet

import "strings"

// ParseCSV parses comma-delimited text into header-keyed rows. It is pure
// (no I/O) and total: malformed quoting never fails, an unterminated quote
// simply consumes the rest of the input.
//
// Rules: fields are comma-delimited; a field wrapped in double quotes may
// contain commas and newlines; a doubled double-quote inside a quoted field
// decodes to one quote; blank lines are ignored; rows shorter than the
// header are padded with empty strings. Empty or header-only input yields
// an empty row list.
func ParseCSV(text string) []Row {
	records := splitRecords(text)
	if len(records) < 2 {
		return []Row{}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// splitRecords tokenizes raw CSV text into records of raw field values,
// honoring quoting. Records that contain nothing but empty fields (blank
// lines, trailing newlines) are dropped.
func splitRecords(text string) [][]string {
	var records [][]string
	var record []string
	var field strings.Builder

	flushField := func() {
		record = append(record, field.String())
		field.Reset()
	}
	flushRecord := func() {
		flushField()
		if !blankRecord(record) {
			records = append(records, record)
		}
		record = nil
	}

	inQuotes := false
	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			flushField()
		case '\r':
			// CR is swallowed; the following LF ends the record.
		case '\n':
			flushRecord()
		default:
			field.WriteByte(c)
		}
	}

	if field.Len() > 0 || len(record) > 0 {
		flushRecord()
	}

	return records
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

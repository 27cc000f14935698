package export

import (
	"encoding/csv"
	"io"
	"strings"
)

// utf8BOM makes spreadsheet applications detect UTF-8, which matters for
// Thai labels and values.
const utf8BOM = "\xEF\xBB\xBF"

// formulaPrefixes are the characters spreadsheet applications interpret as
// the start of a formula. Cells beginning with one are neutralized before
// they reach the encoder.
var formulaPrefixes = [...]byte{'=', '+', '-', '@', '\t', '\r'}

// SanitizeCell prefixes formula-triggering cells with an apostrophe so a
// downloaded CSV cannot execute in a spreadsheet. Quoting and escaping stay
// with the CSV encoder; this only defuses the formula interpretation.
func SanitizeCell(s string) string {
	if s == "" {
		return s
	}
	for _, p := range formulaPrefixes {
		if s[0] == p {
			return "'" + s
		}
	}
	return s
}

// WriteCSV streams the table as UTF-8 CSV with a BOM. Header cells carry the
// column labels; every cell passes through SanitizeCell first.
func WriteCSV(w io.Writer, t Table) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = SanitizeCell(c.Label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i := range row {
			cell := ""
			if i < len(r) {
				cell = r[i]
			}
			row[i] = SanitizeCell(cell)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFilename builds the attachment filename for an export.
func CSVFilename(kind string) string {
	return strings.ToLower(kind) + "_export.csv"
}

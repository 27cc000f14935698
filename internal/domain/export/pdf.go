package export

import (
	"context"
	"io"
	"strings"
)

// PDFOptions carries layout hints for a renderer.
type PDFOptions struct {
	// Title is printed above the table.
	Title string
	// PageWidth is the printable width in renderer units.
	PageWidth float64
	// ColumnWidths holds one width per column, computed from PageWidth.
	ColumnWidths []float64
	// Filters summarizes the query that produced the table, printed in the
	// report header so a reader knows what the page is a slice of.
	Filters map[string]string
}

// FilterSummary builds the query summary for the report header. Empty
// criteria are left out rather than printed as blanks.
func FilterSummary(kind, search string, fieldKeys []string) map[string]string {
	summary := map[string]string{"kind": kind}
	if search != "" {
		summary["search"] = search
	}
	if len(fieldKeys) > 0 {
		summary["fields"] = strings.Join(fieldKeys, ", ")
	}
	return summary
}

// PDFRenderer turns a table into PDF bytes. The concrete renderer lives at
// the edge of the system; the projector only prepares the table and the
// layout hints.
type PDFRenderer interface {
	Render(ctx context.Context, w io.Writer, t Table, opts PDFOptions) error
}

// PDFLayout computes equal column widths from the printable page width and
// the actual column count, so tables with few columns spread out and tables
// with many columns shrink instead of overflowing.
func PDFLayout(title string, pageWidth float64, t Table) PDFOptions {
	opts := PDFOptions{Title: title, PageWidth: pageWidth}
	if len(t.Columns) == 0 {
		return opts
	}
	width := pageWidth / float64(len(t.Columns))
	opts.ColumnWidths = make([]float64, len(t.Columns))
	for i := range opts.ColumnWidths {
		opts.ColumnWidths[i] = width
	}
	return opts
}

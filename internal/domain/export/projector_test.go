package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradereg/internal/domain/records"
	"tradereg/internal/domain/schema"
)

func exportField(name, label string, ft schema.FieldType, order int) *schema.FieldDef {
	f := schema.NewFieldDef(schema.KindShop, name, label, ft)
	f.DisplayOrder = order
	return f
}

func testRecord(pairs ...any) *records.Record {
	rec := records.NewRecord()
	for i := 0; i < len(pairs); i += 2 {
		rec.Set(pairs[i].(string), pairs[i+1])
	}
	return rec
}

func TestBuild_DefaultSelection(t *testing.T) {
	hidden := exportField("internal_code", "Internal code", schema.TypeText, 3)
	hidden.ShowInTable = false
	retired := exportField("old_zone", "Old zone", schema.TypeText, 4)
	retired.IsActive = false

	in := BuildInput{
		BaseColumns: []Column{{Key: "name", Label: "ชื่อร้าน"}},
		Fields: []*schema.FieldDef{
			exportField("name", "Dynamic name", schema.TypeText, 1),
			exportField("zone", "โซน", schema.TypeText, 2),
			hidden,
			retired,
		},
		Records: []*records.Record{
			testRecord("name", "ร้านป้าสมศรี", "zone", "A"),
		},
	}

	table := Build(in)

	// Base column wins over the same-named field; hidden and retired fields
	// are dropped from the default selection.
	assert.Equal(t, []Column{
		{Key: "name", Label: "ชื่อร้าน"},
		{Key: "zone", Label: "โซน"},
	}, table.Columns)
	assert.Equal(t, [][]string{{"ร้านป้าสมศรี", "A"}}, table.Rows)
}

func TestBuild_FieldSubset(t *testing.T) {
	in := BuildInput{
		BaseColumns: []Column{{Key: "name", Label: "Name"}},
		Fields: []*schema.FieldDef{
			exportField("zone", "Zone", schema.TypeText, 1),
			exportField("stalls", "Stalls", schema.TypeNumber, 2),
			exportField("phone", "Phone", schema.TypePhone, 3),
		},
		// Subset picks and orders dynamic columns; base columns stay.
		FieldKeys: []string{"phone", "zone", "phone", "no_such_field", "name"},
		Records: []*records.Record{
			testRecord("name", "X", "zone", "A", "stalls", "12", "phone", "081-234-5678"),
		},
	}

	table := Build(in)

	assert.Equal(t, []Column{
		{Key: "name", Label: "Name"},
		{Key: "phone", Label: "Phone"},
		{Key: "zone", Label: "Zone"},
	}, table.Columns)
	assert.Equal(t, [][]string{{"X", "081-234-5678", "A"}}, table.Rows)
}

func TestBuild_CellFormatting(t *testing.T) {
	status := exportField("status", "Status", schema.TypeSelect, 4)
	status.FieldOptions = schema.Options{
		{Value: "open", Label: "เปิด"},
		{Value: "closed", Label: "ปิด"},
	}

	in := BuildInput{
		Fields: []*schema.FieldDef{
			exportField("opened_on", "Opened", schema.TypeDate, 1),
			exportField("fee", "Fee", schema.TypeNumber, 2),
			exportField("halal", "Halal", schema.TypeBoolean, 3),
			status,
		},
		Records: []*records.Record{
			testRecord("opened_on", "2026-01-31", "fee", "1250.50", "halal", true, "status", "open"),
			testRecord("opened_on", "31-01-2026", "fee", "oops", "halal", "yes", "status", "unknown"),
			testRecord(),
		},
	}

	table := Build(in)

	assert.Equal(t, [][]string{
		// Buddhist-era date, trimmed decimal, yes/no boolean, option label.
		{"31/01/2569", "1250.5", "yes", "เปิด"},
		// Malformed cells render as empty placeholders, never fail the build;
		// an unknown select value renders as itself.
		{"", "", "", "unknown"},
		{"", "", "", ""},
	}, table.Rows)
}

func TestBuild_BaseCellFormatting(t *testing.T) {
	issued := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	in := BuildInput{
		BaseColumns: []Column{
			{Key: "licenseNo", Label: "License no"},
			{Key: "issueDate", Label: "Issued"},
		},
		Records: []*records.Record{
			testRecord("licenseNo", "TR-2569/0042", "issueDate", issued),
		},
	}

	table := Build(in)
	assert.Equal(t, [][]string{{"TR-2569/0042", "31/08/2569"}}, table.Rows)
}

func TestFormatThaiDate(t *testing.T) {
	assert.Equal(t, "31/08/2569", FormatThaiDate(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "01/01/2543", FormatThaiDate(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPDFLayout(t *testing.T) {
	table := Table{Columns: []Column{{Key: "a"}, {Key: "b"}, {Key: "c"}}}
	opts := PDFLayout("shop export", 780, table)

	assert.Equal(t, "shop export", opts.Title)
	assert.Equal(t, []float64{260, 260, 260}, opts.ColumnWidths)

	empty := PDFLayout("empty", 780, Table{})
	assert.Nil(t, empty.ColumnWidths)
}

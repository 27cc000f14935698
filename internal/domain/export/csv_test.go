package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeCell(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"=SUM(A1:A9)", "'=SUM(A1:A9)"},
		{"+66812345678", "'+66812345678"},
		{"-42", "'-42"},
		{"@cmd", "'@cmd"},
		{"\tpayload", "'\tpayload"},
		{"\rpayload", "'\rpayload"},
		{"ร้านขายของชำ", "ร้านขายของชำ"},
		{"plain text", "plain text"},
		{"a=b", "a=b"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeCell(tt.in), "input %q", tt.in)
	}
}

func TestWriteCSV(t *testing.T) {
	table := Table{
		Columns: []Column{
			{Key: "name", Label: "ชื่อร้าน"},
			{Key: "fee", Label: "Fee"},
		},
		Rows: [][]string{
			{"ร้านป้าสมศรี", "=1+1"},
		},
	}

	var buf bytes.Buffer
	err := WriteCSV(&buf, table)
	assert.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "missing UTF-8 BOM")
	assert.Equal(t, "\xEF\xBB\xBF"+"ชื่อร้าน,Fee\n"+"ร้านป้าสมศรี,'=1+1\n", out)
}

func TestWriteCSV_ShortRowPads(t *testing.T) {
	table := Table{
		Columns: []Column{{Label: "A"}, {Label: "B"}, {Label: "C"}},
		Rows:    [][]string{{"1"}},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, "\xEF\xBB\xBF"+"A,B,C\n1,,\n", buf.String())
}

func TestCSVFilename(t *testing.T) {
	assert.Equal(t, "shop_export.csv", CSVFilename("Shop"))
	assert.Equal(t, "license_export.csv", CSVFilename("license"))
}

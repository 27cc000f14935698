package records

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tradereg/internal/core/id"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
)

func catalogField(name string, ft schema.FieldType, order int) *schema.FieldDef {
	f := schema.NewFieldDef(schema.KindShop, name, name, ft)
	f.DisplayOrder = order
	return f
}

func TestProject_ColumnOrder(t *testing.T) {
	rowID := id.New()
	rows := []BaseRow{{
		ID: rowID,
		Cols: []BaseCol{
			{Key: "id", Value: rowID.String()},
			{Key: "name", Value: "ร้านป้าสมศรี"},
		},
	}}

	fields := []*schema.FieldDef{
		catalogField("contact_email", schema.TypeEmail, 1),
		catalogField("monthly_fee", schema.TypeNumber, 2),
	}
	cells := map[id.ID]map[string]values.Value{
		rowID: {
			"monthly_fee": values.Number(decimal.RequireFromString("450")),
		},
	}

	out := Project(rows, fields, cells)
	assert.Len(t, out, 1)

	// Base columns first, then catalog fields in catalog order; fields
	// without a cell still appear as null.
	assert.Equal(t, []string{"id", "name", "contact_email", "monthly_fee"}, out[0].Keys())

	v, ok := out[0].Get("contact_email")
	assert.True(t, ok)
	assert.Nil(t, v)

	fee, _ := out[0].Get("monthly_fee")
	assert.Equal(t, "450", fee.(decimal.Decimal).String())
}

func TestProject_InactiveFieldsExcluded(t *testing.T) {
	rowID := id.New()
	rows := []BaseRow{{ID: rowID, Cols: []BaseCol{{Key: "id", Value: rowID.String()}}}}

	retired := catalogField("old_code", schema.TypeText, 1)
	retired.IsActive = false
	fields := []*schema.FieldDef{retired, catalogField("zone", schema.TypeText, 2)}

	// Even a surviving cell of a deactivated field must not surface.
	cells := map[id.ID]map[string]values.Value{
		rowID: {"old_code": values.Text("X-99")},
	}

	out := Project(rows, fields, cells)
	assert.Equal(t, []string{"id", "zone"}, out[0].Keys())
}

func TestProject_BaseColumnShadowsField(t *testing.T) {
	rowID := id.New()
	rows := []BaseRow{{
		ID:   rowID,
		Cols: []BaseCol{{Key: "name", Value: "base name"}},
	}}
	fields := []*schema.FieldDef{catalogField("name", schema.TypeText, 1)}

	t.Run("without cell", func(t *testing.T) {
		out := Project(rows, fields, map[id.ID]map[string]values.Value{})
		assert.Equal(t, []string{"name"}, out[0].Keys())

		v, _ := out[0].Get("name")
		assert.Equal(t, "base name", v)
	})

	// Base wins even when the shadowed field holds a stored cell.
	t.Run("with cell", func(t *testing.T) {
		cells := map[id.ID]map[string]values.Value{
			rowID: {"name": values.Text("dynamic value")},
		}
		out := Project(rows, fields, cells)
		assert.Equal(t, []string{"name"}, out[0].Keys())

		v, _ := out[0].Get("name")
		assert.Equal(t, "base name", v)
	})
}

func TestProject_Deterministic(t *testing.T) {
	rowID := id.New()
	rows := []BaseRow{{
		ID: rowID,
		Cols: []BaseCol{
			{Key: "id", Value: rowID.String()},
			{Key: "name", Value: "ตลาดนัดจตุจักร"},
		},
	}}
	fields := []*schema.FieldDef{
		catalogField("zone", schema.TypeText, 1),
		catalogField("stall_count", schema.TypeNumber, 2),
		catalogField("open_on_sunday", schema.TypeBoolean, 3),
	}
	cells := map[id.ID]map[string]values.Value{
		rowID: {
			"zone":           values.Text("A"),
			"open_on_sunday": values.Bool(true),
		},
	}

	first, err := json.Marshal(Project(rows, fields, cells))
	assert.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := json.Marshal(Project(rows, fields, cells))
		assert.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestRecord_MarshalJSONInsertionOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set("b", 2)
	rec.Set("a", 1)
	rec.Set("c", nil)

	b, err := json.Marshal(rec)
	assert.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1,"c":null}`, string(b))

	// Overwriting keeps the original position.
	rec.Set("b", 99)
	b, err = json.Marshal(rec)
	assert.NoError(t, err)
	assert.Equal(t, `{"b":99,"a":1,"c":null}`, string(b))
}

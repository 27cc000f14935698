package schema

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradereg/internal/core/apperror"
)

func TestIsSafeIdentifier(t *testing.T) {
	valid := []string{
		"contact_email",
		"field1",
		// Thai names carry combining vowel and tone marks (category Mn),
		// which must count as word characters.
		"ชื่อร้าน",
		"เบอร์_โทร2",
		"ที่อยู่",
		"วันที่เริ่มกิจการ",
		"a",
		strings.Repeat("x", 64),
	}
	for _, name := range valid {
		assert.True(t, IsSafeIdentifier(name), "expected %q to be safe", name)
	}

	invalid := []string{
		"",
		"owner-name",
		"owner name",
		`owner"name`,
		"owner'name",
		"name; DROP TABLE shops",
		"a.b",
		"value%",
		strings.Repeat("x", 65),
	}
	for _, name := range invalid {
		assert.False(t, IsSafeIdentifier(name), "expected %q to be rejected", name)
	}
}

func TestFieldDefValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid text field", func(t *testing.T) {
		f := NewFieldDef(KindShop, "contact_email", "อีเมลติดต่อ", TypeEmail)
		assert.NoError(t, f.Validate(ctx))
	})

	t.Run("unsafe name", func(t *testing.T) {
		f := NewFieldDef(KindShop, "email; --", "Email", TypeText)
		err := f.Validate(ctx)
		appErr, ok := apperror.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidIdentifier, appErr.Code)
	})

	t.Run("unknown field type", func(t *testing.T) {
		f := NewFieldDef(KindShop, "size", "Size", FieldType("geo_point"))
		err := f.Validate(ctx)
		appErr, ok := apperror.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidFieldType, appErr.Code)
	})

	t.Run("missing label", func(t *testing.T) {
		f := NewFieldDef(KindShop, "zone", "", TypeText)
		assert.Error(t, f.Validate(ctx))
	})

	t.Run("select without options", func(t *testing.T) {
		f := NewFieldDef(KindShop, "status", "Status", TypeSelect)
		assert.Error(t, f.Validate(ctx))
	})

	t.Run("select with empty option value", func(t *testing.T) {
		f := NewFieldDef(KindShop, "status", "Status", TypeSelect)
		f.FieldOptions = Options{{Value: "", Label: "None"}}
		assert.Error(t, f.Validate(ctx))
	})

	t.Run("select with options", func(t *testing.T) {
		f := NewFieldDef(KindShop, "status", "Status", TypeSelect)
		f.FieldOptions = Options{{Value: "open", Label: "เปิด"}}
		assert.NoError(t, f.Validate(ctx))
	})
}

func TestOptionLabel(t *testing.T) {
	f := NewFieldDef(KindShop, "status", "Status", TypeSelect)
	f.FieldOptions = Options{
		{Value: "open", Label: "เปิด"},
		{Value: "closed", Label: "ปิด"},
	}

	assert.Equal(t, "เปิด", f.OptionLabel("open"))
	assert.Equal(t, "ปิด", f.OptionLabel("closed"))
	// Unknown stored values render as themselves.
	assert.Equal(t, "legacy", f.OptionLabel("legacy"))
}

func TestFieldPatchApply(t *testing.T) {
	f := NewFieldDef(KindShop, "zone", "Zone", TypeText)
	f.DisplayOrder = 5

	newLabel := "โซน"
	hide := false
	patch := FieldPatch{
		FieldLabel:  &newLabel,
		ShowInTable: &hide,
	}
	patch.Apply(f)

	assert.Equal(t, "โซน", f.FieldLabel)
	assert.False(t, f.ShowInTable)
	// Untouched members keep their values.
	assert.Equal(t, 5, f.DisplayOrder)
	assert.True(t, f.ShowInForm)
	assert.True(t, f.IsActive)

	// A pointer to the zero value is an explicit clear, not "leave alone".
	empty := ""
	FieldPatch{DefaultValue: &empty}.Apply(f)
	assert.NotNil(t, f.DefaultValue)
	assert.Equal(t, "", *f.DefaultValue)
}

func TestEntityKindValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		k := NewEntityKind("warehouse", "คลังสินค้า")
		assert.NoError(t, k.Validate(ctx))
	})

	t.Run("unsafe slug", func(t *testing.T) {
		k := NewEntityKind("ware-house", "Warehouse")
		err := k.Validate(ctx)
		appErr, ok := apperror.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidIdentifier, appErr.Code)
	})

	t.Run("collides with built-in kind", func(t *testing.T) {
		k := NewEntityKind("shop", "Shops again")
		err := k.Validate(ctx)
		appErr, ok := apperror.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperror.CodeConflict, appErr.Code)
	})

	t.Run("missing label", func(t *testing.T) {
		k := NewEntityKind("warehouse", "")
		assert.Error(t, k.Validate(ctx))
	})
}

func TestIsFixedKind(t *testing.T) {
	for _, kind := range FixedKinds {
		assert.True(t, IsFixedKind(kind))
	}
	assert.False(t, IsFixedKind(EntityKindSlug("warehouse")))
}

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradereg/internal/core/entity"
)

type testEntity struct {
	entity.Base

	Name     string  `db:"name"`
	Phone    *string `db:"phone"`
	Internal string  `db:"-"`
	NoTag    string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testEntity]()

	// Embedded Base columns come first, then the struct's own tagged fields.
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "created_at")
	assert.Contains(t, cols, "updated_at")
	assert.Contains(t, cols, "name")
	assert.Contains(t, cols, "phone")
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Internal")
	assert.NotContains(t, cols, "NoTag")
}

func TestExtractDBColumns_PointerType(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[testEntity](), ExtractDBColumns[*testEntity]())
}

func TestStructToMap(t *testing.T) {
	phone := "081-234-5678"
	e := testEntity{
		Base:     entity.NewBase(),
		Name:     "ร้านป้าสมศรี",
		Phone:    &phone,
		Internal: "never persisted",
	}

	m := StructToMap(&e)

	assert.Equal(t, "ร้านป้าสมศรี", m["name"])
	assert.Equal(t, &phone, m["phone"])
	assert.Equal(t, e.ID, m["id"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "Internal")

	// Cached metadata path: second conversion sees the same shape.
	assert.Equal(t, m["name"], StructToMap(&e)["name"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}

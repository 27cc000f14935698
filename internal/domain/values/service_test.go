package values

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/domain/schema"
)

type cellKey struct {
	fieldID  id.ID
	recordID id.ID
}

// fakeStore keeps cells in memory; Put honors no empty-value policy beyond
// recording the zero Value, which is all the service-level tests need.
type fakeStore struct {
	cells   map[cellKey]Value
	putErr  map[string]error
	deleted int
}

func newFakeStore() *fakeStore {
	return &fakeStore{cells: map[cellKey]Value{}, putErr: map[string]error{}}
}

func (s *fakeStore) Put(ctx context.Context, field *schema.FieldDef, recordID id.ID, value Value) error {
	if err := s.putErr[field.FieldName]; err != nil {
		return err
	}
	s.cells[cellKey{field.ID, recordID}] = value
	return nil
}

func (s *fakeStore) GetValues(ctx context.Context, kind schema.EntityKindSlug, recordIDs []id.ID) (map[id.ID]map[string]Value, error) {
	return map[id.ID]map[string]Value{}, nil
}

func (s *fakeStore) DeleteByField(ctx context.Context, fieldID id.ID) (int64, error) {
	return 0, nil
}

func (s *fakeStore) DeleteByRecord(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID) (int64, error) {
	s.deleted++
	return 1, nil
}

func (s *fakeStore) FindRecordByValue(ctx context.Context, field *schema.FieldDef, value Value) (id.ID, bool, error) {
	for k, v := range s.cells {
		if k.fieldID == field.ID && v.String() == value.String() {
			return k.recordID, true, nil
		}
	}
	return id.Nil(), false, nil
}

func (s *fakeStore) SweepOrphans(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeCatalog struct {
	fields []*schema.FieldDef
}

func (c *fakeCatalog) Fields(ctx context.Context, kind schema.EntityKindSlug, activeOnly bool) ([]*schema.FieldDef, error) {
	return c.fields, nil
}

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func serviceFixture(fields ...*schema.FieldDef) (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, &fakeCatalog{fields: fields}, passthroughTx{}), store
}

func TestPutValues_UnknownFieldsSkipped(t *testing.T) {
	zone := schema.NewFieldDef(schema.KindShop, "zone", "Zone", schema.TypeText)
	svc, store := serviceFixture(zone)

	result, err := svc.PutValues(context.Background(), schema.KindShop, id.New(), map[string]any{
		"zone":        "A",
		"not_a_field": "ignored",
	}, false)

	assert.NoError(t, err)
	assert.Equal(t, []string{"zone"}, result.Applied)
	assert.Equal(t, []string{"not_a_field"}, result.Skipped)
	assert.Empty(t, result.Failed)
	assert.Len(t, store.cells, 1)
}

func TestPutValues_PartialFailureKeepsGoing(t *testing.T) {
	zone := schema.NewFieldDef(schema.KindShop, "zone", "Zone", schema.TypeText)
	fee := schema.NewFieldDef(schema.KindShop, "fee", "Fee", schema.TypeNumber)
	fee.DisplayOrder = 2
	svc, store := serviceFixture(zone, fee)

	result, err := svc.PutValues(context.Background(), schema.KindShop, id.New(), map[string]any{
		"zone": "A",
		"fee":  "not a number",
	}, false)

	assert.NoError(t, err)
	assert.Equal(t, []string{"zone"}, result.Applied)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, "fee", result.Failed[0].FieldName)
	assert.True(t, result.PartialFailure())
	assert.Len(t, store.cells, 1)
}

func TestPutValues_AtomicStopsAtFirstFailure(t *testing.T) {
	zone := schema.NewFieldDef(schema.KindShop, "zone", "Zone", schema.TypeText)
	fee := schema.NewFieldDef(schema.KindShop, "fee", "Fee", schema.TypeNumber)
	svc, _ := serviceFixture(zone, fee)

	_, err := svc.PutValues(context.Background(), schema.KindShop, id.New(), map[string]any{
		"zone": "A",
		"fee":  "not a number",
	}, true)

	assert.True(t, apperror.IsTypeCoercion(err))
}

func TestPutValues_RequiredFieldCannotBeCleared(t *testing.T) {
	phone := schema.NewFieldDef(schema.KindShop, "phone", "Phone", schema.TypePhone)
	phone.IsRequired = true
	svc, _ := serviceFixture(phone)

	result, err := svc.PutValues(context.Background(), schema.KindShop, id.New(), map[string]any{
		"phone": "",
	}, false)

	assert.NoError(t, err)
	assert.Len(t, result.Failed, 1)
	assert.Empty(t, result.Applied)
}

func TestPutValues_SelectValueMustMatchOption(t *testing.T) {
	status := schema.NewFieldDef(schema.KindShop, "status", "Status", schema.TypeSelect)
	status.FieldOptions = schema.Options{{Value: "open", Label: "เปิด"}}
	svc, store := serviceFixture(status)

	recordID := id.New()
	result, err := svc.PutValues(context.Background(), schema.KindShop, recordID, map[string]any{
		"status": "closed",
	}, false)
	assert.NoError(t, err)
	assert.Len(t, result.Failed, 1)

	result, err = svc.PutValues(context.Background(), schema.KindShop, recordID, map[string]any{
		"status": "open",
	}, false)
	assert.NoError(t, err)
	assert.Equal(t, []string{"status"}, result.Applied)
	assert.Len(t, store.cells, 1)
}

func TestPutValues_UniqueConflict(t *testing.T) {
	code := schema.NewFieldDef(schema.KindShop, "tax_id", "Tax ID", schema.TypeText)
	code.IsUnique = true
	svc, _ := serviceFixture(code)

	first := id.New()
	_, err := svc.PutValues(context.Background(), schema.KindShop, first, map[string]any{
		"tax_id": "1234567890123",
	}, false)
	assert.NoError(t, err)

	// Re-writing the same value on the same record is fine.
	result, err := svc.PutValues(context.Background(), schema.KindShop, first, map[string]any{
		"tax_id": "1234567890123",
	}, false)
	assert.NoError(t, err)
	assert.Equal(t, []string{"tax_id"}, result.Applied)

	// A second record claiming the value is a duplicate.
	result, err = svc.PutValues(context.Background(), schema.KindShop, id.New(), map[string]any{
		"tax_id": "1234567890123",
	}, false)
	assert.NoError(t, err)
	assert.Len(t, result.Failed, 1)
	appErr, ok := apperror.AsAppError(result.Failed[0].Err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestPutValues_ValidationRule(t *testing.T) {
	rule := "value >= 0.0 && value <= 100000.0"
	fee := schema.NewFieldDef(schema.KindShop, "fee", "Fee", schema.TypeNumber)
	fee.ValidationRule = &rule
	svc, _ := serviceFixture(fee)

	result, err := svc.PutValues(context.Background(), schema.KindShop, id.New(), map[string]any{
		"fee": "-5",
	}, false)
	assert.NoError(t, err)
	assert.Len(t, result.Failed, 1)

	result, err = svc.PutValues(context.Background(), schema.KindShop, id.New(), map[string]any{
		"fee": "450",
	}, false)
	assert.NoError(t, err)
	assert.Equal(t, []string{"fee"}, result.Applied)
}

func TestPutValue_UnknownFieldIsNotFound(t *testing.T) {
	svc, _ := serviceFixture()
	err := svc.PutValue(context.Background(), schema.KindShop, id.New(), "ghost", "x")
	assert.True(t, apperror.IsNotFound(err))
}

func TestPutValues_StoreErrorReported(t *testing.T) {
	zone := schema.NewFieldDef(schema.KindShop, "zone", "Zone", schema.TypeText)
	store := newFakeStore()
	store.putErr["zone"] = errors.New("connection reset")
	svc := NewService(store, &fakeCatalog{fields: []*schema.FieldDef{zone}}, passthroughTx{})

	result, err := svc.PutValues(context.Background(), schema.KindShop, id.New(), map[string]any{
		"zone": "A",
	}, false)
	assert.NoError(t, err)
	assert.Len(t, result.Failed, 1)
	assert.Empty(t, result.Applied)
}

package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
)

// fakeFieldRepo keeps definitions in memory and appends to a shared event
// log so tests can assert ordering against the invalidator.
type fakeFieldRepo struct {
	fields map[id.ID]*FieldDef
	events *[]string
}

func newFakeFieldRepo(events *[]string) *fakeFieldRepo {
	return &fakeFieldRepo{fields: map[id.ID]*FieldDef{}, events: events}
}

func (r *fakeFieldRepo) Create(ctx context.Context, field *FieldDef) error {
	r.fields[field.ID] = field
	*r.events = append(*r.events, "create")
	return nil
}

func (r *fakeFieldRepo) GetByID(ctx context.Context, fieldID id.ID) (*FieldDef, error) {
	f, ok := r.fields[fieldID]
	if !ok {
		return nil, apperror.NewNotFound("custom_field", fieldID.String())
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFieldRepo) GetByName(ctx context.Context, kind EntityKindSlug, name string) (*FieldDef, error) {
	for _, f := range r.fields {
		if f.EntityKind == kind && f.FieldName == name {
			return f, nil
		}
	}
	return nil, apperror.NewNotFound("custom_field", name)
}

func (r *fakeFieldRepo) ListByKind(ctx context.Context, kind EntityKindSlug, activeOnly bool) ([]*FieldDef, error) {
	var out []*FieldDef
	for _, f := range r.fields {
		if f.EntityKind == kind && (!activeOnly || f.IsActive) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFieldRepo) Update(ctx context.Context, field *FieldDef) error {
	if _, ok := r.fields[field.ID]; !ok {
		return apperror.NewNotFound("custom_field", field.ID.String())
	}
	r.fields[field.ID] = field
	*r.events = append(*r.events, "update")
	return nil
}

func (r *fakeFieldRepo) Delete(ctx context.Context, fieldID id.ID) error {
	delete(r.fields, fieldID)
	*r.events = append(*r.events, "delete")
	return nil
}

type fakeKindRepo struct{}

func (fakeKindRepo) Create(ctx context.Context, kind *EntityKind) error { return nil }
func (fakeKindRepo) GetBySlug(ctx context.Context, slug string) (*EntityKind, error) {
	return nil, apperror.NewNotFound("entity_kind", slug)
}
func (fakeKindRepo) List(ctx context.Context, activeOnly bool) ([]*EntityKind, error) {
	return nil, nil
}
func (fakeKindRepo) Update(ctx context.Context, kind *EntityKind) error { return nil }

type fakeInvalidator struct {
	events *[]string
	kinds  []EntityKindSlug
}

func (i *fakeInvalidator) Invalidate(ctx context.Context, kind EntityKindSlug) {
	*i.events = append(*i.events, "invalidate")
	i.kinds = append(i.kinds, kind)
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func registryFixture(t *testing.T) (*Service, *fakeFieldRepo, *fakeInvalidator, *[]string) {
	t.Helper()
	events := &[]string{}
	repo := newFakeFieldRepo(events)
	inv := &fakeInvalidator{events: events}
	svc := NewService(ServiceConfig{
		Fields:      repo,
		Kinds:       fakeKindRepo{},
		TxManager:   passthroughTx{},
		Invalidator: inv,
	})
	return svc, repo, inv, events
}

func TestDefineField_InvalidatesAfterWrite(t *testing.T) {
	svc, _, inv, events := registryFixture(t)

	field, err := svc.DefineField(context.Background(), DefineFieldInput{
		EntityKind: KindShop,
		FieldName:  "ชื่อเจ้าของ",
		FieldLabel: "ชื่อเจ้าของ",
		FieldType:  TypeText,
	})
	assert.NoError(t, err)
	assert.NotNil(t, field)

	assert.Equal(t, []string{"create", "invalidate"}, *events)
	assert.Equal(t, []EntityKindSlug{KindShop}, inv.kinds)
}

func TestDeactivateField_InvalidatesAfterCommit(t *testing.T) {
	svc, repo, inv, events := registryFixture(t)

	field, err := svc.DefineField(context.Background(), DefineFieldInput{
		EntityKind: KindShop,
		FieldName:  "zone",
		FieldLabel: "Zone",
		FieldType:  TypeText,
	})
	assert.NoError(t, err)
	*events = nil
	inv.kinds = nil

	assert.NoError(t, svc.DeactivateField(context.Background(), field.ID))

	// The cache drop runs after the committed write, never before it, so a
	// reader that observes the invalidation also observes the new catalog.
	assert.Equal(t, []string{"update", "invalidate"}, *events)
	assert.Equal(t, []EntityKindSlug{KindShop}, inv.kinds)

	stored, err := repo.GetByID(context.Background(), field.ID)
	assert.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestDeleteField_MissingFieldSkipsInvalidation(t *testing.T) {
	svc, _, inv, events := registryFixture(t)

	err := svc.DeleteField(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))

	// Nothing was written, so nothing may be evicted.
	assert.Empty(t, *events)
	assert.Empty(t, inv.kinds)
}

func TestDefineField_DuplicateName(t *testing.T) {
	svc, _, _, _ := registryFixture(t)

	in := DefineFieldInput{
		EntityKind: KindShop,
		FieldName:  "zone",
		FieldLabel: "Zone",
		FieldType:  TypeText,
	}
	_, err := svc.DefineField(context.Background(), in)
	assert.NoError(t, err)

	_, err = svc.DefineField(context.Background(), in)
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

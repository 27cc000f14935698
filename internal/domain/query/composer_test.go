package query

import (
	"reflect"
	"testing"
	"time"

	"tradereg/internal/domain/filter"
)

func TestSearch_BaseColumnsOnly(t *testing.T) {
	pred := Search([]string{"shops.name", "shops.owner_name"}, "shops.id", nil, "shop", "ตลาดนัด")

	q := Builder().Select("shops.id").From("shops").Where(pred)
	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSQL := "SELECT shops.id FROM shops WHERE (shops.name ILIKE $1 OR shops.owner_name ILIKE $2)"
	if sql != expectedSQL {
		t.Errorf("expected SQL: %s, got: %s", expectedSQL, sql)
	}

	expectedArgs := []any{"%ตลาดนัด%", "%ตลาดนัด%"}
	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("expected args: %v, got: %v", expectedArgs, args)
	}
}

func TestSearch_WithValueTable(t *testing.T) {
	vs := &ValueSearch{
		Table:     "custom_field_values",
		RecordCol: "record_id",
		TextExpr:  "v.value",
	}
	pred := Search([]string{"shops.name"}, "shops.id", vs, "shop", "ตลาดนัด")

	q := Builder().Select("shops.id").From("shops").Where(pred)
	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSQL := "SELECT shops.id FROM shops WHERE (shops.name ILIKE $1 OR " +
		"EXISTS (SELECT 1 FROM custom_field_values v WHERE v.record_id = shops.id AND v.value ILIKE $2))"
	if sql != expectedSQL {
		t.Errorf("expected SQL: %s, got: %s", expectedSQL, sql)
	}

	expectedArgs := []any{"%ตลาดนัด%", "%ตลาดนัด%"}
	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("expected args: %v, got: %v", expectedArgs, args)
	}
}

func TestSearch_WithKindDiscriminator(t *testing.T) {
	vs := &ValueSearch{
		Table:     "entity_values",
		RecordCol: "record_id",
		KindCol:   "entity_kind",
		TextExpr:  "v.value_text",
	}
	pred := Search(nil, "r.id", vs, "warehouse", "A1")

	q := Builder().Select("r.id").From("entity_records r").Where(pred)
	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSQL := "SELECT r.id FROM entity_records r WHERE " +
		"(EXISTS (SELECT 1 FROM entity_values v WHERE v.record_id = r.id AND v.entity_kind = $1 AND v.value_text ILIKE $2))"
	if sql != expectedSQL {
		t.Errorf("expected SQL: %s, got: %s", expectedSQL, sql)
	}

	expectedArgs := []any{"warehouse", "%A1%"}
	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("expected args: %v, got: %v", expectedArgs, args)
	}
}

func TestApplyFilters(t *testing.T) {
	allowed := map[string]bool{
		"license_no":  true,
		"status":      true,
		"expire_date": true,
		"comment":     true,
	}

	tests := []struct {
		name         string
		items        []filter.Item
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:         "equal",
			items:        []filter.Item{{Field: "status", Operator: filter.Equal, Value: "active"}},
			expectedSQL:  "SELECT id FROM licenses WHERE status = $1",
			expectedArgs: []any{"active"},
		},
		{
			name:         "not equal",
			items:        []filter.Item{{Field: "status", Operator: filter.NotEqual, Value: "cancelled"}},
			expectedSQL:  "SELECT id FROM licenses WHERE status <> $1",
			expectedArgs: []any{"cancelled"},
		},
		{
			name:         "less",
			items:        []filter.Item{{Field: "expire_date", Operator: filter.Less, Value: "2026-01-01"}},
			expectedSQL:  "SELECT id FROM licenses WHERE expire_date < $1",
			expectedArgs: []any{"2026-01-01"},
		},
		{
			name:         "greater or equal",
			items:        []filter.Item{{Field: "expire_date", Operator: filter.GreaterOrEqual, Value: "2026-01-01"}},
			expectedSQL:  "SELECT id FROM licenses WHERE expire_date >= $1",
			expectedArgs: []any{"2026-01-01"},
		},
		{
			name:         "in list",
			items:        []filter.Item{{Field: "status", Operator: filter.InList, Value: []any{"active", "suspended"}}},
			expectedSQL:  "SELECT id FROM licenses WHERE status IN ($1,$2)",
			expectedArgs: []any{"active", "suspended"},
		},
		{
			name:         "contains",
			items:        []filter.Item{{Field: "license_no", Operator: filter.Contains, Value: "TR-2569"}},
			expectedSQL:  "SELECT id FROM licenses WHERE license_no ILIKE $1",
			expectedArgs: []any{"%TR-2569%"},
		},
		{
			name:         "not contains",
			items:        []filter.Item{{Field: "license_no", Operator: filter.NotContains, Value: "TMP"}},
			expectedSQL:  "SELECT id FROM licenses WHERE license_no NOT ILIKE $1",
			expectedArgs: []any{"%TMP%"},
		},
		{
			name:         "is null",
			items:        []filter.Item{{Field: "comment", Operator: filter.IsNull}},
			expectedSQL:  "SELECT id FROM licenses WHERE comment IS NULL",
			expectedArgs: nil,
		},
		{
			name:         "is not null",
			items:        []filter.Item{{Field: "comment", Operator: filter.IsNotNull}},
			expectedSQL:  "SELECT id FROM licenses WHERE comment IS NOT NULL",
			expectedArgs: nil,
		},
		{
			name: "multiple items combine with AND",
			items: []filter.Item{
				{Field: "status", Operator: filter.Equal, Value: "active"},
				{Field: "license_no", Operator: filter.Contains, Value: "TR"},
			},
			expectedSQL:  "SELECT id FROM licenses WHERE status = $1 AND license_no ILIKE $2",
			expectedArgs: []any{"active", "%TR%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := Builder().Select("id").From("licenses")
			q, err := ApplyFilters(base, tt.items, allowed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sql != tt.expectedSQL {
				t.Errorf("expected SQL: %s, got: %s", tt.expectedSQL, sql)
			}
			if len(tt.expectedArgs) == 0 && len(args) == 0 {
				return
			}
			if !reflect.DeepEqual(args, tt.expectedArgs) {
				t.Errorf("expected args: %v, got: %v", tt.expectedArgs, args)
			}
		})
	}
}

func TestApplyFilters_RejectsUnknownColumn(t *testing.T) {
	base := Builder().Select("id").From("users")
	items := []filter.Item{{Field: "password_hash", Operator: filter.Equal, Value: "x"}}

	_, err := ApplyFilters(base, items, map[string]bool{"username": true})
	if err == nil {
		t.Fatal("expected error for column outside the allow-list")
	}
}

func TestApplyFilters_RejectsUnknownOperator(t *testing.T) {
	base := Builder().Select("id").From("licenses")
	items := []filter.Item{{Field: "status", Operator: filter.ComparisonType("regex"), Value: ".*"}}

	_, err := ApplyFilters(base, items, map[string]bool{"status": true})
	if err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	pred := Expired("expire_date", "status", []string{"cancelled"})(now)

	q := Builder().Select("id").From("licenses").Where(pred)
	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSQL := "SELECT id FROM licenses WHERE (expire_date < $1 AND status NOT IN ($2))"
	if sql != expectedSQL {
		t.Errorf("expected SQL: %s, got: %s", expectedSQL, sql)
	}

	expectedArgs := []any{now, "cancelled"}
	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("expected args: %v, got: %v", expectedArgs, args)
	}
}

func TestNotExpired(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	pred := NotExpired("expire_date")(now)

	q := Builder().Select("id").From("licenses").Where(pred)
	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSQL := "SELECT id FROM licenses WHERE expire_date >= $1"
	if sql != expectedSQL {
		t.Errorf("expected SQL: %s, got: %s", expectedSQL, sql)
	}
	if !reflect.DeepEqual(args, []any{now}) {
		t.Errorf("expected args: %v, got: %v", []any{now}, args)
	}
}

func TestOrderBy(t *testing.T) {
	allowed := map[string]bool{"name": true, "expire_date": true, "created_at": true}

	tests := []struct {
		spec     string
		fallback string
		expected string
		wantErr  bool
	}{
		{spec: "", fallback: "name", expected: "name ASC"},
		{spec: "name", fallback: "name", expected: "name ASC"},
		{spec: "+created_at", fallback: "name", expected: "created_at ASC"},
		{spec: "-expire_date", fallback: "name", expected: "expire_date DESC"},
		{spec: "owner_name", fallback: "name", wantErr: true},
		{spec: "-", fallback: "name", wantErr: true},
		{spec: "name; DROP TABLE shops", fallback: "name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			clause, err := OrderBy(tt.spec, tt.fallback, allowed)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for spec %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if clause != tt.expected {
				t.Errorf("expected clause: %s, got: %s", tt.expected, clause)
			}
		})
	}
}

package schema_repo

import (
	"reflect"
	"strings"
	"testing"

	"tradereg/internal/domain/schema"
)

// The catalog listing orders by display_order with the time-ordered ID as
// tie-break, so two fields sharing an order always list in creation order:
// [A(order=2), B(order=1), C(order=1, created after B)] lists as [B, C, A].
func TestListByKindQuery(t *testing.T) {
	sql, args, err := listByKindQuery(schema.KindShop, false).ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSQL := "SELECT " + strings.Join(fieldCols, ", ") +
		" FROM custom_fields WHERE entity_kind = $1 ORDER BY display_order ASC, id ASC"
	if sql != expectedSQL {
		t.Errorf("expected SQL: %s, got: %s", expectedSQL, sql)
	}
	if !reflect.DeepEqual(args, []any{"shop"}) {
		t.Errorf("expected args: %v, got: %v", []any{"shop"}, args)
	}
}

func TestListByKindQuery_ActiveOnly(t *testing.T) {
	sql, args, err := listByKindQuery(schema.KindLicense, true).ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSQL := "SELECT " + strings.Join(fieldCols, ", ") +
		" FROM custom_fields WHERE entity_kind = $1 AND is_active = $2" +
		" ORDER BY display_order ASC, id ASC"
	if sql != expectedSQL {
		t.Errorf("expected SQL: %s, got: %s", expectedSQL, sql)
	}
	if !reflect.DeepEqual(args, []any{"license", true}) {
		t.Errorf("expected args: %v, got: %v", []any{"license", true}, args)
	}
}

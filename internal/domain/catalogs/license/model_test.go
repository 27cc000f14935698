package license

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradereg/internal/core/id"
)

var now = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func testLicense(status Status, expire time.Time) *License {
	l := NewLicense("TR-2569/0042", id.New(), id.New(), now.AddDate(-1, 0, 0), expire)
	l.Status = status
	return l
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name     string
		license  *License
		expected bool
	}{
		{"active past expiry", testLicense(StatusActive, now.AddDate(0, 0, -1)), true},
		{"active before expiry", testLicense(StatusActive, now.AddDate(0, 0, 1)), false},
		{"suspended past expiry", testLicense(StatusSuspended, now.AddDate(0, -6, 0)), true},
		// Cancellation wins: a cancelled license never reads as expired.
		{"cancelled past expiry", testLicense(StatusCancelled, now.AddDate(0, 0, -1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.license.IsExpired(now))
		})
	}
}

func TestEffectiveStatus(t *testing.T) {
	assert.Equal(t, "active", testLicense(StatusActive, now.AddDate(0, 1, 0)).EffectiveStatus(now))
	assert.Equal(t, "expired", testLicense(StatusActive, now.AddDate(0, -1, 0)).EffectiveStatus(now))
	assert.Equal(t, "expired", testLicense(StatusSuspended, now.AddDate(0, -1, 0)).EffectiveStatus(now))
	assert.Equal(t, "cancelled", testLicense(StatusCancelled, now.AddDate(0, -1, 0)).EffectiveStatus(now))
}

func TestLicenseValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		l := testLicense(StatusActive, now.AddDate(1, 0, 0))
		assert.NoError(t, l.Validate(ctx))
	})

	t.Run("missing number", func(t *testing.T) {
		l := testLicense(StatusActive, now.AddDate(1, 0, 0))
		l.LicenseNo = "   "
		assert.Error(t, l.Validate(ctx))
	})

	t.Run("missing shop", func(t *testing.T) {
		l := testLicense(StatusActive, now.AddDate(1, 0, 0))
		l.ShopID = id.Nil()
		assert.Error(t, l.Validate(ctx))
	})

	t.Run("missing type", func(t *testing.T) {
		l := testLicense(StatusActive, now.AddDate(1, 0, 0))
		l.LicenseTypeID = id.Nil()
		assert.Error(t, l.Validate(ctx))
	})

	t.Run("unknown status", func(t *testing.T) {
		l := testLicense(Status("revoked"), now.AddDate(1, 0, 0))
		assert.Error(t, l.Validate(ctx))
	})

	t.Run("expiry before issue", func(t *testing.T) {
		l := testLicense(StatusActive, now.AddDate(-2, 0, 0))
		assert.Error(t, l.Validate(ctx))
	})

	// Stored "expired" is not a status: rows never carry the derived state.
	t.Run("derived status not storable", func(t *testing.T) {
		l := testLicense(Status(DerivedExpired), now.AddDate(1, 0, 0))
		assert.Error(t, l.Validate(ctx))
	})
}

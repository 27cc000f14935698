package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSummary(t *testing.T) {
	summary := FilterSummary("license", "ตลาดนัด", []string{"zone", "fee"})
	assert.Equal(t, map[string]string{
		"kind":   "license",
		"search": "ตลาดนัด",
		"fields": "zone, fee",
	}, summary)

	// Empty criteria stay out of the header instead of printing blanks.
	summary = FilterSummary("shop", "", nil)
	assert.Equal(t, map[string]string{"kind": "shop"}, summary)
}

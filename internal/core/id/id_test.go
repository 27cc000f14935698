package id

import (
	"bytes"
	"testing"
)

// The field catalog breaks display_order ties by ID, which only works if ids
// generated later always sort later. UUIDv7 guarantees that within a process.
func TestNew_TimeOrdered(t *testing.T) {
	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		if bytes.Compare(prev[:], next[:]) >= 0 {
			t.Fatalf("id %s generated after %s but does not sort after it", next, prev)
		}
		prev = next
	}
}

// booking/reference_test.go
package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReference_Shape(t *testing.T) {
	ref := NewReference(date(2024, 6, 1))
	assert.Regexp(t, `^SRH-20240601-[A-Z2-9]{6}$`, ref)
	assert.NotContains(t, ref[13:], "0")
	assert.NotContains(t, ref[13:], "O")
	assert.NotContains(t, ref[13:], "1")
	assert.NotContains(t, ref[13:], "I")
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights(date(2024, 6, 1), date(2024, 6, 4)))
	assert.Equal(t, 0, Nights(date(2024, 6, 4), date(2024, 6, 4)))
	assert.Equal(t, -2, Nights(date(2024, 6, 4), date(2024, 6, 2)))
}

func TestOverlaps_HalfOpen(t *testing.T) {
	a1, a2 := date(2024, 6, 1), date(2024, 6, 4)
	assert.True(t, Overlaps(a1, a2, date(2024, 6, 3), date(2024, 6, 5)))
	assert.True(t, Overlaps(a1, a2, date(2024, 5, 30), date(2024, 6, 2)))
	assert.True(t, Overlaps(a1, a2, date(2024, 6, 2), date(2024, 6, 3)))
	assert.False(t, Overlaps(a1, a2, date(2024, 6, 4), date(2024, 6, 6)), "back-to-back is not an overlap")
	assert.False(t, Overlaps(a1, a2, date(2024, 5, 28), date(2024, 6, 1)))
}

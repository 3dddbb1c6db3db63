package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekSetIntersects(t *testing.T) {
	t.Run("Overlapping sets", func(t *testing.T) {
		a := NewWeekSet(1, 2, 3)
		b := NewWeekSet(3, 4)
		assert.True(t, a.Intersects(b))
		assert.True(t, b.Intersects(a))
	})

	t.Run("Disjoint sets", func(t *testing.T) {
		a := NewWeekSet(1, 2, 3, 4, 5, 6, 7, 8)
		b := NewWeekSet(9, 10, 11, 12, 13, 14, 15, 16)
		assert.False(t, a.Intersects(b))
		assert.False(t, b.Intersects(a))
	})

	t.Run("Empty sets never intersect", func(t *testing.T) {
		empty := NewWeekSet()
		full := AllWeeks(16)
		assert.False(t, empty.Intersects(full))
		assert.False(t, full.Intersects(empty))
		assert.False(t, empty.Intersects(empty))
	})
}

func TestWeekSetFormat(t *testing.T) {
	assert.Equal(t, "", NewWeekSet().Format())
	assert.Equal(t, "3", NewWeekSet(3).Format())
	assert.Equal(t, "1-8", NewWeekSet(1, 2, 3, 4, 5, 6, 7, 8).Format())
	assert.Equal(t, "1-3,5,7-8", NewWeekSet(1, 2, 3, 5, 7, 8).Format())
	assert.Equal(t, "1-16", AllWeeks(16).Format())
}

func TestParseWeeks(t *testing.T) {
	t.Run("Missing value defaults to every week", func(t *testing.T) {
		weeks, err := ParseWeeks(nil, 16)
		assert.Nil(t, err)
		assert.Equal(t, AllWeeks(16), weeks)
	})

	t.Run("Numeric list", func(t *testing.T) {
		weeks, err := ParseWeeks([]any{float64(1), float64(3), float64(5)}, 16)
		assert.Nil(t, err)
		assert.Equal(t, NewWeekSet(1, 3, 5), weeks)
	})

	t.Run("Non-integer week is rejected", func(t *testing.T) {
		_, err := ParseWeeks([]any{1.5}, 16)
		assert.NotNil(t, err)
	})

	t.Run("All macro", func(t *testing.T) {
		weeks, err := ParseWeeks("all", 12)
		assert.Nil(t, err)
		assert.Equal(t, AllWeeks(12), weeks)

		weeks, err = ParseWeeks("ALL", 12)
		assert.Nil(t, err)
		assert.Equal(t, AllWeeks(12), weeks)
	})

	t.Run("Range expression", func(t *testing.T) {
		weeks, err := ParseWeeks("1-4,9", 16)
		assert.Nil(t, err)
		assert.Equal(t, NewWeekSet(1, 2, 3, 4, 9), weeks)
	})

	t.Run("Reversed range is rejected", func(t *testing.T) {
		_, err := ParseWeeks("5-3", 16)
		assert.NotNil(t, err)
	})

	t.Run("Unsupported value type is rejected", func(t *testing.T) {
		_, err := ParseWeeks(42, 16)
		assert.NotNil(t, err)
	})
}

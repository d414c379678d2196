package generics

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[float32]int{0.5: 3, 0: 1, 0.25: 2}
	// Map iteration in Go is deliberately non-deterministic, so we run it a bunch of times.
	want := []float32{0, 0.25, 0.5}
	for range 100 {
		got := slices.Collect(SortedKeys(m))
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	var values []int
	for key, value := range SortedKeysAndValues(m) {
		assert.Equal(t, m[key], value)
		values = append(values, value)
	}
	assert.Equal(t, []int{1, 2, 3}, values)
}

func TestSet(t *testing.T) {
	s := MakeSet[float32](3)
	assert.Empty(t, s)
	s.Insert(0.5, 0.25, 0.5)
	assert.Len(t, s, 2)
	assert.True(t, s.Has(0.25))
	assert.False(t, s.Has(0))

	s = SetWith[float32](-1, 0)
	assert.Len(t, s, 2)
	assert.True(t, s.Has(-1))
}

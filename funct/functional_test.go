package funct

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	out, err := Map([]string{"1", "2", "3"}, strconv.Atoi)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, out)

	_, err = Map([]string{"1", "x"}, func(s string) (int, error) {
		if s == "x" {
			return 0, errors.New("bad")
		}
		return 1, nil
	})
	assert.Error(t, err)
}

func TestPredicates(t *testing.T) {
	even := func(x int) bool { return x%2 == 0 }
	values := []int{1, 2, 3, 4}

	assert.Equal(t, []int{2, 4}, Filter(values, even))
	assert.Equal(t, 1, Index(values, even))
	assert.Equal(t, -1, Index([]int{1, 3}, even))
	assert.True(t, Some(values, even))
	assert.False(t, Every(values, even))
	assert.True(t, Every([]int{2, 4}, even))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Unique([]string{"a", "b", "a", "c", "b"}))
}

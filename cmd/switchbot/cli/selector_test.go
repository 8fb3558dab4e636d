package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviceIndexes(t *testing.T) {
	c := newCliForTest(10)

	_, err := c.parseDeviceIndexes("")
	assert.Error(t, err)

	tests := []struct {
		text string
		want []int
	}{
		{"4", []int{3}},
		{"device4", []int{3}},
		{"2,4", []int{1, 3}},
		{"2,device4", []int{1, 3}},
		// The result keeps the selection order, not sorted.
		{"4,2", []int{3, 1}},
		{"device4,2", []int{3, 1}},
		// Duplicates keep the first occurrence only.
		{"2,4,2", []int{1, 3}},
		{"4,2,4", []int{3, 1}},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			indexes, err := c.parseDeviceIndexes(test.text)
			require.NoError(t, err)
			assert.Equal(t, test.want, indexes)
		})
	}
}

func TestParseDeviceIndexesAlias(t *testing.T) {
	c := newCliForTest(10)
	c.config.Aliases["k"] = "3,5"

	indexes, err := c.parseDeviceIndexes("k")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, indexes)

	indexes, err = c.parseDeviceIndexes("1,k,4")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 3}, indexes)

	// Aliases expand recursively.
	c.config.Aliases["j"] = "2,k"
	indexes, err = c.parseDeviceIndexes("1,j,4")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 4, 3}, indexes)

	indexes, err = c.parseDeviceIndexes("1,j,5")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 4}, indexes)
}

func TestParseDeviceIndexesAliasCycle(t *testing.T) {
	c := newCliForTest(10)
	c.config.Aliases["a"] = "a"

	_, err := c.parseDeviceIndexes("a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursion")
}

func TestParseDeviceIndexesInvalid(t *testing.T) {
	c := newCliForTest(3)

	for _, text := range []string{"0", "4", "-1", "nope", "1,nope"} {
		t.Run(text, func(t *testing.T) {
			_, err := c.parseDeviceIndexes(text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not a valid device")
		})
	}
}

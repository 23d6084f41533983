package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Location(t *testing.T) {
	loc, err := Static{}.Location(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "T. Nagar Bus Stop", loc.Name)
	require.Len(t, loc.Buses, 3)

	var numbers []string
	for _, b := range loc.Buses {
		numbers = append(numbers, b.Number)
		assert.GreaterOrEqual(t, b.ETAMinutes, 0)
		assert.GreaterOrEqual(t, b.Occupancy, 0)
		assert.LessOrEqual(t, b.Occupancy, 100)
		assert.LessOrEqual(t, b.Rating, 5.0)
	}
	assert.Equal(t, []string{"18C", "21G", "70"}, numbers)
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Buses[0].Number = "X"
	assert.Equal(t, "18C", Default().Buses[0].Number)
}

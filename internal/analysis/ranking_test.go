package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

func names(devices []household.Device) []string {
	out := make([]string, len(devices))
	for i, d := range devices {
		out[i] = d.Name
	}
	return out
}

func TestTopDevices_SortedDescending(t *testing.T) {
	devices := []household.Device{
		dev("lamp", 60, 2, 24),
		dev("oven", 3000, 2, 24),
		dev("fridge", 150, 2, 24),
	}
	top := TopDevices(devices, 2)
	assert.Equal(t, []string{"oven", "fridge"}, names(top))
}

func TestTopDevices_Sizes(t *testing.T) {
	devices := []household.Device{dev("a", 1, 2, 2), dev("b", 2, 2, 2), dev("c", 3, 2, 2)}

	tests := []struct {
		n    int
		want int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{3, 3},
		{10, 3},
	}
	for _, tc := range tests {
		got := TopDevices(devices, tc.n)
		require.NotNil(t, got)
		assert.Len(t, got, tc.want, "n=%d", tc.n)
	}
	assert.Empty(t, TopDevices(nil, 5))
}

func TestTopDevices_StableOnTies(t *testing.T) {
	devices := []household.Device{
		dev("first", 100, 2, 2),
		dev("big", 500, 2, 2),
		dev("second", 100, 2, 2),
		dev("third", 100, 2, 2),
	}
	top := TopDevices(devices, 4)
	assert.Equal(t, []string{"big", "first", "second", "third"}, names(top))
}

func TestTopDevices_DoesNotReorderInput(t *testing.T) {
	devices := []household.Device{dev("a", 1, 2, 2), dev("b", 2, 2, 2)}
	_ = TopDevices(devices, 2)
	assert.Equal(t, []string{"a", "b"}, names(devices))
}

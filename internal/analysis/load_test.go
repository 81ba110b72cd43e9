package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

func dev(name string, power household.Watts, from, to int) household.Device {
	return household.Device{
		Location: "Kitchen",
		Type:     "Household appliance",
		Name:     name,
		Power:    power,
		TimeFrom: from,
		TimeTo:   to,
	}
}

// --- TotalPower ---

func TestTotalPower_Empty(t *testing.T) {
	assert.Equal(t, household.Watts(0), TotalPower(nil))
	assert.Equal(t, household.Watts(0), TotalPower([]household.Device{}))
}

func TestTotalPower_OrderInvariant(t *testing.T) {
	a := []household.Device{dev("a", 0.1, 2, 3), dev("b", 1500.25, 2, 3), dev("c", 2.2, 2, 3)}
	b := []household.Device{a[2], a[0], a[1]}
	assert.InDelta(t, float64(TotalPower(a)), float64(TotalPower(b)), 1e-9)
	assert.InDelta(t, 1502.55, float64(TotalPower(a)), 1e-9)
}

// --- LoadByHour ---

func TestLoadByHour_EmptyHasAllSlots(t *testing.T) {
	curve := LoadByHour(nil)
	require.Len(t, curve, 23)
	for i, v := range curve {
		assert.Zero(t, v, "bucket %d", i)
	}
}

func TestLoadByHour_ClosedInterval(t *testing.T) {
	curve := LoadByHour([]household.Device{dev("heater", 100, 8, 10)})
	for i, v := range curve {
		h := HourAt(i)
		if h >= 8 && h <= 10 {
			assert.Equal(t, household.Watts(100), v, "hour %d", h)
		} else {
			assert.Zero(t, v, "hour %d", h)
		}
	}
}

func TestLoadByHour_OverlappingDevicesAdd(t *testing.T) {
	curve := LoadByHour([]household.Device{
		dev("a", 100, 2, 5),
		dev("b", 50, 5, 24),
	})
	assert.Equal(t, household.Watts(100), curve[0])
	i5, _ := IndexOf(5)
	assert.Equal(t, household.Watts(150), curve[i5])
	assert.Equal(t, household.Watts(50), curve[HourSlots-1])
}

func TestLoadByHour_HoursOffCurveAndInvertedWindows(t *testing.T) {
	curve := LoadByHour([]household.Device{
		dev("night", 40, 0, 1),
		dev("inverted", 500, 10, 8),
	})
	for i, v := range curve {
		assert.Zero(t, v, "hour %d", HourAt(i))
	}
}

func TestIndexOf(t *testing.T) {
	i, ok := IndexOf(2)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = IndexOf(24)
	assert.True(t, ok)
	assert.Equal(t, 22, i)

	_, ok = IndexOf(1)
	assert.False(t, ok)
	_, ok = IndexOf(25)
	assert.False(t, ok)
}

func TestPeak_FirstOccurrenceWins(t *testing.T) {
	curve := LoadByHour([]household.Device{
		dev("morning", 300, 6, 7),
		dev("evening", 300, 19, 20),
	})
	idx, v := curve.Peak()
	assert.Equal(t, 6, HourAt(idx))
	assert.Equal(t, household.Watts(300), v)
}

func TestPeak_AllZero(t *testing.T) {
	var curve LoadCurve
	idx, v := curve.Peak()
	assert.Equal(t, 0, idx)
	assert.Zero(t, v)
}

func TestPoints(t *testing.T) {
	points := LoadByHour([]household.Device{dev("a", 10, 24, 24)}).Points()
	require.Len(t, points, HourSlots)
	assert.Equal(t, HourPoint{Hour: 2, Power: 0}, points[0])
	assert.Equal(t, HourPoint{Hour: 24, Power: 10}, points[22])
}

package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, Clock(545), c)
	assert.Equal(t, "09:05", c.String())

	for _, bad := range []string{"9:05", "24:00", "12:60", "12-00", "", "12:00:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestWindowOverlaps(t *testing.T) {
	base := Window{Start: MustClock("10:00"), End: MustClock("11:00")}

	assert.False(t, base.Overlaps(Window{Start: MustClock("11:00"), End: MustClock("12:00")}))
	assert.False(t, base.Overlaps(Window{Start: MustClock("09:00"), End: MustClock("10:00")}))
	assert.True(t, base.Overlaps(Window{Start: MustClock("10:00"), End: MustClock("11:01")}))
	assert.True(t, base.Overlaps(Window{Start: MustClock("10:59"), End: MustClock("11:30")}))
	assert.True(t, base.Overlaps(base))

	assert.Equal(t, 60, base.Minutes())
	assert.Equal(t, 1.0, base.Hours())
	assert.Equal(t, 0, Window{Start: 10, End: 5}.Minutes())
	assert.Equal(t, "10:00-11:00", base.String())
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2025-06-02")
	require.NoError(t, err)

	assert.Equal(t, time.Monday, d.Weekday())
	assert.True(t, d.Before(Date{Year: 2025, Month: 6, Day: 3}))
	assert.True(t, d.After(Date{Year: 2025, Month: 5, Day: 31}))
	assert.Equal(t, 29, d.DaysUntil(Date{Year: 2025, Month: 7, Day: 1}))
	assert.Equal(t, -2, d.DaysUntil(Date{Year: 2025, Month: 5, Day: 31}))
	assert.False(t, d.IsZero())

	_, err = ParseDate("2025-02-30")
	assert.Error(t, err)
}

func TestTimeframeJSON(t *testing.T) {
	iv := BookingInterval{
		ResourceID: "hall-1",
		Date:       Date{Year: 2025, Month: 6, Day: 2},
		Window:     Window{Start: MustClock("10:00"), End: MustClock("11:30")},
		Status:     BookingPending,
	}

	raw, err := json.Marshal(iv)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"date":"2025-06-02"`)
	assert.Contains(t, string(raw), `"window":{"start":"10:00","end":"11:30"}`)

	var back BookingInterval
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, iv, back)
}

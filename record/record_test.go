package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/hourgen/target"
)

func TestNew(t *testing.T) {
	h := target.Hour{Year: 2024, Month: 3, Day: 15, Hour: 7}
	// Clock is in a different hour and day: only minute and second are used
	at := time.Date(2026, 10, 17, 13, 4, 9, 0, time.UTC)

	r := New(37, h, at, "AbCdEfGhIj")

	assert.Equal(t, int32(37), r.ID)
	assert.Equal(t, "AbCdEfGhIj", r.Name)
	assert.Equal(t, "20240315070409", r.FDatetime)
	assert.Len(t, r.FDatetime, DatetimeLength)
}

func TestNew_SamplesUTC(t *testing.T) {
	h := target.Hour{Year: 2024, Month: 3, Day: 15, Hour: 7}
	// +05:30 shifts the minute when converted to UTC
	ist := time.FixedZone("IST", 5*60*60+30*60)
	at := time.Date(2024, 3, 15, 12, 45, 1, 0, ist)

	r := New(0, h, at, "x")
	assert.Equal(t, "20240315071501", r.FDatetime)
}

func TestFormatDatetime_OutOfRangePassesThrough(t *testing.T) {
	h := target.Hour{Year: 2024, Month: 13, Day: 1, Hour: 125}
	assert.Equal(t, "202413011250059", FormatDatetime(h, 0, 59))
}

// Package record defines the synthetic rows written to the hourly file.
package record

import (
	"fmt"
	"time"

	"github.com/teranos/hourgen/target"
)

// DatetimeLength is the length of a well-formed fdatetime value.
const DatetimeLength = 14

// Record is one synthetic row. Field tags name the Parquet columns and must
// match the loaded schema (see package schema).
type Record struct {
	ID        int32  `parquet:"id" json:"id"`
	Name      string `parquet:"name" json:"name"`
	FDatetime string `parquet:"fdatetime" json:"fdatetime"`
}

// New builds the record with sequence index id. The date and hour come from
// the target; minute and second come from at, sampled in UTC.
func New(id int, h target.Hour, at time.Time, name string) Record {
	u := at.UTC()
	return Record{
		ID:        int32(id),
		Name:      name,
		FDatetime: FormatDatetime(h, u.Minute(), u.Second()),
	}
}

// FormatDatetime renders YYYYMMDDHHMMSS. Out-of-range target fields are
// rendered as-is, so such values may exceed DatetimeLength.
func FormatDatetime(h target.Hour, minute, second int) string {
	return fmt.Sprintf("%04d%02d%02d%02d%02d%02d", h.Year, h.Month, h.Day, h.Hour, minute, second)
}

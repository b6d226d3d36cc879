package fat16

import (
	"fmt"
	"time"
)

// Timestamp is a decoded FAT write date and time.
//
// The packed date is a 16 bit field relative to the MS-DOS epoch 01/01/1980:
//
//	Bits 0–4: Day of month, valid value range 1–31 inclusive.
//	Bits 5–8: Month of year, 1 = January, valid value range 1–12 inclusive.
//	Bits 9–15: Count of years from 1980, valid value range 0–127 inclusive.
//
// The packed time has a granularity of 2 seconds:
//
//	Bits 0–4: 2-second count, valid value range 0–29 inclusive (0–58 seconds).
//	Bits 5–10: Minutes, valid value range 0–59 inclusive.
//	Bits 11–15: Hours, valid value range 0–23 inclusive.
//
// The fields hold the raw decoded values, even if they are out of range.
type Timestamp struct {
	Hour   int
	Minute int
	Second int
	Day    int
	Month  int
	Year   int
}

// ParseTimestamp decodes a packed FAT date and time.
func ParseTimestamp(date, clock uint16) Timestamp {
	return Timestamp{
		Hour:   int(clock&0xF800) >> 11,
		Minute: int(clock&0x7E0) >> 5,
		Second: int(clock&0x1F) * 2,
		Day:    int(date & 0x1F),
		Month:  int(date&0x1E0) >> 5,
		Year:   1980 + int(date&0xFE00)>>9,
	}
}

// Time converts the timestamp to a time.Time in UTC.
//
// As value 0 for day and month is defined as invalid, time.Time{} is returned in that case
// to be compatible with time.Time.IsZero().
// A month bigger than 12 is unspecified and rolls over into the next year.
// A time of day bigger than the valid range is limited to 23:59:59.
func (ts Timestamp) Time() time.Time {
	if ts.Day == 0 || ts.Month == 0 {
		return time.Time{}
	}

	clock := time.Date(1, 1, 1, ts.Hour, ts.Minute, ts.Second, 0, time.UTC)
	if clock.Day() > 1 {
		clock = time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}

	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}

// Clock formats the time of day as HH:MM:SS.
func (ts Timestamp) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", ts.Hour, ts.Minute, ts.Second)
}

// Date formats the date as DD/MM/YYYY.
func (ts Timestamp) Date() string {
	return fmt.Sprintf("%02d/%02d/%-4d", ts.Day, ts.Month, ts.Year)
}

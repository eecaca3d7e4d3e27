package tool

import (
	"time"

	"github.com/samber/lo"
)

// UnixToTimePtr converts provider epoch seconds to a UTC time; zero means "unset".
func UnixToTimePtr(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	return lo.ToPtr(time.Unix(sec, 0).UTC())
}

// UnixMilliToTimePtr is UnixToTimePtr for millisecond timestamps.
func UnixMilliToTimePtr(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	return lo.ToPtr(time.UnixMilli(ms).UTC())
}

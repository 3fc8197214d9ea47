package rewards

import "time"

// DayIndex buckets a timestamp into the daily rate-limit window. Two calls
// with the same clock reading always land in the same bucket; pre-epoch
// readings clamp to day zero.
func DayIndex(t time.Time) uint64 {
	secs := t.Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs) / SecondsPerDay
}

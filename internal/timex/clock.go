package timex

import "time"

// Clock is the time source for expiry and timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ToUnix converts t to the integer form stored in the database.
func ToUnix(t time.Time) int64 {
	return t.UTC().UnixNano()
}

// FromUnix is the inverse of ToUnix.
func FromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// FromUnixPtr maps a nullable column to an optional time.
func FromUnixPtr(n *int64) *time.Time {
	if n == nil {
		return nil
	}
	t := FromUnix(*n)
	return &t
}

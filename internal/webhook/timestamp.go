package webhook

import (
	"math"
	"strconv"
	"time"
)

// Tolerance is how far a request timestamp may drift from the local clock,
// in seconds. The defaults allow for sender-side queueing and modest clock
// skew while keeping the replay window short.
type Tolerance struct {
	Past   uint32
	Future uint32
}

// DefaultTolerance returns the standard replay tolerance: 5 minutes in the
// past, 15 seconds in the future.
func DefaultTolerance() Tolerance {
	return Tolerance{Past: 300, Future: 15}
}

// IgnoreTimestamps returns a tolerance wide enough to accept any timestamp.
// Intended for tests replaying recorded webhook deliveries.
func IgnoreTimestamps() Tolerance {
	return Tolerance{Past: math.MaxUint32, Future: math.MaxUint32}
}

// TimeBounds is the inclusive [NotBefore, NotAfter] replay window for one
// request, in Unix epoch seconds.
type TimeBounds struct {
	NotBefore uint64
	NotAfter  uint64
}

// BoundsAt derives the replay window from a reference time. The lower bound
// clamps to zero when the past tolerance exceeds the epoch time; a maximal
// future tolerance saturates the upper bound so no timestamp is too new.
func (t Tolerance) BoundsAt(now time.Time) TimeBounds {
	epoch := now.Unix()
	if epoch < 0 {
		epoch = 0
	}
	var notBefore uint64
	if uint64(epoch) > uint64(t.Past) {
		notBefore = uint64(epoch) - uint64(t.Past)
	}
	notAfter := uint64(epoch) + uint64(t.Future)
	if t.Future == math.MaxUint32 {
		notAfter = math.MaxUint64
	}
	return TimeBounds{
		NotBefore: notBefore,
		NotAfter:  notAfter,
	}
}

// ValidateTimestamp parses a provider-supplied timestamp as unsigned decimal
// Unix seconds and checks it lies within the bounds, inclusive. Both parse
// failures and out-of-window values are Timestamp errors.
func ValidateTimestamp(value string, bounds TimeBounds) (uint64, error) {
	ts, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, TimestampError("timestamp '%s' is not a valid unix timestamp", value)
	}
	if ts < bounds.NotBefore || ts > bounds.NotAfter {
		return 0, TimestampError("timestamp %d outside allowed window [%d, %d]", ts, bounds.NotBefore, bounds.NotAfter)
	}
	return ts, nil
}

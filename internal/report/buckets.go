package report

import "time"

const day = 24 * time.Hour

// Deadline buckets in severity order.
const (
	BucketOverdue    = "Overdue"
	BucketUrgent     = "Urgent (≤3 days)"
	BucketUpcoming   = "Upcoming (≤1 week)"
	BucketNearFuture = "Near Future (≤1 month)"
	BucketFuture     = "Future (>1 month)"
)

var bucketOrder = []string{BucketOverdue, BucketUrgent, BucketUpcoming, BucketNearFuture, BucketFuture}

// Bucket classifies deadline relative to now.
func Bucket(deadline, now time.Time) string {
	left := deadline.Sub(now)
	switch {
	case deadline.Before(now):
		return BucketOverdue
	case left <= 3*day:
		return BucketUrgent
	case left <= 7*day:
		return BucketUpcoming
	case left <= 30*day:
		return BucketNearFuture
	default:
		return BucketFuture
	}
}

package htlc

import "time"

// Expired reports whether the deadline has been reached at the given ledger
// time. Refund becomes legal exactly at the deadline, so the comparison is
// at-or-after.
func Expired(now, deadline time.Time) bool {
	return !now.Before(deadline)
}

// ValidDeadline reports whether a deadline is far enough in the future to
// accept at creation. With a zero margin the deadline still has to be
// strictly in the future.
func ValidDeadline(now, deadline time.Time, margin time.Duration) bool {
	if margin <= 0 {
		return deadline.After(now)
	}
	return !deadline.Before(now.Add(margin))
}

// SafeCrossChainOrder reports whether the destination-chain deadline is
// strictly earlier than the source-chain deadline. The destination leg must
// time out first: if this chain refunds, the counterpart still has time to
// cancel before its own withdrawal window opens.
func SafeCrossChainOrder(dstDeadline, srcDeadline time.Time) bool {
	return dstDeadline.Before(srcDeadline)
}

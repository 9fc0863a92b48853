package domain

// Quota represents an owner's storage accounting
type Quota struct {
	OwnerID      string
	SpaceAllowed uint64
	SpaceUsed    uint64
}

// Remaining returns the bytes still available
func (q Quota) Remaining() uint64 {
	if q.SpaceUsed >= q.SpaceAllowed {
		return 0
	}
	return q.SpaceAllowed - q.SpaceUsed
}

// Admits reports whether size more bytes fit
func (q Quota) Admits(size uint64) bool {
	return size <= q.Remaining()
}

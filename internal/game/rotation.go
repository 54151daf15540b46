package game

// nextInRotation returns the index that follows from in a roster of size n,
// and whether that step wrapped back to the roster start. A negative from
// yields the first player without wrapping.
//
// Turn rotation and disconnect repair both go through here so that the
// insertion-order tie-break lives in one place.
func nextInRotation(n, from int) (next int, wrapped bool) {
	if n <= 0 {
		return -1, false
	}
	next = from + 1
	if next >= n {
		return 0, true
	}
	if next < 0 {
		next = 0
	}
	return next, false
}

// successorAfterRemoval picks who follows a player that sat at departedIndex
// in the roster before it was removed. remaining is the roster size after removal.
func successorAfterRemoval(remaining, departedIndex int) (next int, wrapped bool) {
	return nextInRotation(remaining, departedIndex-1)
}
